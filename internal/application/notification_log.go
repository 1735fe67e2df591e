package application

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
)

const (
	DefaultNotificationCapacity = 6
	DefaultNotificationTTL      = 8 * time.Second
)

type NotificationLogOption func(*NotificationLog)

func WithCapacity(capacity int) NotificationLogOption {
	return func(l *NotificationLog) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

func WithTTL(ttl time.Duration) NotificationLogOption {
	return func(l *NotificationLog) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock sets the source of timestamps and of the expiry timers.
func WithClock(clock ports.Clock) NotificationLogOption {
	return func(l *NotificationLog) {
		if clock != nil {
			l.clock = clock
		}
	}
}

type notificationEntry struct {
	record domain.Notification
	timer  ports.Timer
}

// NotificationLog is a bounded, self-expiring activity feed. Entries are kept
// oldest first and are removed by ID, never by position.
type NotificationLog struct {
	capacity int
	ttl      time.Duration
	clock    ports.Clock

	mu          sync.Mutex
	entries     map[domain.NotificationID]*notificationEntry
	order       []domain.NotificationID
	lastPulse   time.Time
	subscribers map[int]func()
	nextSubID   int
	closed      bool
}

func NewNotificationLog(opts ...NotificationLogOption) *NotificationLog {
	l := &NotificationLog{
		capacity:    DefaultNotificationCapacity,
		ttl:         DefaultNotificationTTL,
		clock:       ports.SystemClock{},
		entries:     map[domain.NotificationID]*notificationEntry{},
		subscribers: map[int]func(){},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends a notification and schedules its own removal after the TTL.
func (l *NotificationLog) Record(message string, category domain.Category) domain.Notification {
	if !category.Valid() {
		category = domain.CategoryInfo
	}

	now := l.clock.Now()
	record := domain.Notification{
		ID:        newNotificationID(),
		Message:   message,
		Category:  category,
		CreatedAt: now,
		Stamp:     now.Format(domain.NotificationStampLayout),
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return record
	}

	entry := &notificationEntry{record: record}
	l.entries[record.ID] = entry
	l.order = append(l.order, record.ID)
	for len(l.order) > l.capacity {
		evicted := l.order[0]
		l.order = l.order[1:]
		if old, ok := l.entries[evicted]; ok {
			old.timer.Stop()
			delete(l.entries, evicted)
		}
	}

	id := record.ID
	entry.timer = l.clock.AfterFunc(l.ttl, func() { l.remove(id) })
	subscribers := l.subscriberSnapshot()
	l.mu.Unlock()

	notify(subscribers)
	return record
}

func (l *NotificationLog) remove(id domain.NotificationID) {
	l.mu.Lock()
	if _, ok := l.entries[id]; !ok {
		l.mu.Unlock()
		return
	}
	delete(l.entries, id)
	l.order = slices.DeleteFunc(l.order, func(candidate domain.NotificationID) bool { return candidate == id })
	subscribers := l.subscriberSnapshot()
	l.mu.Unlock()

	notify(subscribers)
}

// Entries returns the live notifications in insertion order.
func (l *NotificationLog) Entries() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]domain.Notification, 0, len(l.order))
	for _, id := range l.order {
		records = append(records, l.entries[id].record)
	}
	return records
}

// Pulse marks a heartbeat. It is unrelated to the entries.
func (l *NotificationLog) Pulse() {
	now := l.clock.Now()

	l.mu.Lock()
	l.lastPulse = now
	subscribers := l.subscriberSnapshot()
	l.mu.Unlock()

	notify(subscribers)
}

func (l *NotificationLog) LastPulse() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastPulse
}

// Subscribe registers fn to run after every change. fn must not block.
func (l *NotificationLog) Subscribe(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

// Close stops every pending expiry timer. Later records are not kept.
func (l *NotificationLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		entry.timer.Stop()
	}
	clear(l.subscribers)
	l.closed = true
}

func (l *NotificationLog) subscriberSnapshot() []func() {
	subscribers := make([]func(), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		subscribers = append(subscribers, fn)
	}
	return subscribers
}

func notify(subscribers []func()) {
	for _, fn := range subscribers {
		fn()
	}
}

func newNotificationID() domain.NotificationID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.NotificationID(uuid.NewString())
	}
	return domain.NotificationID(id.String())
}
