package application

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
	"go.uber.org/zap"
)

const DefaultSyncDelay = 4 * time.Second

var ErrEventIgnored = errors.New("event ignored by backend")

type DashboardOptions struct {
	// Location enables the weather task when non-empty.
	Location  string
	// Identity reports the logged-in user for the view header.
	Identity  func() (domain.Identity, bool)
	SyncDelay time.Duration
	Logger    *zap.Logger
}

// Dashboard is the live soil view: polled snapshots plus the activity log.
type Dashboard struct {
	api  ports.SoilTwinAPI
	log  *NotificationLog
	opts DashboardOptions

	soil    Snapshot[domain.SoilReading]
	profile Snapshot[domain.ProfileEnvelope]
	weather Snapshot[domain.Weather]

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

func NewDashboard(api ports.SoilTwinAPI, log *NotificationLog, opts DashboardOptions) *Dashboard {
	if opts.SyncDelay <= 0 {
		opts.SyncDelay = DefaultSyncDelay
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Logger = opts.Logger.Named("dashboard")

	return &Dashboard{
		api:    api,
		log:    log,
		opts:   opts,
		timers: map[*time.Timer]struct{}{},
	}
}

// Tasks returns the poll tasks feeding the dashboard snapshots.
func (d *Dashboard) Tasks() []PollTask {
	tasks := []PollTask{
		Track("soil", d.api.SoilState, domain.SoilReading.HasData, &d.soil),
		Track("profile", d.api.Profile, domain.ProfileEnvelope.Found, &d.profile),
	}
	if location := strings.TrimSpace(d.opts.Location); location != "" {
		fetch := func(ctx context.Context) (domain.Weather, error) {
			return d.api.Weather(ctx, location)
		}
		tasks = append(tasks, Track("weather", fetch, nil, &d.weather))
	}
	return tasks
}

// SubmitEvent injects a simulation event and applies the backend's projected
// state right away. The authoritative state arrives later through polling.
func (d *Dashboard) SubmitEvent(ctx context.Context, req domain.EventRequest) (domain.EventAck, error) {
	d.log.Record(fmt.Sprintf("Sending [%s] event to API...", req.DisplayLabel()), domain.CategoryEvent)

	ack, err := d.api.TriggerEvent(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			d.log.Record("Event failed: "+err.Error(), domain.CategoryError)
		}
		return domain.EventAck{}, err
	}

	state, ok := ack.OptimisticState()
	if !ok {
		if !ack.Injected() {
			reason := ack.Detail
			if reason == "" {
				reason = ack.Status
			}
			d.log.Record("Event failed: "+reason, domain.CategoryError)
			return ack, fmt.Errorf("%w: %s", ErrEventIgnored, reason)
		}
		return ack, nil
	}

	d.soil.Set(d.mergeSoil(state))
	d.log.Record("Optimistic update applied", domain.CategoryWarning)
	d.scheduleSync()

	return ack, nil
}

func (d *Dashboard) mergeSoil(projected domain.SoilReading) domain.SoilReading {
	current, ok := d.soil.Get()
	if !ok {
		return projected
	}

	fields := make(map[string]any, len(current.Fields)+len(projected.Fields))
	maps.Copy(fields, current.Fields)
	maps.Copy(fields, projected.Fields)
	return domain.SoilReading{Fields: fields}
}

func (d *Dashboard) scheduleSync() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.opts.SyncDelay, func() {
		d.mu.Lock()
		_, pending := d.timers[timer]
		delete(d.timers, timer)
		d.mu.Unlock()

		if pending {
			d.log.Record("Pathway engine synced", domain.CategorySuccess)
		}
	})
	d.timers[timer] = struct{}{}
}

type DashboardView struct {
	Identity      domain.Identity
	Authenticated bool
	Soil          domain.SoilReading
	HasSoil       bool
	SoilUpdatedAt time.Time
	Profile       *domain.Profile
	Weather       *domain.Weather
	Notifications []domain.Notification
	LastPulse     time.Time
}

func (d *Dashboard) View() DashboardView {
	view := DashboardView{
		Notifications: d.log.Entries(),
		LastPulse:     d.log.LastPulse(),
		SoilUpdatedAt: d.soil.UpdatedAt(),
	}
	if d.opts.Identity != nil {
		view.Identity, view.Authenticated = d.opts.Identity()
	}

	view.Soil, view.HasSoil = d.soil.Get()
	if envelope, ok := d.profile.Get(); ok && envelope.Data != nil {
		profile := *envelope.Data
		view.Profile = &profile
	}
	if weather, ok := d.weather.Get(); ok {
		view.Weather = &weather
	}
	return view
}

// Reset drops every polled snapshot, e.g. once the session has ended.
func (d *Dashboard) Reset() {
	d.soil.Reset()
	d.profile.Reset()
	d.weather.Reset()
}

// Close cancels pending sync acknowledgements.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for timer := range d.timers {
		timer.Stop()
	}
	clear(d.timers)
	d.closed = true
}
