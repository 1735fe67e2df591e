package application

import (
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
	"github.com/soiltwin/soiltwin-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

func messages(records []domain.Notification) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Message)
	}
	return out
}

func TestNotificationLogKeepsMostRecentSix(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog()
		defer log.Close()

		for i := range 10 {
			log.Record(fmt.Sprintf("msg-%d", i), domain.CategoryInfo)
		}

		want := []string{"msg-4", "msg-5", "msg-6", "msg-7", "msg-8", "msg-9"}
		if diff := cmp.Diff(want, messages(log.Entries())); diff != "" {
			t.Fatalf("entries mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNotificationLogExpiresAfterTTL(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog()
		defer log.Close()

		log.Record("heartbeat", domain.CategoryInfo)

		time.Sleep(7999 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, log.Entries(), 1)

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, log.Entries())
	})
}

func TestNotificationLogEvictedTimerDoesNotTouchNewerEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog()
		defer log.Close()

		log.Record("first", domain.CategoryEvent)

		time.Sleep(4 * time.Second)
		for i := range 6 {
			log.Record(fmt.Sprintf("later-%d", i), domain.CategoryInfo)
		}
		require.Equal(t, []string{"later-0", "later-1", "later-2", "later-3", "later-4", "later-5"}, messages(log.Entries()))

		// first's timer would have fired at 8s.
		time.Sleep(4*time.Second + time.Millisecond)
		synctest.Wait()
		assert.Len(t, log.Entries(), 6)

		time.Sleep(4 * time.Second)
		synctest.Wait()
		assert.Empty(t, log.Entries())
	})
}

func TestNotificationLogEachRecordExpiresIndependently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog(WithTTL(time.Second))
		defer log.Close()

		log.Record("a", domain.CategoryInfo)
		time.Sleep(600 * time.Millisecond)
		log.Record("b", domain.CategoryInfo)

		time.Sleep(500 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"b"}, messages(log.Entries()))

		time.Sleep(600 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, log.Entries())
	})
}

func TestNotificationLogRecordStampsAndIDs(t *testing.T) {
	clock := mocks.NewMockClock(t)
	now := time.Date(2026, 3, 14, 10, 15, 30, 0, time.UTC)
	clock.EXPECT().Now().Return(now)
	clock.EXPECT().AfterFunc(DefaultNotificationTTL, mock.Anything).Return(&manualTimer{})

	log := NewNotificationLog(WithClock(clock), WithCapacity(3))
	defer log.Close()

	first := log.Record("Sending [rain] event to API...", domain.CategoryEvent)
	second := log.Record("unknown category", domain.Category("loud"))

	assert.Equal(t, "10:15:30", first.Stamp)
	assert.Equal(t, now, first.CreatedAt)
	assert.Equal(t, domain.CategoryInfo, second.Category)
	assert.NotEqual(t, first.ID, second.ID)

	parsed, err := uuid.Parse(string(first.ID))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNotificationLogExpiresThroughInjectedClock(t *testing.T) {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 10, 15, 30, 0, time.UTC))

	var expire []func()
	var timers []*manualTimer
	clock.EXPECT().AfterFunc(5*time.Second, mock.Anything).RunAndReturn(func(_ time.Duration, f func()) ports.Timer {
		timer := &manualTimer{}
		expire = append(expire, f)
		timers = append(timers, timer)
		return timer
	})

	log := NewNotificationLog(WithClock(clock), WithTTL(5*time.Second), WithCapacity(2))
	log.Record("first", domain.CategoryInfo)
	log.Record("second", domain.CategoryInfo)
	log.Record("third", domain.CategoryInfo)

	require.Len(t, expire, 3)
	assert.True(t, timers[0].stopped, "evicted entry must stop its timer")
	assert.Equal(t, []string{"second", "third"}, messages(log.Entries()))

	expire[0]()
	assert.Equal(t, []string{"second", "third"}, messages(log.Entries()))

	expire[1]()
	assert.Equal(t, []string{"third"}, messages(log.Entries()))

	log.Close()
	assert.True(t, timers[2].stopped)
}

func TestNotificationLogPulseIsSeparateFromEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog()
		defer log.Close()

		assert.True(t, log.LastPulse().IsZero())

		log.Pulse()
		first := log.LastPulse()
		time.Sleep(2 * time.Second)
		log.Pulse()

		assert.Equal(t, 2*time.Second, log.LastPulse().Sub(first))
		assert.Empty(t, log.Entries())
	})
}

func TestNotificationLogSubscribersSeeChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog(WithTTL(time.Second))
		defer log.Close()

		changes := 0
		unsubscribe := log.Subscribe(func() { changes++ })

		log.Record("a", domain.CategoryInfo)
		log.Pulse()
		time.Sleep(2 * time.Second)
		synctest.Wait()
		assert.Equal(t, 3, changes)

		unsubscribe()
		log.Record("b", domain.CategoryInfo)
		assert.Equal(t, 3, changes)
	})
}

func TestNotificationLogCloseStopsTimers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		log := NewNotificationLog()
		log.Record("pending", domain.CategoryWarning)
		log.Close()

		time.Sleep(10 * time.Second)
		synctest.Wait()
		assert.Len(t, log.Entries(), 1)

		log.Record("after close", domain.CategoryInfo)
		assert.Len(t, log.Entries(), 1)
	})
}
