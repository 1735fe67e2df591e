package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(records []domain.Notification) []domain.Category {
	out := make([]domain.Category, 0, len(records))
	for _, record := range records {
		out = append(out, record.Category)
	}
	return out
}

func TestDashboardSubmitEventAppliesOptimisticStateThenSyncs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		dashboard := NewDashboard(api, log, DashboardOptions{})
		defer dashboard.Close()

		dashboard.soil.Set(domain.SoilReading{Fields: map[string]any{"nitrogen": "410", "ph": "6.5", "moisture": "20"}})

		event := domain.EventRequest{Type: domain.EventRain, Amount: 25, Label: "rain25"}
		api.EXPECT().TriggerEvent(mockAnyContext(), event).Return(domain.EventAck{
			Status:   domain.EventStatusInjected,
			NewState: map[string]any{"nitrogen": 380.0, "moisture": 30.0},
		}, nil).Once()

		ack, err := dashboard.SubmitEvent(context.Background(), event)
		require.NoError(t, err)
		assert.True(t, ack.Injected())

		view := dashboard.View()
		require.True(t, view.HasSoil)
		assert.Equal(t, map[string]any{"nitrogen": 380.0, "ph": "6.5", "moisture": 30.0}, view.Soil.Fields)
		assert.Equal(t, []string{"Sending [rain25] event to API...", "Optimistic update applied"}, messages(view.Notifications))
		assert.Equal(t, []domain.Category{domain.CategoryEvent, domain.CategoryWarning}, categories(view.Notifications))

		time.Sleep(DefaultSyncDelay)
		synctest.Wait()

		entries := log.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "Pathway engine synced", entries[2].Message)
		assert.Equal(t, domain.CategorySuccess, entries[2].Category)
	})
}

func TestDashboardSubmitEventFailureIsRecorded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		dashboard := NewDashboard(api, log, DashboardOptions{})
		defer dashboard.Close()

		event := domain.EventRequest{Type: domain.EventHarvest}
		api.EXPECT().TriggerEvent(mockAnyContext(), event).Return(domain.EventAck{}, errors.New("trigger harvest event: connection refused")).Once()

		_, err := dashboard.SubmitEvent(context.Background(), event)
		require.Error(t, err)

		entries := log.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "Event failed: trigger harvest event: connection refused", entries[1].Message)
		assert.Equal(t, domain.CategoryError, entries[1].Category)

		time.Sleep(DefaultSyncDelay + time.Second)
		synctest.Wait()
		assert.Len(t, log.Entries(), 2)
	})
}

func TestDashboardSubmitEventLeavesUnauthorizedToInterceptor(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		dashboard := NewDashboard(api, log, DashboardOptions{})
		defer dashboard.Close()

		event := domain.EventRequest{Type: domain.EventIrrigation}
		api.EXPECT().TriggerEvent(mockAnyContext(), event).Return(domain.EventAck{}, fmt.Errorf("trigger irrigation event: %w", domain.ErrUnauthorized)).Once()

		_, err := dashboard.SubmitEvent(context.Background(), event)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, []string{"Sending [irrigation] event to API..."}, messages(log.Entries()))
	})
}

func TestDashboardSubmitEventIgnoredByBackend(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		dashboard := NewDashboard(api, log, DashboardOptions{})
		defer dashboard.Close()

		event := domain.EventRequest{Type: domain.EventAmendment}
		api.EXPECT().TriggerEvent(mockAnyContext(), event).Return(domain.EventAck{Status: "Ignored", Detail: "Unknown event type"}, nil).Once()

		_, err := dashboard.SubmitEvent(context.Background(), event)
		require.ErrorIs(t, err, ErrEventIgnored)
		assert.Equal(t, "Event failed: Unknown event type", log.Entries()[1].Message)
	})
}

func TestDashboardCloseCancelsPendingSync(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		dashboard := NewDashboard(api, log, DashboardOptions{})

		event := domain.EventRequest{Type: domain.EventRain, Amount: 5}
		api.EXPECT().TriggerEvent(mockAnyContext(), event).Return(domain.EventAck{
			Status:   domain.EventStatusInjected,
			NewState: map[string]any{"moisture": 22.0},
		}, nil).Once()

		_, err := dashboard.SubmitEvent(context.Background(), event)
		require.NoError(t, err)

		dashboard.Close()
		time.Sleep(DefaultSyncDelay + time.Second)
		synctest.Wait()

		assert.Equal(t, []string{"Sending [rain] event to API...", "Optimistic update applied"}, messages(log.Entries()))
	})
}

func TestDashboardTasksFeedView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		api := mocks.NewMockSoilTwinAPI(t)
		log := NewNotificationLog()
		defer log.Close()
		identity := domain.Identity{Username: "farmer", Role: domain.RoleFarmer}
		dashboard := NewDashboard(api, log, DashboardOptions{
			Location: "Pune,IN",
			Identity: func() (domain.Identity, bool) { return identity, true },
		})
		defer dashboard.Close()

		temp := 28.5
		profile := domain.DefaultProfile()
		profile.Name = "Ravi"
		api.EXPECT().SoilState(mockAnyContext()).Return(domain.SoilReading{Status: domain.SoilStatusInitializing}, nil).Once()
		api.EXPECT().Profile(mockAnyContext()).Return(domain.ProfileEnvelope{Status: domain.ProfileStatusFound, Data: &profile}, nil).Once()
		api.EXPECT().Weather(mockAnyContext(), "Pune,IN").Return(domain.Weather{Temp: &temp, Description: "Sunny"}, nil).Once()

		tasks := dashboard.Tasks()
		require.Len(t, tasks, 3)

		poller := NewPoller(2*time.Second, tasks, WithBeforeCycle(log.Pulse))
		require.NoError(t, poller.Activate(context.Background()))
		synctest.Wait()
		poller.Deactivate()
		poller.Wait()

		view := dashboard.View()
		assert.True(t, view.Authenticated)
		assert.Equal(t, identity, view.Identity)
		assert.False(t, view.HasSoil)
		require.NotNil(t, view.Profile)
		assert.Equal(t, "Ravi", view.Profile.Name)
		require.NotNil(t, view.Weather)
		assert.True(t, view.Weather.Available())
		assert.False(t, view.LastPulse.IsZero())
	})
}

func TestDashboardWithoutLocationSkipsWeather(t *testing.T) {
	dashboard := NewDashboard(mocks.NewMockSoilTwinAPI(t), NewNotificationLog(), DashboardOptions{})
	defer dashboard.Close()

	tasks := dashboard.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "soil", tasks[0].Name)
	assert.Equal(t, "profile", tasks[1].Name)
}

func TestDashboardResetDropsSnapshots(t *testing.T) {
	api := mocks.NewMockSoilTwinAPI(t)
	log := NewNotificationLog()
	defer log.Close()
	dashboard := NewDashboard(api, log, DashboardOptions{})
	defer dashboard.Close()

	dashboard.soil.Set(domain.SoilReading{Fields: map[string]any{"nitrogen": 300.0}})
	dashboard.profile.Set(domain.ProfileEnvelope{Status: domain.ProfileStatusFound, Data: &domain.Profile{Name: "North Field"}})

	dashboard.Reset()

	view := dashboard.View()
	assert.False(t, view.HasSoil)
	assert.Nil(t, view.Profile)
	assert.True(t, view.SoilUpdatedAt.IsZero())
}
