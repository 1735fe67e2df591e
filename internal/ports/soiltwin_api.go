package ports

import (
	"context"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

// SoilTwinAPI is the authenticated read/write surface the dashboard polls and drives.
type SoilTwinAPI interface {
	SoilState(ctx context.Context) (domain.SoilReading, error)
	Profile(ctx context.Context) (domain.ProfileEnvelope, error)
	Weather(ctx context.Context, location string) (domain.Weather, error)
	TriggerEvent(ctx context.Context, event domain.EventRequest) (domain.EventAck, error)
}
