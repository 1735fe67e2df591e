package ports

import (
	"context"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.LoginGrant, error)
}
