package application

import (
	"context"

	"go.uber.org/zap"
)

type sessionExpirer interface {
	Expire(ctx context.Context, token string) bool
}

// UnauthorizedInterceptor applies the global rule for 401 responses: drop the
// session and send the user back to the login boundary.
type UnauthorizedInterceptor struct {
	sessions sessionExpirer
	navigate func()
	logger   *zap.Logger
}

func NewUnauthorizedInterceptor(sessions sessionExpirer, navigate func(), logger *zap.Logger) *UnauthorizedInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if navigate == nil {
		navigate = func() {}
	}

	return &UnauthorizedInterceptor{sessions: sessions, navigate: navigate, logger: logger.Named("interceptor")}
}

// HandleUnauthorized matches api.UnauthorizedFunc. Responses carrying an
// already superseded token are ignored, so a burst of 401s navigates once.
func (i *UnauthorizedInterceptor) HandleUnauthorized(ctx context.Context, token string) {
	if !i.sessions.Expire(ctx, token) {
		i.logger.Debug("ignoring 401 for superseded session")
		return
	}

	i.logger.Info("session rejected by backend, returning to login")
	i.navigate()
}
