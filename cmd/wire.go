package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/soiltwin/soiltwin-cli/internal/adapters/api"
	dashboardadapter "github.com/soiltwin/soiltwin-cli/internal/adapters/render/dashboard"
	chainstore "github.com/soiltwin/soiltwin-cli/internal/adapters/storage/chain"
	filestore "github.com/soiltwin/soiltwin-cli/internal/adapters/storage/file"
	passstore "github.com/soiltwin/soiltwin-cli/internal/adapters/storage/pass"
	tomlstore "github.com/soiltwin/soiltwin-cli/internal/adapters/storage/toml"
	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/config"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/logging"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
)

var errSessionExpired = errors.New("session expired, please log in again with `st login`")

type app struct {
	cfg       config.Config
	logger    *zap.Logger
	flushLogs func()

	sessions    *application.SessionStore
	interceptor *application.UnauthorizedInterceptor
	client      *api.Client
	auth        *api.AuthClient
	boundary    *loginBoundary

	dashboardRenderer func(application.DashboardView, dashboardadapter.RenderOptions) (string, error)
	now               func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, flush, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	store, err := newSessionStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("wire session storage: %w", err)
	}

	baseURL, err := api.ResolveBaseURL(cfg.API.BaseURL, cfg.API.Origin)
	if err != nil {
		return nil, fmt.Errorf("resolve api base url: %w", err)
	}
	transport := &api.Transport{
		BaseURL:        baseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.API.Timeout,
		Logger:         logger,
	}

	authClient := api.NewAuthClient(transport)
	sessions := application.NewSessionStore(store, authClient, logger)
	boundary := &loginBoundary{}
	interceptor := application.NewUnauthorizedInterceptor(sessions, boundary.reach, logger)

	logger.Debug("app wired",
		zap.String("base_url", baseURL),
		zap.String("storage", cfg.Storage.Backend),
	)

	return &app{
		cfg:               cfg,
		logger:            logger,
		flushLogs:         flush,
		sessions:          sessions,
		interceptor:       interceptor,
		client:            api.NewClient(transport, sessions, interceptor.HandleUnauthorized),
		auth:              authClient,
		boundary:          boundary,
		dashboardRenderer: dashboardadapter.Render,
		now:               time.Now,
	}, nil
}

func newSessionStorage(cfg config.Storage) (ports.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return filestore.NewStore(cfg.Dir), nil
	case config.BackendPass:
		return passstore.NewStore(cfg.PassPrefix), nil
	case config.BackendChain:
		store, err := chainstore.NewPassFirstWithTOMLFallback(cfg.PassPrefix, cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := tomlstore.NewStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func (a *app) close() {
	a.sessions.Close()
	a.flushLogs()
}

// loginBoundary is where the unauthorized interceptor sends the user. In a
// terminal that means aborting the running command with errSessionExpired.
type loginBoundary struct {
	mu      sync.Mutex
	cancel  context.CancelCauseFunc
	reached bool
}

func (b *loginBoundary) bind(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancelCause(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancel = cancel
	b.reached = false
	return ctx
}

func (b *loginBoundary) reach() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reached = true
	if b.cancel != nil {
		b.cancel(errSessionExpired)
	}
}

func (b *loginBoundary) wasReached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reached
}

// settle maps failures caused by a rejected session onto errSessionExpired.
func (a *app) settle(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(context.Cause(ctx), errSessionExpired) || a.boundary.wasReached() {
		return errSessionExpired
	}
	return err
}

// expiredCause reports errSessionExpired when ctx was ended by the login
// boundary. Plain cancellation, such as an interrupt, yields nil.
func expiredCause(ctx context.Context) error {
	if errors.Is(context.Cause(ctx), errSessionExpired) {
		return errSessionExpired
	}
	return nil
}
