package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
	"go.uber.org/zap"
)

var sessionKeys = []string{domain.TokenKey, domain.RefreshTokenKey, domain.IdentityKey}

// SessionStore owns the logged-in session. Readers never observe a half
// updated session; Login, Logout and Expire are serialized.
type SessionStore struct {
	store  ports.KeyValueStore
	auth   ports.Authenticator
	logger *zap.Logger

	mutate sync.Mutex

	mu          sync.RWMutex
	session     domain.Session
	subscribers map[int]func(bool)
	nextSubID   int
}

func NewSessionStore(store ports.KeyValueStore, auth ports.Authenticator, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionStore{
		store:       store,
		auth:        auth,
		logger:      logger.Named("session"),
		subscribers: map[int]func(bool){},
	}
}

// Restore adopts the durable session when both a token and a valid identity
// are stored. A corrupt identity entry is deleted and the store stays logged
// out. Restore never fails.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	token, tokenOK := s.read(ctx, domain.TokenKey)
	rawIdentity, identityOK := s.read(ctx, domain.IdentityKey)
	refresh, _ := s.read(ctx, domain.RefreshTokenKey)

	if !identityOK {
		return
	}

	identity, err := domain.DecodeIdentity(rawIdentity)
	if err != nil {
		s.logger.Warn("discarding corrupt stored identity", zap.Error(err))
		if deleteErr := s.store.Delete(ctx, domain.IdentityKey); deleteErr != nil {
			s.logger.Warn("delete corrupt identity", zap.Error(deleteErr))
		}
		return
	}

	if !tokenOK || strings.TrimSpace(token) == "" {
		return
	}

	s.swap(domain.Session{Token: token, RefreshToken: refresh, Identity: identity})
	s.logger.Debug("session restored", zap.String("username", identity.Username))
}

func (s *SessionStore) read(ctx context.Context, key string) (string, bool) {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn("read session entry", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// Login authenticates and persists the new session. On failure the previous
// session stays in place, in memory and on disk.
func (s *SessionStore) Login(ctx context.Context, username string, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errors.New("username and password are required")
	}

	s.mutate.Lock()
	defer s.mutate.Unlock()

	grant, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	session, err := grant.Session()
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := s.persist(ctx, session); err != nil {
		return err
	}

	s.swap(session)
	s.logger.Info("logged in", zap.String("username", session.Identity.Username), zap.String("role", string(session.Identity.Role)))
	return nil
}

func (s *SessionStore) persist(ctx context.Context, session domain.Session) error {
	encoded, err := domain.EncodeIdentity(session.Identity)
	if err != nil {
		return err
	}

	values := map[string]string{
		domain.TokenKey:        session.Token,
		domain.RefreshTokenKey: session.RefreshToken,
		domain.IdentityKey:     encoded,
	}

	previous := s.snapshotDurable(ctx)
	written := make([]string, 0, len(sessionKeys))
	for _, key := range sessionKeys {
		if err := s.store.Put(ctx, key, values[key]); err != nil {
			if rollbackErr := s.rollback(context.WithoutCancel(ctx), written, previous); rollbackErr != nil {
				return fmt.Errorf("store session and rollback: %w", errors.Join(err, rollbackErr))
			}
			return fmt.Errorf("store session: %w", err)
		}
		written = append(written, key)
	}

	return nil
}

func (s *SessionStore) snapshotDurable(ctx context.Context) map[string]string {
	previous := make(map[string]string, len(sessionKeys))
	for _, key := range sessionKeys {
		if value, ok := s.read(ctx, key); ok {
			previous[key] = value
		}
	}
	return previous
}

func (s *SessionStore) rollback(ctx context.Context, written []string, previous map[string]string) error {
	var rollbackErr error
	for _, key := range written {
		value, existed := previous[key]
		var err error
		if existed {
			err = s.store.Put(ctx, key, value)
		} else {
			err = s.store.Delete(ctx, key)
		}
		if err != nil {
			rollbackErr = errors.Join(rollbackErr, fmt.Errorf("restore %s: %w", key, err))
		}
	}
	return rollbackErr
}

// Logout drops the session locally. The backend keeps no server-side state
// for it, so there is nothing to call.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	s.clear(ctx)
	s.logger.Info("logged out")
}

// Expire tears the session down after the backend rejected token. It only
// acts when token is still the current one and reports whether it did. An
// anonymous rejection therefore never ends a session opened since.
func (s *SessionStore) Expire(ctx context.Context, token string) bool {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	current := s.Token()
	if token != current {
		return false
	}
	if current != "" {
		s.logger.Info("session expired")
	}

	s.clear(ctx)
	return true
}

func (s *SessionStore) clear(ctx context.Context) {
	for _, key := range sessionKeys {
		if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("delete session entry", zap.String("key", key), zap.Error(err))
		}
	}
	s.swap(domain.Session{})
}

func (s *SessionStore) swap(session domain.Session) {
	s.mu.Lock()
	changed := s.session.Authenticated() != session.Authenticated()
	s.session = session
	subscribers := make([]func(bool), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subscribers {
		fn(session.Authenticated())
	}
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionStore) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Identity, s.session.Authenticated()
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn for authenticated/unauthenticated transitions.
func (s *SessionStore) Subscribe(fn func(authenticated bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.subscribers)
}
