package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Durable storage keys shared with the web dashboard.
const (
	TokenKey        = "soiltwin_token"
	RefreshTokenKey = "soiltwin_refresh_token"
	IdentityKey     = "soiltwin_user"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFarmer:
		return true
	default:
		return false
	}
}

type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (i Identity) Validate() error {
	if strings.TrimSpace(i.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidIdentity)
	}
	if !i.Role.Valid() {
		return fmt.Errorf("%w: unsupported role %q", ErrInvalidIdentity, i.Role)
	}

	return nil
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// EncodeIdentity renders the identity in the {"username","role"} form kept under IdentityKey.
func EncodeIdentity(identity Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("encode identity: %w", err)
	}
	return string(payload), nil
}

func DecodeIdentity(raw string) (Identity, error) {
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if err := identity.Validate(); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// Session is the authenticated state of the running client. Token and Identity
// are always set and cleared together.
type Session struct {
	Token        string
	RefreshToken string
	Identity     Identity
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// LoginGrant is what the backend hands out on a successful /login.
type LoginGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

func (g LoginGrant) Session() (Session, error) {
	if strings.TrimSpace(g.AccessToken) == "" {
		return Session{}, errors.New("login response missing access_token")
	}

	identity := Identity{Username: g.Username, Role: g.Role}
	if err := identity.Validate(); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        g.AccessToken,
		RefreshToken: g.RefreshToken,
		Identity:     identity,
	}, nil
}
