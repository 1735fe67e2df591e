package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidRegistration = errors.New("invalid registration")

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

// Validate applies the same rules the backend enforces so that obvious
// mistakes never leave the terminal.
func (r Registration) Validate() error {
	username := strings.TrimSpace(r.Username)
	if len(username) < 3 || len(username) > 20 {
		return fmt.Errorf("%w: username must be between 3-20 characters", ErrInvalidRegistration)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrInvalidRegistration)
	}
	if strings.TrimSpace(r.Fullname) == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidRegistration)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRegistration)
	}
	if !strings.ContainsFunc(r.Password, unicode.IsDigit) {
		return fmt.Errorf("%w: password must contain at least one number", ErrInvalidRegistration)
	}

	return nil
}

type PasswordReset struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AccountReceipt is the acknowledgement of the account endpoints. Token is
// only filled by development backends answering /forgot-password.
type AccountReceipt struct {
	Message   string `json:"message"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn string `json:"expires_in,omitempty"`
}
