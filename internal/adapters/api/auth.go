package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
)

// AuthClient talks to the public account endpoints. It never sends a token,
// so a 401 here is an ordinary *ServerError.
type AuthClient struct {
	transport *Transport
}

var _ ports.Authenticator = (*AuthClient)(nil)

func NewAuthClient(transport *Transport) *AuthClient {
	return &AuthClient{transport: transport}
}

func (a *AuthClient) Login(ctx context.Context, username string, password string) (domain.LoginGrant, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var grant domain.LoginGrant
	if err := a.do(ctx, Request{Method: http.MethodPost, Path: "/login", Form: form}, &grant); err != nil {
		return domain.LoginGrant{}, fmt.Errorf("login: %w", err)
	}
	return grant, nil
}

func (a *AuthClient) Register(ctx context.Context, registration domain.Registration) (domain.AccountReceipt, error) {
	if err := registration.Validate(); err != nil {
		return domain.AccountReceipt{}, err
	}

	var receipt domain.AccountReceipt
	if err := a.do(ctx, Request{Method: http.MethodPost, Path: "/register", JSON: registration}, &receipt); err != nil {
		return domain.AccountReceipt{}, fmt.Errorf("register: %w", err)
	}
	return receipt, nil
}

func (a *AuthClient) ForgotPassword(ctx context.Context, email string) (domain.AccountReceipt, error) {
	var receipt domain.AccountReceipt
	req := Request{Method: http.MethodPost, Path: "/forgot-password", JSON: map[string]string{"email": email}}
	if err := a.do(ctx, req, &receipt); err != nil {
		return domain.AccountReceipt{}, fmt.Errorf("request password reset: %w", err)
	}
	return receipt, nil
}

func (a *AuthClient) ResetPassword(ctx context.Context, reset domain.PasswordReset) (domain.AccountReceipt, error) {
	var receipt domain.AccountReceipt
	if err := a.do(ctx, Request{Method: http.MethodPost, Path: "/reset-password", JSON: reset}, &receipt); err != nil {
		return domain.AccountReceipt{}, fmt.Errorf("reset password: %w", err)
	}
	return receipt, nil
}

func (a *AuthClient) do(ctx context.Context, req Request, out any) error {
	resp, err := a.transport.Send(ctx, req, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return newServerError(resp.StatusCode, resp.Body)
	}
	return decodeJSON(resp, out)
}
