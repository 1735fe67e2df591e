package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TokenSource yields the bearer token of the current session, or "".
type TokenSource interface {
	Token() string
}

// UnauthorizedFunc runs when the backend answers 401. token is the value that
// was sent with the rejected request.
type UnauthorizedFunc func(ctx context.Context, token string)

// Client performs authenticated calls on behalf of the current session.
type Client struct {
	transport      *Transport
	tokens         TokenSource
	onUnauthorized UnauthorizedFunc
}

func NewClient(transport *Transport, tokens TokenSource, onUnauthorized UnauthorizedFunc) *Client {
	return &Client{transport: transport, tokens: tokens, onUnauthorized: onUnauthorized}
}

// Do sends req with the session token attached. A 401 runs the unauthorized
// handler and yields ErrUnauthorized, other failures yield *ServerError or
// *TransportError.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}

	resp, err := c.transport.Send(ctx, req, token)
	if err != nil {
		return Response{}, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx, token)
		}
		return Response{}, ErrUnauthorized
	}
	if !resp.OK() {
		return Response{}, newServerError(resp.StatusCode, resp.Body)
	}

	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp Response, out any) error {
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
