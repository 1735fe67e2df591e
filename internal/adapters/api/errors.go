package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

const genericFailureDetail = "request failed"

var (
	// ErrUnauthorized is returned after the backend rejected the session token.
	// The unauthorized handler has already run by the time a caller sees it.
	ErrUnauthorized = domain.ErrUnauthorized
	ErrServer       = errors.New("server error")
	ErrTransport    = errors.New("transport error")
)

// ServerError is a non-success response other than 401.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Detail, e.StatusCode)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// TransportError means no response could be obtained at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

func newServerError(statusCode int, body []byte) *ServerError {
	return &ServerError{StatusCode: statusCode, Detail: decodeDetail(body)}
}

// decodeDetail extracts the backend's "detail" field. Validation failures
// carry a list of issues instead of a string.
func decodeDetail(body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return genericFailureDetail
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		if strings.TrimSpace(detail) == "" {
			return genericFailureDetail
		}
		return detail
	}

	var issues []validationIssue
	if err := json.Unmarshal(payload.Detail, &issues); err == nil {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				messages = append(messages, issue.Msg)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	return genericFailureDetail
}
