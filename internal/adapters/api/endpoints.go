package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
	"github.com/soiltwin/soiltwin-cli/internal/ports"
)

var _ ports.SoilTwinAPI = (*Client)(nil)

func (c *Client) SoilState(ctx context.Context) (domain.SoilReading, error) {
	var reading domain.SoilReading
	if err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/soil-state"}, &reading); err != nil {
		return domain.SoilReading{}, fmt.Errorf("get soil state: %w", err)
	}
	return reading, nil
}

func (c *Client) Profile(ctx context.Context) (domain.ProfileEnvelope, error) {
	var envelope domain.ProfileEnvelope
	if err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/profile"}, &envelope); err != nil {
		return domain.ProfileEnvelope{}, fmt.Errorf("get profile: %w", err)
	}
	return envelope, nil
}

func (c *Client) SaveProfile(ctx context.Context, profile domain.Profile) error {
	if _, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/profile", JSON: profile}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (c *Client) TriggerEvent(ctx context.Context, event domain.EventRequest) (domain.EventAck, error) {
	var ack domain.EventAck
	req := Request{Method: http.MethodPost, Path: "/events", JSON: event.WithAmountData()}
	if err := c.doJSON(ctx, req, &ack); err != nil {
		return domain.EventAck{}, fmt.Errorf("trigger %s event: %w", event.Type, err)
	}
	return ack, nil
}

type askRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (c *Client) Ask(ctx context.Context, text string, language string) (domain.Answer, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Answer{}, errors.New("ask: question is empty")
	}

	var answer domain.Answer
	req := Request{Method: http.MethodPost, Path: "/ask", JSON: askRequest{Text: text, Language: language}}
	if err := c.doJSON(ctx, req, &answer); err != nil {
		return domain.Answer{}, fmt.Errorf("ask: %w", err)
	}
	return answer, nil
}

// OpenData proxies a data.gov.in resource and returns the raw document.
func (c *Client) OpenData(ctx context.Context, resourceID string) (json.RawMessage, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, errors.New("fetch open data: resource id is required")
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/external/ogd/" + url.PathEscape(resourceID)})
	if err != nil {
		return nil, fmt.Errorf("fetch open data %s: %w", resourceID, err)
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("fetch open data %s: response is not json", resourceID)
	}
	return json.RawMessage(resp.Body), nil
}

func (c *Client) Weather(ctx context.Context, location string) (domain.Weather, error) {
	if strings.TrimSpace(location) == "" {
		location = domain.DefaultWeatherLocation
	}

	var weather domain.Weather
	req := Request{Method: http.MethodGet, Path: "/external/weather", Query: url.Values{"location": {location}}}
	if err := c.doJSON(ctx, req, &weather); err != nil {
		return domain.Weather{}, fmt.Errorf("get weather for %s: %w", location, err)
	}
	return weather, nil
}

// History returns past events, most recent first. limit <= 0 keeps the
// backend default.
func (c *Client) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	req := Request{Method: http.MethodGet, Path: "/history"}
	if limit > 0 {
		req.Query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var entries []domain.HistoryEntry
	if err := c.doJSON(ctx, req, &entries); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return entries, nil
}

func (c *Client) UploadSoilReport(ctx context.Context, filename string, content io.Reader) (domain.UploadReceipt, error) {
	var receipt domain.UploadReceipt
	req := Request{
		Method: http.MethodPost,
		Path:   "/upload-soil-report",
		File:   &FilePart{Field: "file", Filename: filename, Content: content},
	}
	if err := c.doJSON(ctx, req, &receipt); err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("upload soil report: %w", err)
	}
	return receipt, nil
}
