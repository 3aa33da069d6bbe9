package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/dkhodakov/habitsync/internal/common"
)

// HTTPClient implements Client against the habitsync HTTP API.
//
// No retries and no additional timeouts are applied here: cancellation and
// deadlines come from the caller's context, and any transport failure is
// surfaced to the engine like any other mutation failure.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, http: &http.Client{}}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do issues a request and decodes a 2xx JSON body into out (unless out is
// nil). Non-2xx statuses are mapped onto the shared error taxonomy.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return common.ErrUnauthorized
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: rejected by server", common.ErrValidation)
	default:
		return fmt.Errorf("server returned status %d", code)
	}
}

func (c *HTTPClient) List(ctx context.Context) (*models.HabitData, error) {
	var data models.HabitData
	if err := c.do(ctx, http.MethodGet, "/api/habits", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *HTTPClient) CreateHabit(ctx context.Context, name string) (*models.Habit, error) {
	var habit models.Habit
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/habits", body, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *HTTPClient) UpdateHabit(ctx context.Context, id string, upd models.HabitUpdate) (*models.Habit, error) {
	var resp struct {
		Action string       `json:"action"`
		Habit  models.Habit `json:"habit"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/habits/"+url.PathEscape(id), upd, &resp); err != nil {
		return nil, err
	}
	return &resp.Habit, nil
}

func (c *HTTPClient) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/habits/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ToggleCheckIn(ctx context.Context, id string, date string) (*models.ToggleResult, error) {
	var result models.ToggleResult
	body := map[string]string{"date": date}
	if err := c.do(ctx, http.MethodPatch, "/api/habits/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListRecent(ctx context.Context, limit int) ([]models.FeedEvent, error) {
	var events []models.FeedEvent
	path := "/api/feed?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) GetEventDetail(ctx context.Context, id string) (*models.FeedEvent, error) {
	var event models.FeedEvent
	if err := c.do(ctx, http.MethodGet, "/api/feed/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

var _ Client = (*HTTPClient)(nil)
