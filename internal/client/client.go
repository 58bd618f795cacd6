// Package client talks to the remote inference/fine-tuning service over
// JSON/HTTP. Failures come back as *APIError; callers decide what is
// surfaced to the viewer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"parley/internal/types"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Viewer resolves the current account. An unauthenticated token is not
// an error: shared sessions are viewable logged out, so a 401 yields the
// zero viewer.
func (c *Client) Viewer(ctx context.Context) (types.Viewer, error) {
	var viewer types.Viewer
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/user", nil, &viewer); err != nil {
		if apiErr := AsAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized {
			return types.Viewer{}, nil
		}
		return types.Viewer{}, err
	}
	return viewer, nil
}

func (c *Client) LoadSession(ctx context.Context, id string) (*types.Session, error) {
	var session types.Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(id), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]*types.Session, error) {
	var resp SessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// SubmitInput sends the next prompt and returns the updated session.
func (c *Client) SubmitInput(ctx context.Context, id, input string) (*types.Session, error) {
	form := url.Values{}
	form.Set("input", input)
	var session types.Session
	if err := c.doForm(ctx, http.MethodPut, "/api/v1/sessions/"+url.PathEscape(id), form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Restart wipes the session's interaction history server-side and
// returns the fresh session.
func (c *Client) Restart(ctx context.Context, id string) (*types.Session, error) {
	var session types.Session
	path := "/api/v1/sessions/" + url.PathEscape(id) + "/restart"
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CloneInteraction copies a session from a specific interaction into the
// caller's account and returns the brand-new session. The source session
// is never mutated.
func (c *Client) CloneInteraction(ctx context.Context, id, interactionID string, mode types.CloneMode) (*types.Session, error) {
	if interactionID == "" {
		return nil, errors.New("interaction id is required")
	}
	if mode == "" {
		mode = types.CloneModeAll
	}
	var session types.Session
	path := fmt.Sprintf("/api/v1/sessions/%s/finetune/clone/%s/%s",
		url.PathEscape(id), url.PathEscape(interactionID), url.PathEscape(string(mode)))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdateConfig(ctx context.Context, id string, config types.SessionConfig) (*types.Session, error) {
	var session types.Session
	path := "/api/v1/sessions/" + url.PathEscape(id) + "/config"
	if err := c.doJSON(ctx, http.MethodPut, path, config, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	reader := strings.NewReader(form.Encode())
	return c.do(ctx, method, path, reader, "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
