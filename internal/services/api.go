// API service for making raw HTTP requests to the cinex server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/cinex/internal/shared"
)

const defaultServerURL = "http://127.0.0.1:5000"

// APIService makes raw HTTP requests to the cinex server, attaching the session cookie when one is set.
type APIService struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	session string
}

// NewAPIService creates a new API service instance for the cinex server.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultServerURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// BaseURL returns the server URL requests are sent to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// SetSession sets the session token sent with every request. An empty token sends none.
func (a *APIService) SetSession(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = token
}

// Session returns the current session token.
func (a *APIService) Session() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Cookies    []*http.Cookie
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Message returns the "message" field of a JSON error body, or the raw body.
func (r *APIResponse) Message() string {
	if m, ok := r.JSONData.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok {
			return msg
		}
	}
	return string(bytes.TrimSpace(r.Body))
}

// Cookie returns the named cookie set by the response, or nil.
func (r *APIResponse) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// PostJSON marshals v and posts it to path.
func (a *APIService) PostJSON(ctx context.Context, path string, v any) (*APIResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return a.Post(ctx, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := a.Session(); token != "" {
		req.AddCookie(&http.Cookie{Name: shared.SessionCookie, Value: token})
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Cookies:    resp.Cookies(),
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into result, mapping other statuses via [statusError].
func (a *APIService) getJSON(ctx context.Context, path string, result any) error {
	resp, err := a.Get(ctx, path)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp.StatusCode, resp.Message())
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrNetwork, err)
	}
	return nil
}
