package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// CredentialSource supplies and persists bearer credentials. The
// session layer is the only writer of credential keys; the client only
// reads them, except for the new access credential minted by a refresh.
type CredentialSource interface {
	// AccessToken returns the stored access credential, or "" if absent.
	AccessToken() string

	// RefreshToken returns the stored refresh credential, or "" if absent.
	RefreshToken() string

	// StoreAccessToken persists a freshly minted access credential.
	StoreAccessToken(token string) error

	// Clear removes all persisted session state.
	Clear() error
}

// Client talks to the exam-preparation platform API. It attaches the
// bearer access credential to every request and transparently refreshes
// it once when a request comes back 401.
type Client struct {
	httpClient *http.Client
	config     Config
	creds      CredentialSource
	logger     *slog.Logger
	onExpired  func()
}

// NewClient creates an API client with the given configuration.
func NewClient(config Config, creds CredentialSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		creds:  creds,
		logger: logger.With("component", "api-client"),
	}
}

// OnSessionExpired registers a callback invoked after an unrecoverable
// credential failure has cleared the persisted session. The view layer
// uses it to navigate back to the login entry point.
func (c *Client) OnSessionExpired(fn func()) {
	c.onExpired = fn
}

// do executes a single HTTP request against the API. retryEligible
// marks whether this request may still trigger a credential refresh:
// true for originating requests, false for the one retry after a
// refresh. This guarantees at most one refresh attempt per request.
func (c *Client) do(ctx context.Context, method, path string, body any, retryEligible bool) ([]byte, error) {
	reqID := uuid.NewString()
	logger := c.logger.With("method", method, "path", path, "request_id", reqID)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", reqID)
	if token := c.creds.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	logger.Debug("received response", "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		if retryEligible {
			return c.refreshAndRetry(ctx, method, path, body, newAPIError(resp.StatusCode, respBody))
		}
		// The retried request was rejected with the refreshed
		// credential. Tear the session down and propagate.
		logger.Warn("request unauthorized after refresh, clearing session")
		c.teardown()
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, newAPIError(resp.StatusCode, respBody))
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// refreshAndRetry mints a new access credential with the stored refresh
// credential, persists it, and re-issues the original request once.
// origErr is the 401 from the originating request; it is propagated
// unchanged when no refresh credential exists.
func (c *Client) refreshAndRetry(ctx context.Context, method, path string, body any, origErr error) ([]byte, error) {
	refresh := c.creds.RefreshToken()
	if refresh == "" {
		return nil, origErr
	}

	token, err := c.refreshAccessToken(ctx, refresh)
	if err != nil {
		c.logger.Warn("credential refresh failed, clearing session", "error", err)
		c.teardown()
		return nil, fmt.Errorf("%w: refresh credentials: %w", ErrSessionExpired, err)
	}

	if err := c.creds.StoreAccessToken(token); err != nil {
		return nil, fmt.Errorf("persist access credential: %w", err)
	}

	c.logger.Debug("access credential refreshed, retrying request", "method", method, "path", path)
	return c.do(ctx, method, path, body, false)
}

// refreshAccessToken calls the refresh endpoint with the refresh
// credential as bearer. It bypasses do to avoid recursing into the
// refresh logic.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/auth/refresh", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST /auth/refresh: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", newAPIError(resp.StatusCode, respBody)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", fmt.Errorf("parse refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access_token")
	}

	return payload.AccessToken, nil
}

// teardown clears persisted session state and signals the view layer.
func (c *Client) teardown() {
	if err := c.creds.Clear(); err != nil {
		c.logger.Error("clear session state", "error", err)
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}

// get performs a GET request and unmarshals the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, body, true)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// put performs a PUT request with an optional JSON body.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPut, path, body, true)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, true)
	return err
}

// decode unmarshals a response body into out, skipping nil targets.
func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
