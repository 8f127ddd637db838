package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"galleryctl/internal/client/config"
	"galleryctl/internal/client/credentials"
	"galleryctl/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const contentTypeJSON = "application/json"

// HTTPClient talks to the gallery REST API over net/http.
//
// Every request carries the stored access token as a bearer credential when
// one exists. A 401 on a not-yet-retried request triggers a single-flight
// token refresh followed by exactly one re-issue of the original request;
// a failed refresh clears the stored tokens (never the cached identity) and
// surfaces ErrAuthExpired instead of the original 401.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	creds          credentials.Repository
	refresh        singleflight.Group
	log            logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg *config.Config, creds credentials.Repository, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:        strings.TrimRight(cfg.ServerBaseURL, "/"),
		http:           &http.Client{},
		requestTimeout: cfg.RequestTimeout,
		uploadTimeout:  cfg.UploadTimeout,
		creds:          creds,
		log:            log.With("component", "api"),
	}
}

// call describes one dispatchable request. The retried flag is explicit
// per-call state: it guarantees at most one refresh-triggered retry per
// original request, so a second 401 propagates instead of looping.
type call struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	timeout     time.Duration
	retried     bool
}

// do dispatches cl and returns the raw response body of a 2xx reply.
// 401 handling follows the refresh protocol; every other failure maps to
// an *Error carrying the server's message.
func (c *HTTPClient) do(ctx context.Context, cl call) ([]byte, error) {
	body, status, err := c.send(ctx, cl)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !cl.retried {
		rt, err := c.creds.Get(ctx, credentials.KeyRefreshToken)
		if err != nil {
			return nil, err
		}
		if len(rt) == 0 {
			// Nothing to refresh with; propagate the original failure.
			return nil, newServerError(status, body)
		}

		if err := c.refreshTokens(ctx); err != nil {
			return nil, err
		}

		cl.retried = true
		body, status, err = c.send(ctx, cl)
		if err != nil {
			return nil, err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, newServerError(status, body)
	}
	return body, nil
}

// send performs one HTTP round trip: builds the request, injects the bearer
// token and a correlation id, and reads the full response body.
func (c *HTTPClient) send(ctx context.Context, cl call) ([]byte, int, error) {
	timeout := cl.timeout
	if timeout == 0 {
		timeout = c.requestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, 0, err
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	if err := c.applyAuth(ctx, req); err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, resp.StatusCode, nil
}

// applyAuth adds the Authorization header when an access token is stored.
// No token means the request goes out unauthenticated.
func (c *HTTPClient) applyAuth(ctx context.Context, req *http.Request) error {
	tok, err := c.creds.Get(ctx, credentials.KeyAccessToken)
	if err != nil {
		return err
	}
	if len(tok) > 0 {
		req.Header.Set("Authorization", "Bearer "+string(tok))
	}
	return nil
}

// refreshTokens exchanges the stored refresh token for new credentials.
// Concurrent callers share one in-flight exchange; each then re-issues its
// own original request.
func (c *HTTPClient) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refresh.Do(credentials.KeyRefreshToken, func() (any, error) {
		return nil, c.doRefresh(ctx)
	})
	return err
}

func (c *HTTPClient) doRefresh(ctx context.Context) error {
	rt, err := c.creds.Get(ctx, credentials.KeyRefreshToken)
	if err != nil {
		return err
	}
	if len(rt) == 0 {
		return fmt.Errorf("%w: refresh token missing", ErrAuthExpired)
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": string(rt)})
	if err != nil {
		return err
	}

	// retried is set so a 401 from the refresh endpoint itself cannot recurse.
	body, status, err := c.send(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/refresh",
		body:        payload,
		contentType: contentTypeJSON,
		retried:     true,
	})
	if err != nil {
		c.clearTokens(ctx)
		return fmt.Errorf("%w: %v", ErrAuthExpired, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.clearTokens(ctx)
		c.log.Warn(ctx, "token refresh rejected", "status", status)
		return fmt.Errorf("%w: %v", ErrAuthExpired, newServerError(status, body))
	}

	var tokens Tokens
	if err := decodeData(body, &tokens); err != nil {
		c.clearTokens(ctx)
		return fmt.Errorf("%w: %v", ErrAuthExpired, err)
	}
	if tokens.AccessToken == "" {
		c.clearTokens(ctx)
		return fmt.Errorf("%w: refresh response missing access token", ErrAuthExpired)
	}

	if err := c.creds.Set(ctx, credentials.KeyAccessToken, []byte(tokens.AccessToken)); err != nil {
		return err
	}
	if tokens.RefreshToken != "" {
		if err := c.creds.Set(ctx, credentials.KeyRefreshToken, []byte(tokens.RefreshToken)); err != nil {
			return err
		}
	}
	c.log.Debug(ctx, "tokens refreshed")
	return nil
}

// clearTokens removes both tokens after a failed refresh. The cached
// identity stays so the UI can keep "who was logged in" context until an
// explicit logout.
func (c *HTTPClient) clearTokens(ctx context.Context) {
	if err := c.creds.Delete(ctx, credentials.KeyAccessToken); err != nil {
		c.log.Error(ctx, "failed to clear access token", "error", err)
	}
	if err := c.creds.Delete(ctx, credentials.KeyRefreshToken); err != nil {
		c.log.Error(ctx, "failed to clear refresh token", "error", err)
	}
}

// envelope is the server's uniform JSON reply: {data, message?}.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// unmarshalLoose ignores empty bodies, which some endpoints return on success.
func unmarshalLoose(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeData unwraps the response envelope into out. Bodies without an
// envelope (payload at the top level) are tolerated, matching the server's
// older endpoints.
func decodeData(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	raw := []byte(env.Data)
	if len(raw) == 0 || string(raw) == "null" {
		raw = body
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
