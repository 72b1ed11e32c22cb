// Package fabric is the HTTP adapter for the Microsoft Fabric REST API
// and the Azure Resource Manager endpoints Fabric capacities live on.
// Every operation obtains its bearer token through the session layer's
// TokenBroker; the adapter never caches or refreshes tokens itself.
package fabric

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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driving"
)

const (
	// DefaultBaseURL is the Fabric REST API root.
	DefaultBaseURL = "https://api.fabric.microsoft.com/v1"

	// DefaultManagementURL is the Azure Resource Manager root used for
	// capacity operations.
	DefaultManagementURL = "https://management.azure.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps net/http for one API audience. Resource operations are
// spread across the files of this package (workspaces.go, capacity.go,
// ...); they all funnel through send, which injects the bearer token,
// throttles, maps error responses, and performs the single forced
// refresh-and-retry after a 401.
type Client struct {
	baseURL  string
	audience domain.Audience
	broker   driving.TokenBroker
	hc       *http.Client
	limiter  *RateLimiter
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// NewClient creates a client for the Fabric REST API.
func NewClient(broker driving.TokenBroker, opts ...Option) *Client {
	return newClient(broker, DefaultBaseURL, domain.AudienceFabric, opts)
}

// NewManagementClient creates a client for the Azure Resource Manager
// API, which serves the capacity suspend/resume operations.
func NewManagementClient(broker driving.TokenBroker, opts ...Option) *Client {
	return newClient(broker, DefaultManagementURL, domain.AudienceManagement, opts)
}

func newClient(broker driving.TokenBroker, baseURL string, audience domain.Audience, opts []Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		audience: audience,
		broker:   broker,
		hc:       &http.Client{Timeout: DefaultTimeout},
		limiter:  NewRateLimiter(),
		log:      log.With().Str("component", "fabric-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	_, err := c.send(ctx, http.MethodGet, path, nil, "", out)
	return err
}

// postJSON issues a POST with a JSON payload (nil for an empty body)
// and decodes the response into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) (http.Header, error) {
	var newBody func() io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		newBody = func() io.Reader { return bytes.NewReader(data) }
		contentType = "application/json"
	}
	return c.send(ctx, http.MethodPost, path, newBody, contentType, out)
}

// send performs one API call. newBody is a factory so the request can
// be replayed for the single 401 retry; nil means an empty body.
func (c *Client) send(
	ctx context.Context, method, path string, newBody func() io.Reader, contentType string, out any,
) (http.Header, error) {
	requestURL := c.baseURL + path

	resp, err := c.attempt(ctx, method, requestURL, newBody, contentType)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Likely a stale token. Force exactly one refresh and retry;
		// other 4xx/5xx are never retried.
		drain(resp)
		c.log.Debug().Str("url", requestURL).Msg("401 response, forcing token refresh")
		c.broker.Invalidate(c.audience)

		resp, err = c.attempt(ctx, method, requestURL, newBody, contentType)
		if err != nil {
			return nil, err
		}
	}
	defer drain(resp)

	if err := c.checkResponse(resp, requestURL); err != nil {
		return nil, err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// attempt performs a single HTTP round trip with a fresh bearer token.
func (c *Client) attempt(
	ctx context.Context, method, requestURL string, newBody func() io.Reader, contentType string,
) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.broker.BearerTokenFor(ctx, c.audience)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if newBody != nil {
		body = newBody()
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debug().
		Str("method", method).
		Str("url", requestURL).
		Str("token", maskToken(token)).
		Msg("API request")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, requestURL, err)
	}

	c.limiter.UpdateFromResponse(resp)
	c.log.Debug().Int("status", resp.StatusCode).Str("url", requestURL).Msg("API response")
	return resp, nil
}

// checkResponse maps non-2xx responses into the adapter error taxonomy.
func (c *Client) checkResponse(resp *http.Response, requestURL string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAt: c.limiter.RetryAt()}
	}

	message := readErrorMessage(resp.Body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        requestURL,
	}
}

// errorResponse is the error document both the Fabric API and ARM
// return for failed requests.
type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 16<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil {
		switch {
		case parsed.Error != nil && parsed.Error.Message != "":
			return fmt.Sprintf("%s: %s", parsed.Error.Code, parsed.Error.Message)
		case parsed.Message != "":
			if parsed.ErrorCode != "" {
				return fmt.Sprintf("%s: %s", parsed.ErrorCode, parsed.Message)
			}
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(data))
}

// idFromLocation extracts the trailing path segment of a Location
// header, which is how the Fabric API reports the ID of an
// asynchronously created resource.
func idFromLocation(header http.Header) (string, error) {
	location := header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("no Location header in response")
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse Location header: %w", err)
	}
	segments := strings.Split(strings.TrimRight(parsed.Path, "/"), "/")
	return segments[len(segments)-1], nil
}

// maskToken keeps a short prefix for log correlation without exposing
// the credential.
func maskToken(token string) string {
	if len(token) <= 10 {
		return "****"
	}
	return token[:10] + "..."
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
