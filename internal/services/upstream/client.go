// Package upstream is the HTTP client of the content API that hosts feed
// records, feed documents, episode downloads and user accounts.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/killallgit/podhub/internal/metrics"
	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/pkg/config"
)

// Client talks to the content API
type Client struct {
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	client       *http.Client
}

// NewClient creates a client from the upstream configuration
func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = MaxBodyBytes
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API root all paths are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPublicFeeds fetches the records of all public feeds
func (c *Client) ListPublicFeeds(ctx context.Context) ([]feeds.FeedSummary, error) {
	body, err := c.get(ctx, EndpointPublicFeeds, "/feeds/public", "")
	if err != nil {
		return nil, err
	}
	return decodeSummaries(body)
}

// ListPrivateFeeds fetches the feed records visible to the holder of jwt
func (c *Client) ListPrivateFeeds(ctx context.Context, jwt string) ([]feeds.FeedSummary, error) {
	if jwt == "" {
		return nil, APIError{Endpoint: EndpointPrivateFeeds, StatusCode: http.StatusUnauthorized, Message: "missing jwt"}
	}
	body, err := c.get(ctx, EndpointPrivateFeeds, "/feeds/list", jwt)
	if err != nil {
		return nil, err
	}
	return decodeSummaries(body)
}

// FetchFeedXML fetches the RSS document of a feed. Every failure is
// returned as a feeds.FeedUnavailableError.
func (c *Client) FetchFeedXML(ctx context.Context, slug, token string) (string, error) {
	path := "/feeds/slug/" + url.PathEscape(slug)
	if token != "" {
		path += "/token/" + url.PathEscape(token)
	}

	body, err := c.get(ctx, EndpointFeedDocument, path, "")
	if err != nil {
		fe := feeds.FeedUnavailableError{Slug: slug, Err: err}
		var apiErr APIError
		if errors.As(err, &apiErr) {
			fe.StatusCode = apiErr.StatusCode
		}
		fe.Timeout = isTimeout(err)
		return "", fe
	}
	return string(body), nil
}

// Login exchanges credentials for a JWT and the user's feed token
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	payload, err := json.Marshal(LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/local", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, EndpointLogin)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewAPIError(EndpointLogin, resp.StatusCode, loginFailureMessage(body))
	}

	var login LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if login.JWT == "" {
		return nil, NewAPIError(EndpointLogin, resp.StatusCode, "Login failed")
	}
	return &login, nil
}

// DownloadURL builds the download link of an episode. The token, when
// given, is passed as a query parameter.
func (c *Client) DownloadURL(guid, token string) string {
	u := c.baseURL + "/episodes/" + url.PathEscape(guid) + "/download"
	if token != "" {
		u += "?" + url.Values{"token": []string{token}}.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, endpoint, path, jwt string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, NewAPIError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, endpoint, c.maxBodyBytes)
	}
	return body, nil
}

func (c *Client) do(req *http.Request, endpoint string) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		log.WithFields(log.Fields{
			"endpoint": endpoint,
			"timeout":  isTimeout(err),
		}).WithError(err).Warn("Content API request failed")
		return nil, fmt.Errorf("executing request: %w", err)
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	log.WithFields(log.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Content API request")
	return resp, nil
}

// decodeSummaries accepts a bare JSON array or a {"data": [...]} envelope
func decodeSummaries(body []byte) ([]feeds.FeedSummary, error) {
	trimmed := bytes.TrimSpace(body)

	var list []feeds.FeedSummary
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []feeds.FeedSummary `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decoding feed list: %w", err)
		}
		list = envelope.Data
	} else if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decoding feed list: %w", err)
	}

	if list == nil {
		list = []feeds.FeedSummary{}
	}
	return list, nil
}

func loginFailureMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return "Login failed"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
