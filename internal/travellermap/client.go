package travellermap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"astrogen/internal/logging"
	"astrogen/internal/world"
)

// DefaultBaseURL is the public TravellerMap endpoint.
const DefaultBaseURL = "https://travellermap.com"

const maxBodyBytes = 8 << 20

// ErrNotFound reports a 404 from TravellerMap, typically an unknown sector name.
var ErrNotFound = errors.New("travellermap: not found")

// StatusError describes a non-200 response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("travellermap %s returned %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client provides access to the TravellerMap API.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit limits outbound requests to rps with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.rateLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "travellermap")
	}
}

// New creates a TravellerMap client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if parsed, err := url.Parse(baseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("travellermap base url %q is not absolute", baseURL)
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  "astrogen",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// metadataResponse is the subset of /api/metadata the builder needs.
type metadataResponse struct {
	Subsectors []subsectorEntry `json:"Subsectors"`
}

type subsectorEntry struct {
	Name  string        `json:"Name"`
	Index subsectorSlot `json:"Index"`
}

// subsectorSlot accepts either a letter ("A") or a number (0) index.
type subsectorSlot int

func (s *subsectorSlot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	index, err := world.ParseSubsectorIndex(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	*s = subsectorSlot(index)
	return nil
}

// Subsectors returns the subsector descriptors of sector in the order
// TravellerMap lists them.
func (c *Client) Subsectors(ctx context.Context, sector string) ([]world.SubsectorMetadata, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, errors.New("sector must not be empty")
	}
	params := url.Values{}
	params.Set("sector", sector)
	body, err := c.get(ctx, "/api/metadata", params)
	if err != nil {
		return nil, err
	}

	var payload metadataResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode travellermap metadata: %w", err)
	}
	out := make([]world.SubsectorMetadata, 0, len(payload.Subsectors))
	for _, entry := range payload.Subsectors {
		out = append(out, world.SubsectorMetadata{Name: entry.Name, Index: int(entry.Index)})
	}
	return out, nil
}

// Subsector returns the raw sec-format listing for one subsector.
func (c *Client) Subsector(ctx context.Context, sector string, index int) (string, error) {
	letter := world.SubsectorLetter(index)
	if letter == "?" {
		return "", fmt.Errorf("subsector index %d out of range", index)
	}
	path := "/data/" + url.PathEscape(strings.TrimSpace(sector)) + "/" + letter + "/sec"
	params := url.Values{}
	params.Set("header", "0")
	params.Set("metadata", "0")
	body, err := c.get(ctx, path, params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type universeResponse struct {
	Sectors []struct {
		Names []struct {
			Text string `json:"Text"`
		} `json:"Names"`
	} `json:"Sectors"`
}

// SectorNames lists the primary names of every sector with world data.
func (c *Client) SectorNames(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("requireData", "1")
	body, err := c.get(ctx, "/api/universe", params)
	if err != nil {
		return nil, err
	}
	var payload universeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode travellermap universe: %w", err)
	}
	names := make([]string, 0, len(payload.Sectors))
	for _, sector := range payload.Sectors {
		if len(sector.Names) == 0 {
			continue
		}
		if name := strings.TrimSpace(sector.Names[0].Text); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("travellermap request",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read travellermap response: %w", err)
	}
	return body, nil
}

// String identifies the client in logs.
func (c *Client) String() string {
	return "travellermap(" + c.baseURL + ")"
}
