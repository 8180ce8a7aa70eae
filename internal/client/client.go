package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/woql"
)

// DefaultTimeout bounds a request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 4096

// queryField is the request body field holding the serialized document.
const queryField = "terminus:query"

// Options configures a Client.
type Options struct {
	// Server is the server root, e.g. "https://host:6363".
	Server string

	// Database names the database under Server.
	Database string

	// Key is the API key sent as the Basic auth password.
	Key string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Its Timeout is left alone.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics defaults to collectors on prometheus.DefaultRegisterer.
	Metrics *Metrics

	// RequestID defaults to UUIDv7Generator.
	RequestID IDGenerator
}

// Client submits documents to one database. It is safe for concurrent use.
type Client struct {
	baseURL   string
	auth      string
	http      *http.Client
	logger    *slog.Logger
	metrics   *Metrics
	requestID IDGenerator
}

var _ woql.Executor = (*Client)(nil)

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	server := strings.TrimSuffix(strings.TrimSpace(opts.Server), "/")
	if server == "" {
		return nil, errors.New("client: server is required")
	}
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		return nil, fmt.Errorf("client: server %q must be an http or https URL", opts.Server)
	}
	database := strings.Trim(opts.Database, "/")
	if database == "" {
		return nil, errors.New("client: database is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = sharedMetrics()
	}
	requestID := opts.RequestID
	if requestID == nil {
		requestID = UUIDv7Generator{}
	}

	return &Client{
		baseURL:   server + "/" + database,
		auth:      "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+opts.Key)),
		http:      httpClient,
		logger:    logger,
		metrics:   metrics,
		requestID: requestID,
	}, nil
}

// BaseURL returns server + "/" + database.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit posts doc as canonical JSON to BaseURL()/woql and decodes the
// response. Non-200 responses become *APIError.
func (c *Client) Submit(ctx context.Context, doc ir.IRObject) (*woql.Result, error) {
	canonical, err := ir.MarshalCanonical(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize query: %w", err)
	}
	body, err := json.Marshal(map[string]string{queryField: string(canonical)})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/woql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	id := c.requestID.Generate()
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", id)

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.requests.WithLabelValues("error").Inc()
		c.logger.Warn("woql request failed", "request_id", id, "error", err)
		return nil, err
	}
	defer resp.Body.Close()
	c.metrics.requests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("woql request rejected",
			"request_id", id,
			"status", resp.StatusCode,
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var result woql.Result
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.logger.Debug("woql request complete",
		"request_id", id,
		"bindings", len(result.Bindings),
		"duration", time.Since(start),
	)
	return &result, nil
}
