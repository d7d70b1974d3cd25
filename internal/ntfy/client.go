package ntfy

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultServerURL is the public ntfy instance.
	DefaultServerURL = "https://ntfy.sh"
	// DefaultTimeout bounds a publish when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	defaultUserAgent = "ntfypub/0.1.0"
)

// Config holds the settings shared by every publish made through a Client.
type Config struct {
	// ServerURL is the ntfy base URL, e.g. https://ntfy.sh.
	ServerURL string
	// Token is an access token sent as a bearer credential.
	Token string
	// Username and Password enable basic auth; they exclude Token.
	Username string
	Password string
	// Timeout bounds each publish, including any rate limit wait.
	Timeout   time.Duration
	UserAgent string
}

// Client publishes messages. It is safe for concurrent use.
type Client struct {
	baseURL       string
	authorization string
	userAgent     string
	timeout       time.Duration
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Its Timeout should be
// zero or larger than Config.Timeout; the publish deadline is applied
// through the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit throttles publishes to limit per second with the given
// burst. Waiting counts against the publish timeout.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(limit, burst)
		}
	}
}

// New validates cfg and builds a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimSpace(cfg.ServerURL)
	if base == "" {
		base = DefaultServerURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must use http or https", base)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("server url %q has no host", base)
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}

	authorization, err := authorizationHeader(cfg)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:       strings.TrimRight(base, "/"),
		authorization: authorization,
		userAgent:     strings.TrimSpace(cfg.UserAgent),
		timeout:       cfg.Timeout,
		httpClient:    &http.Client{},
	}
	if client.timeout == 0 {
		client.timeout = DefaultTimeout
	}
	if client.userAgent == "" {
		client.userAgent = defaultUserAgent
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func authorizationHeader(cfg Config) (string, error) {
	token := strings.TrimSpace(cfg.Token)
	hasBasic := cfg.Username != "" || cfg.Password != ""
	switch {
	case token != "" && hasBasic:
		return "", errors.New("token and username/password are mutually exclusive")
	case token != "":
		return "Bearer " + token, nil
	case cfg.Username != "" && cfg.Password == "":
		return "", errors.New("username provided without password")
	case cfg.Username == "" && cfg.Password != "":
		return "", errors.New("password provided without username")
	case hasBasic:
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		return "Basic " + creds, nil
	}
	return "", nil
}

// ServerURL returns the normalized base URL.
func (c *Client) ServerURL() string {
	return c.baseURL
}

// Publish sends msg and waits for the server's acknowledgement. Every
// failure is an *Error; invalid messages fail before any network I/O.
func (c *Client) Publish(ctx context.Context, msg *Message) (*PublishResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, invalidRequest(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTimeout, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := c.newRequest(ctx, msg)
	if err != nil {
		return nil, invalidRequest(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return decodePublishResponse(resp.StatusCode, body)
}

// ScheduleAt publishes msg for delivery at the given time. msg is not modified.
func (c *Client) ScheduleAt(ctx context.Context, msg *Message, at time.Time) (*PublishResponse, error) {
	if msg == nil {
		return nil, invalidRequest(errors.New("message is nil"))
	}
	if at.IsZero() {
		return nil, invalidRequest(errors.New("schedule time must be set"))
	}
	scheduled := *msg
	scheduled.At = at
	return c.Publish(ctx, &scheduled)
}

// ScheduleIn publishes msg for delivery after delay.
func (c *Client) ScheduleIn(ctx context.Context, msg *Message, delay time.Duration) (*PublishResponse, error) {
	if delay <= 0 {
		return nil, invalidRequest(errors.New("delay must be positive"))
	}
	return c.ScheduleAt(ctx, msg, time.Now().Add(delay))
}

// Result is the outcome of an asynchronous publish.
type Result struct {
	Response *PublishResponse
	Err      error
}

// PublishAsync runs Publish in a goroutine. The returned channel receives
// exactly one Result and is then closed.
func (c *Client) PublishAsync(ctx context.Context, msg *Message) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		resp, err := c.Publish(ctx, msg)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

func (c *Client) newRequest(ctx context.Context, msg *Message) (*http.Request, error) {
	var req *http.Request
	if msg.uploadsFile() {
		file, err := os.Open(msg.Attachment.Path)
		if err != nil {
			return nil, fmt.Errorf("open attachment: %w", err)
		}
		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("stat attachment: %w", err)
		}
		if info.IsDir() {
			_ = file.Close()
			return nil, fmt.Errorf("attachment %q is a directory", msg.Attachment.Path)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+msg.Topic, file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.ContentLength = info.Size()
		encodeHeaders(msg, req.Header)
		if msg.Attachment.Filename == "" {
			req.Header.Set("Filename", encodeHeaderValue(filepath.Base(msg.Attachment.Path)))
		}
	} else {
		payload, err := encodeJSON(msg)
		if err != nil {
			return nil, fmt.Errorf("encode message: %w", err)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		applyFlagHeaders(msg, req.Header)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}
	return req, nil
}

func transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTimeout, Err: fmt.Errorf("%w: %w", ctxErr, err)}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetworkError, Err: err}
}
