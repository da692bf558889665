// Package httpclient is the single HTTP client shared by every API module of
// an app. It attaches the stored bearer token to each request and turns a
// 401 response into a cleared session and a redirect to the login route.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ianct-client/infrastructure/observability"
	"ianct-client/infrastructure/storage"
	apperrors "ianct-client/pkg/errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RequestIDHeader is sent with every request.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// Redirector is the navigation side of the app, bound after construction
// because the router itself depends on stores that depend on this client.
type Redirector interface {
	CurrentPath() string
	HardRedirect(ctx context.Context, path string) error
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// TokenKey is the storage key holding this app's bearer token.
	TokenKey string
	// LoginPath is where a 401 sends the user.
	LoginPath string
}

// Client performs JSON requests against the platform API.
type Client struct {
	baseURL   string
	userAgent string
	tokenKey  string
	loginPath string

	http    *http.Client
	tokens  storage.Store
	logger  *zap.Logger
	metrics *observability.Collector
	tracer  trace.Tracer

	mu         sync.RWMutex
	redirector Redirector
}

// New creates a client. metrics and tracing may be nil.
func New(opts Options, tokens storage.Store, logger *zap.Logger, metrics *observability.Collector, tracing *observability.TracerProvider) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tracing == nil {
		tracing = observability.NewNoopTracerProvider()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		tokenKey:  opts.TokenKey,
		loginPath: opts.LoginPath,
		http:      &http.Client{Timeout: opts.Timeout},
		tokens:    tokens,
		logger:    logger.Named("httpclient"),
		metrics:   metrics,
		tracer:    tracing.Tracer(),
	}
}

// BindRedirector sets the navigation target used on 401 responses.
func (c *Client) BindRedirector(r Redirector) {
	c.mu.Lock()
	c.redirector = r
	c.mu.Unlock()
}

// TokenKey returns the storage key of this client's bearer token.
func (c *Client) TokenKey() string {
	return c.tokenKey
}

// LoginPath returns the route a 401 redirects to.
func (c *Client) LoginPath() string {
	return c.loginPath
}

// Params builds a query from key/value pairs, skipping empty values.
func Params(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete sends a DELETE. body is optional; the project member endpoint
// reads its payload from the body of a DELETE.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

// Blob is a downloaded binary payload.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// GetBlob downloads path without decoding it.
func (c *Client) GetBlob(ctx context.Context, path string) (*Blob, error) {
	resp, body, err := c.send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	blob := &Blob{Data: body, ContentType: resp.Header.Get("Content-Type")}
	if _, params, perr := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); perr == nil {
		blob.Filename = params["filename"]
	}
	return blob, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, respBody, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("decode %s %s response", method, path)).WithCause(err)
	}
	return nil
}

// send performs the request and returns the full body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("encode %s %s body", method, path)).WithCause(err)
		}
		reader = bytes.NewReader(payload)
	}

	route := observability.RouteLabel(path)
	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("build %s %s request", method, path)).WithCause(err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(method, path, 0, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("requestID", requestID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, nil, transportError(method, path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.metrics.ObserveRequest(method, path, resp.StatusCode, duration)
	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("requestID", requestID),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		appErr := apperrors.FromResponse(method, path, resp.StatusCode, errBody)
		span.SetStatus(codes.Error, appErr.Message)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(ctx)
		}
		return resp, nil, appErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return resp, nil, apperrors.NewNetworkError(fmt.Sprintf("read %s %s response", method, path), err)
	}
	return resp, respBody, nil
}

func (c *Client) token() string {
	if c.tokens == nil || c.tokenKey == "" {
		return ""
	}
	token, err := c.tokens.Get(c.tokenKey)
	if err != nil {
		c.logger.Warn("Failed to read stored token", zap.String("key", c.tokenKey), zap.Error(err))
		return ""
	}
	return token
}

// handleUnauthorized clears the stored token and sends the user to the
// login route unless they are already there.
func (c *Client) handleUnauthorized(ctx context.Context) {
	if c.tokens != nil && c.tokenKey != "" {
		if err := c.tokens.Delete(c.tokenKey); err != nil {
			c.logger.Warn("Failed to clear token after 401", zap.Error(err))
		}
	}

	c.mu.RLock()
	r := c.redirector
	c.mu.RUnlock()
	if r == nil || r.CurrentPath() == c.loginPath {
		return
	}

	c.logger.Info("Session rejected by server, redirecting to login",
		zap.String("from", r.CurrentPath()),
	)
	// The redirect must not be cancelled together with the rejected request.
	if err := r.HardRedirect(context.WithoutCancel(ctx), c.loginPath); err != nil {
		c.logger.Warn("Redirect to login failed", zap.Error(err))
	}
}

func transportError(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewTimeoutError(method+" "+path, err)
	}
	return apperrors.NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
}
