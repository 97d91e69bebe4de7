// Package gateway is the single path through which every backend call passes. It attaches
// the session credentials, serializes bodies, classifies responses and enforces the
// session-expiry policy exactly once.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonathan/freelance-agent/internal/session"
	"github.com/jonathan/freelance-agent/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "freelance-agent/1.0"

// RequestIDHeader carries a per-call identifier the backend can log.
const RequestIDHeader = "X-Request-ID"

const (
	authRequiredMessage = "Authentication required"
	fallbackMessage     = "Request failed"
	tracerName          = "github.com/jonathan/freelance-agent/internal/gateway"
)

// Options configures the gateway.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// HTTPClient is copied; its Jar is replaced by the session cookie jar when unset.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *Metrics
	Tracer     trace.Tracer
}

// DefaultOptions returns sensible defaults for the gateway.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Gateway performs all network I/O against the backend.
type Gateway struct {
	baseURL   string
	client    *http.Client
	store     *session.Store
	userAgent string
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// New creates a Gateway for the backend rooted at baseURL (for example
// "http://localhost:5000/api"). The session store is read on every call and cleared when
// the backend answers 401.
func New(baseURL string, store *session.Store, opts *Options) (*Gateway, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	var client http.Client
	if opts.HTTPClient != nil {
		client = *opts.HTTPClient
	}
	if client.Jar == nil {
		client.Jar = store.CookieJar()
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	} else if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Gateway{
		baseURL:   strings.TrimRight(parsed.String(), "/"),
		client:    &client,
		store:     store,
		userAgent: userAgent,
		logger:    logger,
		metrics:   opts.Metrics,
		tracer:    tracer,
	}, nil
}

// BaseURL returns the backend root every path is resolved against.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Call sends a request and returns the raw success body verbatim (nil when the body is
// empty). Strings, byte slices and json.RawMessage are sent as-is; any other non-nil body
// is JSON-encoded.
//
// A 401 clears the session store and yields *AuthRequiredError. Any other non-2xx yields
// *RequestFailedError with the server's message. Network failures and malformed bodies
// yield *TransportError. Nothing is retried.
func (g *Gateway) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	route := RouteTemplate(path)

	ctx, span := g.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.template", route),
		),
	)
	defer span.End()

	done := g.metrics.begin(method, route)
	raw, status, err := g.roundTrip(ctx, method, path, body)
	outcome := Outcome(err)
	done(outcome)

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		g.logger.DebugContext(ctx, "backend call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("outcome", outcome),
			slog.Any("error", err),
		)
		return nil, err
	}

	g.logger.DebugContext(ctx, "backend call succeeded",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	)
	return raw, nil
}

// Do sends a request like Call and decodes a non-empty success body into out. A body that
// does not fit out is reported as a malformed response.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := g.Call(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Method: strings.ToUpper(method), Path: path, Op: "decode response", Cause: err}
	}
	return nil
}

// Get is shorthand for Do with GET and no body.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is shorthand for Do with POST.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) roundTrip(ctx context.Context, method, path string, body any) (json.RawMessage, int, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, 0, &TransportError{Method: method, Path: path, Op: "encode request", Cause: err}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, 0, &TransportError{Method: method, Path: path, Op: "create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	if sess, ok := g.store.Current(); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Method: method, Path: path, Op: "send request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)

	// A 401 expires the session even when its body cannot be read.
	if resp.StatusCode == http.StatusUnauthorized {
		g.expireSession(ctx, method, path)
		message := authRequiredMessage
		if err == nil {
			message = errorMessage(data, authRequiredMessage)
		}
		return nil, resp.StatusCode, &AuthRequiredError{
			Method:  method,
			Path:    path,
			Message: message,
		}
	}
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Method: method, Path: path, Op: "read response", Cause: err}
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, resp.StatusCode, &RequestFailedError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, fallbackMessage),
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, resp.StatusCode, nil
	}
	if !json.Valid(trimmed) {
		return nil, resp.StatusCode, &TransportError{Method: method, Path: path, Op: "decode response", Cause: ErrMalformedResponse}
	}
	return json.RawMessage(trimmed), resp.StatusCode, nil
}

// expireSession clears the store unconditionally after a 401.
func (g *Gateway) expireSession(ctx context.Context, method, path string) {
	g.metrics.sessionCleared()
	if err := g.store.Clear(); err != nil {
		g.logger.ErrorContext(ctx, "failed to clear rejected session",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return
	}
	g.logger.WarnContext(ctx, "backend rejected the session; cleared local session",
		slog.String("method", method),
		slog.String("path", path),
	)
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(b)
	}
}

// errorMessage extracts the human-readable reason from an error payload.
func errorMessage(data []byte, fallback string) string {
	var payload types.ErrorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	if text := payload.Text(); text != "" {
		return text
	}
	return fallback
}

// RouteTemplate replaces numeric path segments with ":id" so per-user paths share one
// metrics label.
func RouteTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" && isDigits(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
