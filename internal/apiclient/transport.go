package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// TokenSource yields the current bearer token.
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// TokenClearer removes the stored token.
type TokenClearer interface {
	Clear(ctx context.Context) error
}

// Signaler receives the session-expired signal.
type Signaler interface {
	Unauthorized()
}

func nextOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// Authenticator attaches "Authorization: Bearer <token>" to every request
// outside the allowlist. It never fails a request: without a token, or when
// the token cannot be read, the request goes out unchanged.
type Authenticator struct {
	Tokens TokenSource
	Allow  Allowlist
	Next   http.RoundTripper
	Logger *slog.Logger
}

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	next := nextOrDefault(a.Next)
	if a.Allow.Match(req.URL.Path) {
		return next.RoundTrip(req)
	}

	tok, ok, err := a.Tokens.Token(req.Context())
	if err != nil {
		a.Logger.Error("read token", "path", req.URL.Path, "error", err)
		return next.RoundTrip(req)
	}
	if !ok {
		return next.RoundTrip(req)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+tok)
	return next.RoundTrip(authed)
}

// UnauthorizedDetector watches responses for a 401 from a protected
// endpoint. On one it clears the stored token, then raises the signal, then
// hands the response back untouched so the caller still sees the failure.
type UnauthorizedDetector struct {
	Tokens TokenClearer
	Signal Signaler
	Allow  Allowlist
	Next   http.RoundTripper
	Logger *slog.Logger
}

func (d *UnauthorizedDetector) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := nextOrDefault(d.Next).RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || d.Allow.Match(req.URL.Path) {
		return resp, nil
	}

	d.Logger.Warn("session invalidated", "method", req.Method, "path", req.URL.Path)
	// The caller may cancel as soon as it sees the 401; the clear must still land.
	if err := d.Tokens.Clear(context.WithoutCancel(req.Context())); err != nil {
		d.Logger.Error("clear token after 401", "error", err)
	}
	d.Signal.Unauthorized()
	return resp, nil
}

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// requestID tags outgoing requests with a fresh id unless one is set.
func requestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(RequestIDHeader) != "" {
			return next.RoundTrip(req)
		}
		tagged := req.Clone(req.Context())
		tagged.Header.Set(RequestIDHeader, uuid.NewString())
		return next.RoundTrip(tagged)
	})
}

// logging logs each exchange at DEBUG (method, path, status, duration).
func logging(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		attrs := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"duration", time.Since(start).String(),
			"request_id", req.Header.Get(RequestIDHeader),
		}
		if err != nil {
			logger.Debug("HTTP exchange failed", append(attrs, "error", err)...)
			return nil, err
		}
		logger.Debug("HTTP exchange", append(attrs, "status", resp.StatusCode)...)
		return resp, nil
	})
}

// TokenStore is what the pipeline and the auth calls need from token storage.
type TokenStore interface {
	TokenSource
	TokenClearer
	Write(ctx context.Context, token string) error
}

// NewPipeline stacks the stages in their fixed order:
// authenticator, unauthorized detector, request id, logging, base.
func NewPipeline(base http.RoundTripper, tokens TokenStore, signal Signaler, allow Allowlist, logger *slog.Logger) http.RoundTripper {
	inner := logging(logger, requestID(nextOrDefault(base)))
	detector := &UnauthorizedDetector{
		Tokens: tokens,
		Signal: signal,
		Allow:  allow,
		Next:   inner,
		Logger: logger,
	}
	return &Authenticator{
		Tokens: tokens,
		Allow:  allow,
		Next:   detector,
		Logger: logger,
	}
}
