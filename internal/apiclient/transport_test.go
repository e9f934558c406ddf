package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/me/hive/internal/tokenstore"
)

// recordingTokens records token reads and clears in call order.
type recordingTokens struct {
	mu    sync.Mutex
	token string
	err   error
	calls *[]string
}

func (r *recordingTokens) Token(ctx context.Context) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.calls = append(*r.calls, "read")
	return r.token, r.token != "", r.err
}

func (r *recordingTokens) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.calls = append(*r.calls, "clear")
	r.token = ""
	return r.err
}

type recordingSignal struct {
	calls *[]string
}

func (r recordingSignal) Unauthorized() { *r.calls = append(*r.calls, "signal") }

func statusTransport(status int, seen *http.Header) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if seen != nil {
			*seen = req.Header.Clone()
		}
		rec := httptest.NewRecorder()
		rec.WriteHeader(status)
		return rec.Result(), nil
	})
}

func newRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://hive.test"+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestAllowlistMatch(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/auth/login", true},
		{"/auth/register", true},
		{"/api/auth/login", true},
		{"/auth/me", false},
		{"/users/profile", false},
		{"/auth/oauth/google", false},
	}
	for _, tt := range tests {
		if got := DefaultAllowlist.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAuthenticatorAttachesBearer(t *testing.T) {
	var calls []string
	var seen http.Header
	a := &Authenticator{
		Tokens: &recordingTokens{token: "abc123", calls: &calls},
		Allow:  DefaultAllowlist,
		Next:   statusTransport(http.StatusOK, &seen),
		Logger: testLogger(),
	}

	req := newRequest(t, "/services/")
	if _, err := a.RoundTrip(req); err != nil {
		t.Fatal(err)
	}
	if got := seen.Get("Authorization"); got != "Bearer abc123" {
		t.Errorf("Authorization = %q", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("caller's request was modified")
	}
}

func TestAuthenticatorSkipsAllowlist(t *testing.T) {
	var calls []string
	var seen http.Header
	a := &Authenticator{
		Tokens: &recordingTokens{token: "abc123", calls: &calls},
		Allow:  DefaultAllowlist,
		Next:   statusTransport(http.StatusOK, &seen),
		Logger: testLogger(),
	}
	for _, path := range []string{"/auth/login", "/auth/register"} {
		if _, err := a.RoundTrip(newRequest(t, path)); err != nil {
			t.Fatal(err)
		}
		if got := seen.Get("Authorization"); got != "" {
			t.Errorf("%s: Authorization = %q", path, got)
		}
	}
	if len(calls) != 0 {
		t.Errorf("token was read for allowlisted paths: %v", calls)
	}
}

func TestAuthenticatorWithoutToken(t *testing.T) {
	var calls []string
	var seen http.Header
	a := &Authenticator{
		Tokens: &recordingTokens{calls: &calls},
		Next:   statusTransport(http.StatusOK, &seen),
		Logger: testLogger(),
	}
	if _, err := a.RoundTrip(newRequest(t, "/users/profile")); err != nil {
		t.Fatal(err)
	}
	if got := seen.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want none", got)
	}
}

func TestAuthenticatorStorageErrorProceeds(t *testing.T) {
	backend := tokenstore.NewMemoryBackend()
	backend.SetErr(errors.New("disk on fire"))
	tokens := tokenstore.New(backend, testLogger())

	var seen http.Header
	a := &Authenticator{Tokens: tokens, Next: statusTransport(http.StatusOK, &seen), Logger: testLogger()}
	resp, err := a.RoundTrip(newRequest(t, "/services/"))
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if seen.Get("Authorization") != "" {
		t.Error("Authorization set despite storage error")
	}
}

func TestDetectorClearsThenSignals(t *testing.T) {
	var calls []string
	d := &UnauthorizedDetector{
		Tokens: &recordingTokens{token: "abc123", calls: &calls},
		Signal: recordingSignal{calls: &calls},
		Allow:  DefaultAllowlist,
		Next:   statusTransport(http.StatusUnauthorized, nil),
		Logger: testLogger(),
	}

	resp, err := d.RoundTrip(newRequest(t, "/users/profile"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 passed through", resp.StatusCode)
	}
	if strings.Join(calls, ",") != "clear,signal" {
		t.Errorf("calls = %v, want [clear signal]", calls)
	}
}

func TestDetectorIgnoresAllowlistAndOtherStatuses(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{"/auth/login", http.StatusUnauthorized},
		{"/auth/register", http.StatusUnauthorized},
		{"/users/profile", http.StatusForbidden},
		{"/users/profile", http.StatusInternalServerError},
		{"/users/profile", http.StatusOK},
	}
	for _, tt := range tests {
		var calls []string
		d := &UnauthorizedDetector{
			Tokens: &recordingTokens{token: "abc123", calls: &calls},
			Signal: recordingSignal{calls: &calls},
			Allow:  DefaultAllowlist,
			Next:   statusTransport(tt.status, nil),
			Logger: testLogger(),
		}
		if _, err := d.RoundTrip(newRequest(t, tt.path)); err != nil {
			t.Fatal(err)
		}
		if len(calls) != 0 {
			t.Errorf("%s %d: side effects %v", tt.path, tt.status, calls)
		}
	}
}

func TestDetectorSignalsWhenClearFails(t *testing.T) {
	var calls []string
	d := &UnauthorizedDetector{
		Tokens: &recordingTokens{err: errors.New("read-only fs"), calls: &calls},
		Signal: recordingSignal{calls: &calls},
		Next:   statusTransport(http.StatusUnauthorized, nil),
		Logger: testLogger(),
	}
	if _, err := d.RoundTrip(newRequest(t, "/services/")); err != nil {
		t.Fatal(err)
	}
	if strings.Join(calls, ",") != "clear,signal" {
		t.Errorf("calls = %v", calls)
	}
}

func TestDecodeAPIError(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
		fields int
		msg    string
	}{
		{"string detail", `{"detail":"Service not found"}`, "Service not found", 0, "Service not found"},
		{"field list", `{"detail":[{"loc":["body","email"],"msg":"bad email","type":"value_error"}]}`, "", 1, "bad email"},
		{"not json", `<html>oops</html>`, "", 0, "Bad Gateway"},
		{"empty", ``, "", 0, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeAPIError(http.StatusBadGateway, http.MethodGet, "/x", []byte(tt.body))
			if e.Detail != tt.detail || len(e.Fields) != tt.fields || e.Message() != tt.msg {
				t.Errorf("got detail %q, %d fields, message %q", e.Detail, len(e.Fields), e.Message())
			}
		})
	}
}
