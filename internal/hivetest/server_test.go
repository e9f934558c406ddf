package hivetest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func post(t *testing.T, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func get(t *testing.T, url, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	json.Unmarshal(raw, &out)
	return resp, out
}

func TestLoginAndMe(t *testing.T) {
	srv := New(quietLogger())
	srv.AddUser("alice", "alice@hive.test", "password123", "")
	ts := srv.Start()
	defer ts.Close()

	resp, body := post(t, ts.URL+"/auth/login", "", map[string]string{"email": "alice@hive.test", "password": "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	tok, _ := body["access_token"].(string)
	if tok == "" {
		t.Fatal("login returned no access_token")
	}

	resp, body = get(t, ts.URL+"/auth/me", tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	if body["username"] != "alice" || body["role"] != "user" {
		t.Errorf("me = %v", body)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := New(quietLogger())
	srv.AddUser("alice", "alice@hive.test", "password123", "")
	ts := srv.Start()
	defer ts.Close()

	resp, body := post(t, ts.URL+"/auth/login", "", map[string]string{"email": "alice@hive.test", "password": "nope"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["detail"] != "Incorrect email or password" {
		t.Errorf("detail = %v", body["detail"])
	}
}

func TestRevokeInvalidatesTokens(t *testing.T) {
	srv := New(quietLogger())
	srv.AddUser("alice", "alice@hive.test", "password123", "")
	ts := srv.Start()
	defer ts.Close()

	tok, err := srv.IssueToken("alice@hive.test")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if resp, _ := get(t, ts.URL+"/users/profile", tok); resp.StatusCode != http.StatusOK {
		t.Fatalf("before revoke: status = %d", resp.StatusCode)
	}

	if err := srv.Revoke("alice@hive.test"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	resp, body := get(t, ts.URL+"/users/profile", tok)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("after revoke: status = %d, want 401", resp.StatusCode)
	}
	if body["detail"] != "Could not validate credentials" {
		t.Errorf("detail = %v", body["detail"])
	}

	fresh, _ := srv.IssueToken("alice@hive.test")
	if resp, _ := get(t, ts.URL+"/users/profile", fresh); resp.StatusCode != http.StatusOK {
		t.Errorf("fresh token: status = %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := New(quietLogger())
	ts := srv.Start()
	defer ts.Close()

	resp, body := post(t, ts.URL+"/auth/register", "", map[string]string{
		"username": "carol", "email": "carol@hive.test",
		"password": "password123", "confirm_password": "different1",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	detail, ok := body["detail"].([]any)
	if !ok || len(detail) != 1 {
		t.Fatalf("detail = %v, want one field error", body["detail"])
	}
	entry := detail[0].(map[string]any)
	if entry["msg"] != "Passwords do not match" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestRegisterReturnsUserOnly(t *testing.T) {
	srv := New(quietLogger())
	ts := srv.Start()
	defer ts.Close()

	resp, body := post(t, ts.URL+"/auth/register", "", map[string]string{
		"username": "carol", "email": "carol@hive.test",
		"password": "password123", "confirm_password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := body["access_token"]; ok {
		t.Error("register returned a token without WithRegisterToken")
	}
	if body["email"] != "carol@hive.test" {
		t.Errorf("email = %v", body["email"])
	}

	resp, _ = post(t, ts.URL+"/auth/register", "", map[string]string{
		"username": "carol2", "email": "carol@hive.test",
		"password": "password123", "confirm_password": "password123",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", resp.StatusCode)
	}
}

func TestAdminEndpointRequiresRole(t *testing.T) {
	srv := New(quietLogger())
	srv.AddUser("alice", "alice@hive.test", "password123", "user")
	srv.AddUser("root", "root@hive.test", "password123", "admin")
	srv.AddTransaction("alice@hive.test", 2, "tutoring")
	ts := srv.Start()
	defer ts.Close()

	userTok, _ := srv.IssueToken("alice@hive.test")
	if resp, _ := get(t, ts.URL+"/users/admin/timebank-transactions", userTok); resp.StatusCode != http.StatusForbidden {
		t.Errorf("user: status = %d, want 403", resp.StatusCode)
	}

	adminTok, _ := srv.IssueToken("root@hive.test")
	resp, body := get(t, ts.URL+"/users/admin/timebank-transactions?page=1&limit=10", adminTok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: status = %d", resp.StatusCode)
	}
	if body["total"] != float64(1) {
		t.Errorf("total = %v, want 1", body["total"])
	}
}

func TestPaginationEnvelope(t *testing.T) {
	srv := New(quietLogger())
	if err := srv.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	ts := srv.Start()
	defer ts.Close()

	tok, _ := srv.IssueToken(DemoUser)
	_, body := get(t, ts.URL+"/services/?page=1&limit=1", tok)
	items, ok := body["services"].([]any)
	if !ok {
		t.Fatalf("no services key in %v", body)
	}
	if len(items) != 1 || body["total"] != float64(2) || body["limit"] != float64(1) {
		t.Errorf("page = %d items, total %v, limit %v", len(items), body["total"], body["limit"])
	}
}

func TestRequestLog(t *testing.T) {
	srv := New(quietLogger())
	srv.AddUser("alice", "alice@hive.test", "password123", "")
	ts := srv.Start()
	defer ts.Close()

	tok, _ := srv.IssueToken("alice@hive.test")
	get(t, ts.URL+"/users/profile", tok)
	get(t, ts.URL+"/services/", "")

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("logged %d requests, want 2", len(reqs))
	}
	if !strings.HasPrefix(reqs[0].Authorization, "Bearer ") {
		t.Errorf("first request Authorization = %q", reqs[0].Authorization)
	}
	if reqs[1].Authorization != "" {
		t.Errorf("second request Authorization = %q, want empty", reqs[1].Authorization)
	}
	if got := srv.RequestsTo("/services"); len(got) != 1 {
		t.Errorf("RequestsTo(/services) = %d, want 1", len(got))
	}

	srv.ResetRequests()
	if len(srv.Requests()) != 0 {
		t.Error("ResetRequests left entries")
	}
}
