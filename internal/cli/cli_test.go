package cli

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/hive/internal/hivetest"
)

type testEnv struct {
	srv  *hivetest.Server
	ts   *httptest.Server
	args []string
}

// startTestServer starts a seeded fake API and returns base flags pointing
// the CLI at it with file-backed token storage in a temp dir.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()
	srvLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := hivetest.New(srvLogger)
	if err := srv.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := srv.Start()
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	return &testEnv{
		srv: srv,
		ts:  ts,
		args: []string{
			"--server", ts.URL,
			"--config", filepath.Join(dir, "config.yaml"),
			"--token-backend", "file",
			"--token-path", filepath.Join(dir, "credentials.json"),
			"--log-level", "error",
		},
	}
}

func runCLI(t *testing.T, env *testEnv, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(append([]string{}, env.args...), args...))

	err := root.Execute()
	return buf.String(), err
}

func login(t *testing.T, env *testEnv, email string) {
	t.Helper()
	out, err := runCLI(t, env, "login", "--email", email, "--password", hivetest.DemoPassword)
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
}

func TestLoginCommand(t *testing.T) {
	env := startTestServer(t)

	out, err := runCLI(t, env, "login", "--email", hivetest.DemoUser, "--password", hivetest.DemoPassword)
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Logged in as alice") {
		t.Errorf("expected 'Logged in as alice' in output, got: %s", out)
	}

	out, err = runCLI(t, env, "whoami")
	if err != nil {
		t.Fatalf("whoami error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Role:     user") {
		t.Errorf("expected role in output, got: %s", out)
	}
}

func TestLoginCommand_BadPassword(t *testing.T) {
	env := startTestServer(t)

	out, err := runCLI(t, env, "login", "--email", hivetest.DemoUser, "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Incorrect email or password") {
		t.Fatalf("err = %v, want server message", err)
	}
	if strings.Contains(out, "Session expired") {
		t.Errorf("bad login reported as expired session: %s", out)
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)
	env.srv.ResetRequests()

	out, err := runCLI(t, env, "login", "--email", hivetest.DemoUser, "--password", hivetest.DemoPassword)
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, "redirect: /profile") {
		t.Errorf("expected guest-only redirect, got: %s", out)
	}
	if n := len(env.srv.Requests()); n != 0 {
		t.Errorf("made %d requests", n)
	}
}

func TestProtectedCommand_Anonymous(t *testing.T) {
	env := startTestServer(t)

	out, err := runCLI(t, env, "timebank")
	if err != nil {
		t.Fatalf("timebank error: %v", err)
	}
	if !strings.Contains(out, "redirect: /") {
		t.Errorf("expected redirect in output, got: %s", out)
	}
	if n := len(env.srv.Requests()); n != 0 {
		t.Errorf("anonymous protected command made %d requests", n)
	}
}

func TestForcedLogout(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)
	env.srv.Revoke(hivetest.DemoUser)

	out, err := runCLI(t, env, "timebank")
	if err == nil {
		t.Fatal("expected error from revoked session")
	}
	if !strings.Contains(out, "Session expired; please log in again.") {
		t.Errorf("expected session expired notice, got: %s", out)
	}
	if !strings.Contains(out, "redirect: /") {
		t.Errorf("expected fallback redirect after forced logout, got: %s", out)
	}

	out, err = runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "Session:  anonymous") {
		t.Errorf("expected anonymous session after 401, got: %s", out)
	}
}

func TestForcedLogout_DuringRoleCheck(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoAdmin)
	env.srv.Revoke(hivetest.DemoAdmin)

	out, err := runCLI(t, env, "admin", "transactions")
	if err != nil {
		t.Fatalf("admin error: %v", err)
	}
	if strings.Contains(out, "Access denied") {
		t.Errorf("revoked session reported as role denial: %s", out)
	}
	if !strings.Contains(out, "Session expired; please log in again.") || !strings.Contains(out, "redirect: /") {
		t.Errorf("expected expiry notice and redirect, got: %s", out)
	}
	if n := strings.Count(out, "redirect:"); n != 1 {
		t.Errorf("redirect printed %d times: %s", n, out)
	}
}

func TestProtectedCommand_ServerDown(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)
	env.ts.Close()

	for _, args := range [][]string{{"admin", "transactions"}, {"moderate"}} {
		out, err := runCLI(t, env, args...)
		if err == nil || !strings.Contains(err.Error(), "cannot reach server") {
			t.Errorf("%v: err = %v, want network error", args, err)
		}
		if strings.Contains(out, "Access denied") || strings.Contains(out, "redirect:") {
			t.Errorf("%v: network failure reported as denial: %s", args, out)
		}
	}

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "Session:  authenticated") {
		t.Errorf("network failure dropped the session: %s", out)
	}
}

func TestLogoutCommand(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)

	if out, err := runCLI(t, env, "logout"); err != nil || !strings.Contains(out, "Logged out.") {
		t.Fatalf("logout = %q, %v", out, err)
	}
	out, _ := runCLI(t, env, "status")
	if !strings.Contains(out, "Session:  anonymous") {
		t.Errorf("expected anonymous session, got: %s", out)
	}
	if strings.Contains(out, "Session expired") {
		t.Errorf("logout reported as forced: %s", out)
	}
}

func TestStatusCommand_TokenInfo(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	for _, want := range []string{"Session:  authenticated", "Subject:", "Expires:  "} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestAdminCommand_RoleGate(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoModerator)
	env.srv.ResetRequests()

	out, err := runCLI(t, env, "admin", "transactions")
	if err != nil {
		t.Fatalf("admin error: %v", err)
	}
	if !strings.Contains(out, "requires admin role") || !strings.Contains(out, "redirect: /") {
		t.Errorf("expected denial, got: %s", out)
	}
	if n := len(env.srv.RequestsTo("/users/admin")); n != 0 {
		t.Errorf("denied view still called the admin endpoint %d times", n)
	}

	out, err = runCLI(t, env, "moderate")
	if err != nil {
		t.Fatalf("moderate error: %v", err)
	}
	if !strings.Contains(out, "Community repair cafe") {
		t.Errorf("expected events in moderate output, got: %s", out)
	}
}

func TestAdminCommand_Allowed(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoAdmin)

	out, err := runCLI(t, env, "admin", "transactions")
	if err != nil {
		t.Fatalf("admin error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Tutoring session") {
		t.Errorf("expected transaction in output, got: %s", out)
	}
}

func TestServicesCommand(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)

	out, err := runCLI(t, env, "services", "list", "--type", "offer")
	if err != nil {
		t.Fatalf("services error: %v", err)
	}
	if !strings.Contains(out, "Garden help") || strings.Contains(out, "Spanish") {
		t.Errorf("unexpected services output: %s", out)
	}

	out, err = runCLI(t, env, "services", "saved")
	if err != nil {
		t.Fatalf("saved error: %v", err)
	}
	if !strings.Contains(out, "Garden help") {
		t.Errorf("expected saved service, got: %s", out)
	}
}

func TestChatCommands(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)

	out, err := runCLI(t, env, "chat", "rooms")
	if err != nil {
		t.Fatalf("rooms error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one room, got: %s", out)
	}
	roomID := strings.Fields(lines[1])[0]

	if out, err := runCLI(t, env, "chat", "send", roomID, "hello", "there"); err != nil || !strings.Contains(out, "Message sent") {
		t.Fatalf("send = %q, %v", out, err)
	}
	out, err = runCLI(t, env, "chat", "messages", roomID)
	if err != nil {
		t.Fatalf("messages error: %v", err)
	}
	if !strings.Contains(out, "alice: hello there") {
		t.Errorf("expected message in output, got: %s", out)
	}
}

func TestOverviewCommand(t *testing.T) {
	env := startTestServer(t)
	login(t, env, hivetest.DemoUser)

	out, err := runCLI(t, env, "overview")
	if err != nil {
		t.Fatalf("overview error: %v", err)
	}
	for _, want := range []string{"alice (user)", "Balance: 5 hours", "Pending join requests: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestRegisterCommand(t *testing.T) {
	env := startTestServer(t)

	out, err := runCLI(t, env, "register", "--username", "carol", "--email", "carol@hive.test", "--password", "password123")
	if err != nil {
		t.Fatalf("register error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Welcome, carol!") {
		t.Errorf("unexpected output: %s", out)
	}

	_, err = runCLI(t, env, "logout")
	if err != nil {
		t.Fatal(err)
	}
	_, err = runCLI(t, env, "register", "--username", "dan", "--email", "dan@hive.test", "--password", "short")
	if err == nil || !strings.Contains(err.Error(), "password: ") {
		t.Errorf("err = %v, want field error", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	env := startTestServer(t)
	if _, err := runCLI(t, env, "--token-backend", "keychain", "status"); err == nil {
		t.Error("expected config validation error")
	}
}
