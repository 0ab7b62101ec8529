package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"todocli/internal/api"
	"todocli/internal/cli"
	"todocli/internal/commands"
	"todocli/internal/config"
	"todocli/internal/credstore"
	"todocli/internal/exitcode"
	"todocli/internal/session"
	"todocli/internal/testutil"
)

func newDispatcher(fake *testutil.FakeAPI) *cli.Dispatcher {
	factory := func(ctx context.Context, cfg *config.Config) (commands.Backend, error) {
		return fake, nil
	}
	return cli.NewDispatcher(commands.DefaultRegistry, factory)
}

// seedCookie stores a session token under dir the way a login would.
func seedCookie(t *testing.T, dir, token string) {
	t.Helper()
	if err := credstore.New(filepath.Join(dir, config.CookieFile)).Set(token, session.TokenTTLDays); err != nil {
		t.Fatalf("failed to seed cookie: %v", err)
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRunUnknownCommand(t *testing.T) {
	_, errOut, code := run(t, newDispatcher(testutil.NewFakeAPI()), "bogus")
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if errOut != "error: unknown command: bogus\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunLeadingFlagIsRejected(t *testing.T) {
	_, errOut, code := run(t, newDispatcher(testutil.NewFakeAPI()), "--quiet")
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if errOut != "error: unknown command: --quiet\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunNoArgsDefaultsToList(t *testing.T) {
	fake := testutil.NewFakeAPI()
	d := newDispatcher(fake)

	// No cookie anywhere: the poll resolves to unauthenticated without a
	// network call.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, errOut, code := run(t, d)
	if code != exitcode.AuthError {
		t.Errorf("expected auth error, got %d", code)
	}
	if errOut != "error: not authorized (run: todocli login)\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
	if fake.Calls("fetchTasks") != 0 {
		t.Error("expected no network call without a token")
	}
}

func TestRunListEndToEnd(t *testing.T) {
	fake := testutil.NewFakeAPI()
	fake.AddUser("a@b.com", "secret1", "h1", "tok123")
	fake.AddTask(api.Task{ID: "1", Num: 1, Title: "first", CreatedAt: "2024-01-01T10:00:00"})

	dir := t.TempDir()
	seedCookie(t, dir, "tok123")

	out, errOut, code := run(t, newDispatcher(fake), "list", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr: %s)", code, errOut)
	}
	if !strings.Contains(out, "first") {
		t.Errorf("expected task row in output, got %q", out)
	}
}

func TestRunAuthRequiredWithoutCookie(t *testing.T) {
	fake := testutil.NewFakeAPI()
	dir := t.TempDir()

	_, errOut, code := run(t, newDispatcher(fake), "rm", "--config", dir, "1")
	if code != exitcode.AuthError {
		t.Errorf("expected auth error, got %d", code)
	}
	if errOut != "error: not logged in (run: todocli login)\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
	if fake.Calls("deleteTask") != 0 {
		t.Error("pre-flight rejection must not reach the backend")
	}
}

func TestRunUnknownFlag(t *testing.T) {
	_, errOut, code := run(t, newDispatcher(testutil.NewFakeAPI()), "list", "--bogus")
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if errOut != "error: unknown flag: -bogus\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunFlagNeedsArgument(t *testing.T) {
	_, errOut, code := run(t, newDispatcher(testutil.NewFakeAPI()), "list", "--config")
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if errOut != "error: flag needs an argument: -config\n" {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunQuietSuppressesOutput(t *testing.T) {
	fake := testutil.NewFakeAPI()
	fake.AddUser("a@b.com", "secret1", "h1", "tok123")
	dir := t.TempDir()

	out, errOut, code := run(t, newDispatcher(fake), "login", "--config", dir, "--quiet", "a@b.com", "secret1")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr: %s)", code, errOut)
	}
	if out != "" {
		t.Errorf("expected no output with --quiet, got %q", out)
	}
}

func TestRunAliasDispatch(t *testing.T) {
	fake := testutil.NewFakeAPI()
	fake.AddUser("a@b.com", "secret1", "h1", "tok123")
	dir := t.TempDir()
	seedCookie(t, dir, "tok123")

	out, _, code := run(t, newDispatcher(fake), "ls", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if out != "no tasks found\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunVersionNeedsNoBackend(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)
	out, _, code := run(t, d, "version")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if out != "todocli "+commands.Version+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}
