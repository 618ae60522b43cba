package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/core/dashboard"
	"github.com/pcasconnect/campus/core/nav"
	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/devbackend"
	"github.com/pcasconnect/campus/gateway"
	"github.com/pcasconnect/campus/storage/sessionstore"
)

func setup(t *testing.T) *application {
	t.Helper()
	core.InitValidators()

	backend := devbackend.NewServer(&devbackend.Options{
		DisableReqLogs: true,
		Conf:           &core.Config{Debug: true},
	})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	conf := &core.Config{Build: "test"}
	conf.API.BaseURL = srv.URL
	conf.API.Timeout = 5 * time.Second

	logger := core.NopLogger{}
	store := sessionstore.NewInMem()
	gw := gateway.NewClient(conf)
	sessions := session.NewService(store, gw, logger)

	return &application{
		conf:     conf,
		log:      logger,
		gw:       gw,
		sessions: sessions,
		dash:     dashboard.NewService(gw, sessions, logger),
		guard:    nav.NewGuard(sessions),
	}
}

// run executes one command line against a fresh root command, feeding input
// as stdin (for the password prompt) and capturing stdout.
func run(t *testing.T, app *application, input string, args ...string) (string, error) {
	t.Helper()

	if input != "" {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.WriteString(input); err != nil {
			t.Fatal(err)
		}
		w.Close()
		orig := os.Stdin
		os.Stdin = r
		t.Cleanup(func() { os.Stdin = orig })
	}

	var out bytes.Buffer
	root := newRootCmd(app)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_loginWhoamiLogout(t *testing.T) {
	app := setup(t)

	out, err := run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "student", "--email", "asha@pcas.edu")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	if !strings.Contains(out, "Signed in as Asha Nair (student)") {
		t.Errorf("login output = %q", out)
	}

	out, err = run(t, app, "", "whoami")
	if err != nil {
		t.Fatalf("whoami error = %v", err)
	}
	if !strings.Contains(out, "Asha Nair (student)") || !strings.Contains(out, "student/home") {
		t.Errorf("whoami output = %q", out)
	}

	// second login is refused while a session exists
	if _, err = run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "admin", "--username", "admin"); err == nil {
		t.Error("login succeeded over an existing session")
	}

	if _, err = run(t, app, "", "logout"); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	out, _ = run(t, app, "", "whoami")
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestCLI_badCredentials(t *testing.T) {
	app := setup(t)

	_, err := run(t, app, "wrongpass\n", "login", "--role", "student", "--email", "asha@pcas.edu")
	if err == nil {
		t.Fatal("login accepted bad credentials")
	}
	if !strings.Contains(err.Error(), "sign-in failed") {
		t.Errorf("error = %v", err)
	}
	if _, ok := app.sessions.Current(); ok {
		t.Error("failed login left a session")
	}
}

func TestCLI_dashboard(t *testing.T) {
	app := setup(t)

	if _, err := run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "student", "--email", "asha@pcas.edu"); err != nil {
		t.Fatalf("login error = %v", err)
	}

	out, err := run(t, app, "", "dashboard")
	if err != nil {
		t.Fatalf("dashboard error = %v", err)
	}
	for _, want := range []string{"student dashboard for Asha Nair", "[profile]", "[today]", "[monthly]", "[timetable]"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_roleGuard(t *testing.T) {
	app := setup(t)

	if _, err := run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "student", "--email", "asha@pcas.edu"); err != nil {
		t.Fatalf("login error = %v", err)
	}

	if _, err := run(t, app, "", "admin", "students"); err == nil {
		t.Error("student session ran an admin command")
	}
	if _, err := run(t, app, "", "hod", "promote", "--semester", "3"); err == nil {
		t.Error("student session ran an HOD command")
	}
}

func TestCLI_revokedSessionInvalidates(t *testing.T) {
	app := setup(t)

	if _, err := run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "hod", "--email", "suresh@pcas.edu"); err != nil {
		t.Fatalf("login error = %v", err)
	}

	// demote the account server-side; the persisted session is now stale
	if _, err := app.gw.UpdateTeacher(context.Background(), 1, map[string]interface{}{"is_hod": false}); err != nil {
		t.Fatalf("UpdateTeacher error = %v", err)
	}

	if _, err := run(t, app, "", "dashboard"); err == nil {
		t.Fatal("dashboard loaded over a revoked session")
	}
	if _, ok := app.sessions.Current(); ok {
		t.Error("revoked session still present")
	}
	if reason, ok := app.sessions.LastExit(); !ok || reason != session.ExitExpired {
		t.Errorf("LastExit() = %v, %v; want expired", reason, ok)
	}

	out, _ := run(t, app, "", "whoami")
	if !strings.Contains(out, "Session expired") {
		t.Errorf("whoami output = %q", out)
	}
}

func TestCLI_hodFlow(t *testing.T) {
	app := setup(t)

	if _, err := run(t, app, devbackend.DemoPassword+"\n",
		"login", "--role", "hod", "--email", "suresh@pcas.edu"); err != nil {
		t.Fatalf("login error = %v", err)
	}

	out, err := run(t, app, "", "hod", "promote", "--semester", "3")
	if err != nil {
		t.Fatalf("promote error = %v", err)
	}
	if !strings.Contains(out, "promoted") {
		t.Errorf("promote output = %q", out)
	}

	// promotion does not change the stored session
	sess, ok := app.sessions.Current()
	if !ok || sess.Role != session.RoleHOD {
		t.Errorf("session after promote = %+v, %v", sess, ok)
	}
}
