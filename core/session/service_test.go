package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/gateway"
)

type fakeStore struct {
	values    map[string]string
	failWrite error
	setCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Get(key string) (string, error) {
	val, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *fakeStore) SetAll(values map[string]string) error {
	s.setCalls++
	if s.failWrite != nil {
		return s.failWrite
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *fakeStore) Clear(keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type fakeAuth struct {
	student    *gateway.StudentLoginResult
	teacher    *gateway.TeacherLoginResult
	admin      *gateway.AdminLoginResult
	studentErr error
	teacherErr error
	adminErr   error
}

func (a *fakeAuth) StudentLogin(ctx context.Context, email, password string) (*gateway.StudentLoginResult, error) {
	return a.student, a.studentErr
}

func (a *fakeAuth) TeacherLogin(ctx context.Context, email, password string) (*gateway.TeacherLoginResult, error) {
	return a.teacher, a.teacherErr
}

func (a *fakeAuth) AdminLogin(ctx context.Context, username, password string) (*gateway.AdminLoginResult, error) {
	return a.admin, a.adminErr
}

func init() {
	core.InitValidators()
}

var studentCreds = Credentials{Email: "asha@pcas.edu", Password: "pwd"}

func newTestService(store Store, auth Authenticator) *Service {
	return NewService(store, auth, core.NopLogger{})
}

func TestService_SignIn_student(t *testing.T) {
	issued := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return issued }
	defer func() { nowFunc = time.Now }()

	store := newFakeStore()
	store.values[keyLastExit] = string(ExitExpired) // stale marker from a previous run
	auth := &fakeAuth{student: &gateway.StudentLoginResult{
		StudentID: 7, Name: "Asha Nair", Email: "asha@pcas.edu", Department: "CS", Semester: 3,
	}}
	svc := newTestService(store, auth)

	sess, err := svc.SignIn(context.Background(), RoleStudent, studentCreds)
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	want := Session{Role: RoleStudent, SubjectID: 7, DisplayName: "Asha Nair", Email: "asha@pcas.edu", IssuedAt: issued}
	if sess != want {
		t.Errorf("SignIn() = %+v, want %+v", sess, want)
	}

	got, ok := svc.Current()
	if !ok {
		t.Fatal("Current() reports no session after sign-in")
	}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if store.setCalls != 1 {
		t.Errorf("store written %d times, want 1 atomic write", store.setCalls)
	}
	if _, found := svc.LastExit(); found {
		t.Error("stale exit marker survived sign-in")
	}
}

func TestService_SignIn_refusesSecondSession(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuth{student: &gateway.StudentLoginResult{StudentID: 7, Name: "Asha", Email: "a@b.c"}}
	svc := newTestService(store, auth)

	if _, err := svc.SignIn(context.Background(), RoleStudent, studentCreds); err != nil {
		t.Fatalf("first SignIn() error = %v", err)
	}
	if _, err := svc.SignIn(context.Background(), RoleStudent, studentCreds); !errors.Is(err, ErrSessionExists) {
		t.Errorf("second SignIn() error = %v, want ErrSessionExists", err)
	}
}

func TestService_SignIn_validation(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeAuth{})

	tests := []struct {
		name  string
		role  Role
		creds Credentials
	}{
		{name: "unknown role", role: Role("principal"), creds: studentCreds},
		{name: "missing password", role: RoleStudent, creds: Credentials{Email: "a@b.c"}},
		{name: "missing email", role: RoleStudent, creds: Credentials{Password: "pwd"}},
		{name: "bad email", role: RoleStudent, creds: Credentials{Email: "nope", Password: "pwd"}},
		{name: "admin missing username", role: RoleAdmin, creds: Credentials{Password: "pwd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SignIn(context.Background(), tt.role, tt.creds); err == nil {
				t.Error("SignIn() accepted invalid input")
			}
		})
	}
}

func TestService_SignIn_authFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "rejected credentials",
			err:         &gateway.Error{Kind: gateway.KindAuthRejected, StatusCode: 401, Message: "Invalid email or password"},
			wantMessage: "Invalid email or password",
		},
		{
			name:        "network failure",
			err:         &gateway.Error{Kind: gateway.KindNetwork, Message: "dial tcp: connection refused"},
			wantMessage: "could not reach the server",
		},
		{
			name:        "server error",
			err:         &gateway.Error{Kind: gateway.KindServerError, StatusCode: 500, Message: "internal server error"},
			wantMessage: "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, &fakeAuth{studentErr: tt.err})

			_, err := svc.SignIn(context.Background(), RoleStudent, studentCreds)
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("SignIn() error = %v, want *AuthError", err)
			}
			if authErr.Message != tt.wantMessage {
				t.Errorf("AuthError.Message = %q, want %q", authErr.Message, tt.wantMessage)
			}
			if _, ok := svc.Current(); ok {
				t.Error("failed sign-in left a session behind")
			}
			if store.setCalls != 0 {
				t.Error("failed sign-in wrote to the store")
			}
		})
	}
}

func TestService_SignIn_persistFailure(t *testing.T) {
	store := newFakeStore()
	store.failWrite = errors.New("disk full")
	auth := &fakeAuth{student: &gateway.StudentLoginResult{StudentID: 7, Name: "Asha", Email: "a@b.c"}}
	svc := newTestService(store, auth)

	if _, err := svc.SignIn(context.Background(), RoleStudent, studentCreds); err == nil {
		t.Fatal("SignIn() ignored a persistence failure")
	}
	if _, ok := svc.Current(); ok {
		t.Error("session visible after failed persistence")
	}
}

func TestService_SignIn_hodRoles(t *testing.T) {
	teacherRes := &gateway.TeacherLoginResult{Role: "TEACHER", TeacherID: 2, Name: "Priya", Email: "p@b.c", DepartmentID: 1}
	hodRes := &gateway.TeacherLoginResult{Role: "HOD", TeacherID: 1, Name: "Suresh", Email: "s@b.c", DepartmentID: 1}

	t.Run("hod portal needs hod account", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeAuth{teacher: teacherRes})
		_, err := svc.SignIn(context.Background(), RoleHOD, studentCreds)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("SignIn() error = %v, want *AuthError", err)
		}
	})

	t.Run("teacher portal upgrades hod account", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeAuth{teacher: hodRes})
		sess, err := svc.SignIn(context.Background(), RoleTeacher, studentCreds)
		if err != nil {
			t.Fatalf("SignIn() error = %v", err)
		}
		if sess.Role != RoleHOD {
			t.Errorf("Role = %s, want %s", sess.Role, RoleHOD)
		}
		if sess.DepartmentID != 1 {
			t.Errorf("DepartmentID = %d, want 1", sess.DepartmentID)
		}
	})
}

func TestService_SignOut(t *testing.T) {
	auth := &fakeAuth{student: &gateway.StudentLoginResult{StudentID: 7, Name: "Asha", Email: "a@b.c"}}
	svc := newTestService(newFakeStore(), auth)

	if _, err := svc.SignIn(context.Background(), RoleStudent, studentCreds); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := svc.SignOut(); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Error("session present after sign-out")
	}
	if reason, ok := svc.LastExit(); !ok || reason != ExitSignedOut {
		t.Errorf("LastExit() = %v, %v; want %v, true", reason, ok, ExitSignedOut)
	}

	// repeat sign-out is a no-op
	if err := svc.SignOut(); err != nil {
		t.Errorf("second SignOut() error = %v", err)
	}
}

func TestService_Invalidate(t *testing.T) {
	auth := &fakeAuth{student: &gateway.StudentLoginResult{StudentID: 7, Name: "Asha", Email: "a@b.c"}}
	svc := newTestService(newFakeStore(), auth)

	if _, err := svc.SignIn(context.Background(), RoleStudent, studentCreds); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := svc.Invalidate("backend rejected id"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Error("session present after invalidation")
	}
	if reason, ok := svc.LastExit(); !ok || reason != ExitExpired {
		t.Errorf("LastExit() = %v, %v; want %v, true", reason, ok, ExitExpired)
	}
}

func TestService_Current_partialState(t *testing.T) {
	store := newFakeStore()
	store.values[keyRole] = string(RoleStudent)
	store.values[keySubjectID] = "7"
	// display name, email and issued_at missing

	svc := newTestService(store, &fakeAuth{})
	if _, ok := svc.Current(); ok {
		t.Error("partial stored state treated as a session")
	}
}
