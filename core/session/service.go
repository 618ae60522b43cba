package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/gateway"
)

var (
	// errors
	ErrUnknownRole        = errors.New("unknown role")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrSessionExists      = errors.New("a session is already active; sign out first")

	// ErrKeyNotFound is returned by Store implementations for absent keys.
	ErrKeyNotFound = errors.New("key not found")

	nowFunc = time.Now // mockable
)

// Store keys. The session is only ever written as a whole; a partial set of
// these keys is treated as no session at all.
const (
	keyRole         = "session.role"
	keySubjectID    = "session.subject_id"
	keyDepartmentID = "session.department_id"
	keyDisplayName  = "session.display_name"
	keyEmail        = "session.email"
	keyIssuedAt     = "session.issued_at"
	keyLastExit     = "session.last_exit"
)

var sessionKeys = []string{keyRole, keySubjectID, keyDepartmentID, keyDisplayName, keyEmail, keyIssuedAt}

type (
	// Store is the durable key/value medium behind the session. SetAll must
	// be atomic: it either writes every pair or leaves prior state untouched.
	Store interface {
		Get(key string) (string, error)
		SetAll(values map[string]string) error
		Clear(keys ...string) error
	}

	// Authenticator is the slice of the gateway the session service needs.
	Authenticator interface {
		StudentLogin(ctx context.Context, email, password string) (*gateway.StudentLoginResult, error)
		TeacherLogin(ctx context.Context, email, password string) (*gateway.TeacherLoginResult, error)
		AdminLogin(ctx context.Context, username, password string) (*gateway.AdminLoginResult, error)
	}

	// Service owns the session lifecycle. It is the sole writer of the Store;
	// every other component reads through Current.
	Service struct {
		mu    sync.Mutex
		store Store
		auth  Authenticator
		log   core.Logger
	}
)

func NewService(store Store, auth Authenticator, logger core.Logger) *Service {
	return &Service{store: store, auth: auth, log: logger}
}

// AuthError is a sign-in failure the user can act on (bad credentials, role
// mismatch, unreachable backend). Stored session state is never modified
// when one is returned.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// SignIn authenticates against the backend for the given role and, on
// success, persists the resulting session in one atomic write.
func (s *Service) SignIn(ctx context.Context, role Role, creds Credentials) (Session, error) {
	if !role.Valid() {
		return Session{}, ErrUnknownRole
	}
	if err := creds.Validate(role); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.current(); ok {
		s.log.Debug(fmt.Sprintf("sign-in refused: %s session already active", cur.Role))
		return Session{}, ErrSessionExists
	}

	sess, err := s.login(ctx, role, creds)
	if err != nil {
		return Session{}, err
	}
	sess.IssuedAt = nowFunc().UTC()

	if err := s.store.SetAll(sessionValues(sess)); err != nil {
		return Session{}, err
	}
	// a fresh session supersedes any stale exit marker
	if err := s.store.Clear(keyLastExit); err != nil {
		s.log.Warn(fmt.Sprintf("clearing exit marker: %v", err))
	}
	s.log.Info(fmt.Sprintf("signed in as %s (%s)", sess.DisplayName, sess.Role))
	return sess, nil
}

func (s *Service) login(ctx context.Context, role Role, creds Credentials) (Session, error) {
	switch role {
	case RoleStudent:
		res, err := s.auth.StudentLogin(ctx, creds.Email, creds.Password)
		if err != nil {
			return Session{}, authError(err)
		}
		return Session{
			Role:        RoleStudent,
			SubjectID:   res.StudentID,
			DisplayName: res.Name,
			Email:       res.Email,
		}, nil

	case RoleTeacher, RoleHOD:
		res, err := s.auth.TeacherLogin(ctx, creds.Email, creds.Password)
		if err != nil {
			return Session{}, authError(err)
		}
		// The backend decides who is head of department; selecting the HOD
		// portal with a plain teacher account is a rejection, not a downgrade.
		actual := RoleTeacher
		if res.Role == "HOD" {
			actual = RoleHOD
		}
		if role == RoleHOD && actual != RoleHOD {
			return Session{}, &AuthError{Message: "not a head of department"}
		}
		return Session{
			Role:         actual,
			SubjectID:    res.TeacherID,
			DepartmentID: res.DepartmentID,
			DisplayName:  res.Name,
			Email:        res.Email,
		}, nil

	case RoleAdmin:
		res, err := s.auth.AdminLogin(ctx, creds.Username, creds.Password)
		if err != nil {
			return Session{}, authError(err)
		}
		return Session{
			Role:        RoleAdmin,
			SubjectID:   res.UserID,
			DisplayName: res.Username,
		}, nil
	}
	return Session{}, ErrUnknownRole
}

func authError(err error) error {
	switch gateway.KindOf(err) {
	case gateway.KindAuthRejected:
		return &AuthError{Message: messageOf(err, "invalid credentials"), Err: err}
	case gateway.KindNetwork:
		return &AuthError{Message: "could not reach the server", Err: err}
	case gateway.KindServerError, gateway.KindMalformedResponse:
		return &AuthError{Message: messageOf(err, "sign-in failed"), Err: err}
	}
	return err
}

func messageOf(err error, fallback string) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}

// Current reads the persisted session. It never touches the network and is
// cheap enough to call on every screen focus.
func (s *Service) Current() (Session, bool) {
	return s.current()
}

func (s *Service) current() (Session, bool) {
	values := make(map[string]string, len(sessionKeys))
	for _, key := range sessionKeys {
		val, err := s.store.Get(key)
		if err != nil {
			if key == keyDepartmentID {
				continue // absent for students and admins
			}
			return Session{}, false
		}
		values[key] = val
	}

	role, err := ParseRole(values[keyRole])
	if err != nil {
		return Session{}, false
	}
	subjectID, err := strconv.Atoi(values[keySubjectID])
	if err != nil {
		return Session{}, false
	}
	issuedAt, err := time.Parse(time.RFC3339, values[keyIssuedAt])
	if err != nil {
		return Session{}, false
	}
	sess := Session{
		Role:        role,
		SubjectID:   subjectID,
		DisplayName: values[keyDisplayName],
		Email:       values[keyEmail],
		IssuedAt:    issuedAt,
	}
	if dept, ok := values[keyDepartmentID]; ok {
		if sess.DepartmentID, err = strconv.Atoi(dept); err != nil {
			return Session{}, false
		}
	}
	return sess, true
}

// SignOut clears the session. Safe to call when none exists.
func (s *Service) SignOut() error {
	return s.clear(ExitSignedOut)
}

// Invalidate terminates the session after the backend rejected its
// identifier. It behaves like SignOut but records a distinguishable exit
// marker for UX.
func (s *Service) Invalidate(reason string) error {
	s.log.Warn(fmt.Sprintf("session invalidated: %s", reason))
	return s.clear(ExitExpired)
}

func (s *Service) clear(exit ExitReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(sessionKeys...); err != nil {
		return err
	}
	return s.store.SetAll(map[string]string{keyLastExit: string(exit)})
}

// LastExit reports how the previous session ended, if a marker is present.
func (s *Service) LastExit() (ExitReason, bool) {
	val, err := s.store.Get(keyLastExit)
	if err != nil {
		return "", false
	}
	return ExitReason(val), true
}

func sessionValues(sess Session) map[string]string {
	values := map[string]string{
		keyRole:        string(sess.Role),
		keySubjectID:   strconv.Itoa(sess.SubjectID),
		keyDisplayName: sess.DisplayName,
		keyEmail:       sess.Email,
		keyIssuedAt:    sess.IssuedAt.Format(time.RFC3339),
	}
	if sess.DepartmentID > 0 {
		values[keyDepartmentID] = strconv.Itoa(sess.DepartmentID)
	}
	return values
}
