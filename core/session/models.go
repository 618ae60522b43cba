package session

import (
	"time"

	"github.com/pcasconnect/campus/core"
)

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleHOD     Role = "hod"
	RoleAdmin   Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleHOD, RoleAdmin}

type Role string

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole maps user input or a stored value to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(core.CleanString(s, true /* lower */))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Session is the client's record of who is authenticated and in what role.
// It is either fully absent or fully populated for its role; the role never
// changes for the lifetime of a session.
type Session struct {
	Role         Role
	SubjectID    int // student id, teacher id or admin user id
	DepartmentID int // teachers and HODs only
	DisplayName  string
	Email        string
	IssuedAt     time.Time
}

// IsZero reports whether no session is present.
func (s Session) IsZero() bool { return s.Role == "" }

// Credentials is the sign-in input. Students and teachers authenticate by
// email, admins by username.
type Credentials struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// Validate normalizes and checks the credentials for the given role before
// any network call is made.
func (c *Credentials) Validate(role Role) error {
	c.Email = core.CleanString(c.Email, true)
	c.Username = core.CleanString(c.Username, true)

	if err := core.Validate.Struct(c); err != nil {
		return err
	}
	switch role {
	case RoleAdmin:
		if c.Username == "" {
			return core.NewValidationError(ErrMissingCredentials, core.FieldError{Field: "username", Error: "this field is required"})
		}
	default:
		if c.Email == "" {
			return core.NewValidationError(ErrMissingCredentials, core.FieldError{Field: "email", Error: "this field is required"})
		}
	}
	return nil
}

// ExitReason distinguishes a user-initiated sign-out from a forced
// invalidation so a later screen can say "session expired" instead of
// silently showing the login form.
type ExitReason string

const (
	ExitSignedOut ExitReason = "signed_out"
	ExitExpired   ExitReason = "expired"
)
