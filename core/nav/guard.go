// Package nav decides which screen a client may land on given the current
// session. It is a pure routing policy: it never performs network calls and
// never mutates session state.
package nav

import (
	"github.com/pcasconnect/campus/core/session"
)

// Route identifies a navigable screen group.
type Route string

const (
	RouteLogin       Route = "login"
	RouteStudentHome Route = "student/home"
	RouteTeacherHome Route = "teacher/home"
	RouteHODHome     Route = "hod/home"
	RouteAdminHome   Route = "admin/home"
)

// routeRole maps each protected route to the one role allowed on it. Login
// is absent: it is the only public route.
var routeRole = map[Route]session.Role{
	RouteStudentHome: session.RoleStudent,
	RouteTeacherHome: session.RoleTeacher,
	RouteHODHome:     session.RoleHOD,
	RouteAdminHome:   session.RoleAdmin,
}

// Home returns the root route for a role.
func Home(role session.Role) Route {
	switch role {
	case session.RoleStudent:
		return RouteStudentHome
	case session.RoleTeacher:
		return RouteTeacherHome
	case session.RoleHOD:
		return RouteHODHome
	case session.RoleAdmin:
		return RouteAdminHome
	}
	return RouteLogin
}

type (
	// SessionReader is the read-only view of the session the guard consults.
	SessionReader interface {
		Current() (session.Session, bool)
	}

	// Guard evaluates routes against the persisted session. Checks are
	// idempotent; focusing the same screen twice yields the same decision.
	Guard struct {
		sessions SessionReader
	}

	// Decision is the outcome of a guard check: either stay, or redirect to
	// the indicated route.
	Decision struct {
		Allowed  bool
		Redirect Route
	}
)

func NewGuard(sessions SessionReader) *Guard {
	return &Guard{sessions: sessions}
}

func stay() Decision             { return Decision{Allowed: true} }
func redirect(to Route) Decision { return Decision{Redirect: to} }

// EntryRoute picks the screen to show on app start: the session role's home
// when one is persisted, the login screen otherwise.
func (g *Guard) EntryRoute() Route {
	sess, ok := g.sessions.Current()
	if !ok {
		return RouteLogin
	}
	return Home(sess.Role)
}

// Check evaluates a screen focus. An authenticated user focusing the login
// screen is sent home; a user focusing another role's screens is sent to
// their own home, never signed out.
func (g *Guard) Check(route Route) Decision {
	sess, ok := g.sessions.Current()

	if route == RouteLogin {
		if ok {
			return redirect(Home(sess.Role))
		}
		return stay()
	}

	if !ok {
		return redirect(RouteLogin)
	}

	required, known := routeRole[route]
	if !known {
		// Unknown routes fall back to the session's home rather than a
		// dead end.
		return redirect(Home(sess.Role))
	}
	if sess.Role != required {
		return redirect(Home(sess.Role))
	}
	return stay()
}
