package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/gateway"
)

var (
	// errors
	ErrNoSession          = errors.New("no session")
	ErrSessionInvalidated = errors.New("session invalidated; reauthenticate")

	nowFunc = time.Now // mockable
)

type (
	// Gateway is the slice of the endpoint client the aggregator reads from.
	Gateway interface {
		StudentProfile(ctx context.Context, studentID int) (*gateway.StudentProfile, error)
		TodayAttendance(ctx context.Context, studentID int) (*gateway.TodayAttendance, error)
		MonthlyAttendance(ctx context.Context, studentID, year, month int) (*gateway.MonthlyAttendance, error)
		StudentTimetable(ctx context.Context, studentID int) (gateway.Timetable, error)

		TeacherDashboard(ctx context.Context, teacherID int) (*gateway.TeacherDashboard, error)
		TeacherSubjects(ctx context.Context, teacherID int) (*gateway.TeacherSubjects, error)
		TeacherTodayTimetable(ctx context.Context, teacherID int) ([]gateway.TimetableEntry, error)
		TeacherTodayStatus(ctx context.Context, teacherID int) (*gateway.TeacherTodayStatus, error)

		HODStats(ctx context.Context, teacherID int) (*gateway.HODDashboard, error)
		HODDashboard(ctx context.Context, teacherID int) (*gateway.HODDashboard, error)
		HODStudents(ctx context.Context, departmentID int) ([]gateway.DepartmentStudent, error)
		HODTeachers(ctx context.Context, departmentID int) ([]gateway.DepartmentTeacher, error)
		HODAnnouncements(ctx context.Context, departmentID int) ([]gateway.Announcement, error)

		AdminStats(ctx context.Context) (*gateway.AdminStats, error)
		Departments(ctx context.Context) ([]gateway.Department, error)
	}

	// Invalidator is the one session operation the aggregator may trigger.
	Invalidator interface {
		Invalidate(reason string) error
	}

	// Service assembles a role-specific dashboard view by fanning out to the
	// gateway and joining the results. One slice failing never cancels or
	// blocks the others; only an authentication rejection aborts the load.
	Service struct {
		gw       Gateway
		sessions Invalidator
		log      core.Logger
	}
)

func NewService(gw Gateway, sessions Invalidator, logger core.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, log: logger}
}

type fetcher struct {
	name  string
	fetch func(ctx context.Context) (interface{}, error)
}

type sliceResult struct {
	name string
	data interface{}
	err  error
}

// Load issues all of the role's slice calls before awaiting any, waits for
// every one to settle and merges them into one View. Per-slice failures
// become unavailable markers; an AuthRejected on any slice invalidates the
// session and returns ErrSessionInvalidated instead of a misleading partial
// view.
func (svc *Service) Load(ctx context.Context, sess session.Session) (View, error) {
	if sess.IsZero() {
		return View{}, ErrNoSession
	}

	fetchers := svc.fetchers(sess)

	// Child context so an auth rejection can abandon the remaining calls
	// early; their results are discarded either way.
	fanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]sliceResult, len(fetchers))
	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f fetcher) {
			defer wg.Done()
			data, err := f.fetch(fanCtx)
			results[i] = sliceResult{name: f.name, data: data, err: err}
			if gateway.IsAuthRejected(err) {
				cancel()
			}
		}(i, f)
	}
	wg.Wait()

	// The initiating screen is gone: discard everything, mutate nothing.
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	for _, r := range results {
		if gateway.IsAuthRejected(r.err) {
			reason := fmt.Sprintf("%q slice rejected for %s %d", r.name, sess.Role, sess.SubjectID)
			if err := svc.sessions.Invalidate(reason); err != nil {
				svc.log.Error(fmt.Sprintf("invalidating session: %v", err), err)
			}
			return View{}, ErrSessionInvalidated
		}
	}

	view := View{Role: sess.Role, Slices: make(map[string]Slice, len(results))}
	for _, r := range results {
		slice := Slice{Name: r.name, Data: r.data}
		if r.err != nil {
			slice.Data = nil
			slice.Err = classify(r.err)
			svc.log.Warn(fmt.Sprintf("dashboard slice %q unavailable: %v", r.name, r.err))
		}
		view.Slices[r.name] = slice
	}
	return view, nil
}

// classify guarantees every unavailable marker carries a gateway
// classification, even for errors that somehow bypassed the gateway.
func classify(err error) *gateway.Error {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &gateway.Error{Kind: gateway.KindNetwork, Message: err.Error(), Err: err}
}

// fetchers returns the fixed slice set for the session's role. Slices are
// read-only and target disjoint data, so no ordering is imposed.
func (svc *Service) fetchers(sess session.Session) []fetcher {
	id := sess.SubjectID
	switch sess.Role {
	case session.RoleStudent:
		now := nowFunc()
		year, month := now.Year(), int(now.Month())
		return []fetcher{
			{SliceProfile, func(ctx context.Context) (interface{}, error) { return svc.gw.StudentProfile(ctx, id) }},
			{SliceToday, func(ctx context.Context) (interface{}, error) { return svc.gw.TodayAttendance(ctx, id) }},
			{SliceMonthly, func(ctx context.Context) (interface{}, error) {
				return svc.gw.MonthlyAttendance(ctx, id, year, month)
			}},
			{SliceTimetable, func(ctx context.Context) (interface{}, error) { return svc.gw.StudentTimetable(ctx, id) }},
		}

	case session.RoleTeacher:
		return []fetcher{
			{SliceDashboard, func(ctx context.Context) (interface{}, error) { return svc.gw.TeacherDashboard(ctx, id) }},
			{SliceSubjects, func(ctx context.Context) (interface{}, error) { return svc.gw.TeacherSubjects(ctx, id) }},
			{SliceTimetable, func(ctx context.Context) (interface{}, error) { return svc.gw.TeacherTodayTimetable(ctx, id) }},
			{SliceStatus, func(ctx context.Context) (interface{}, error) { return svc.gw.TeacherTodayStatus(ctx, id) }},
		}

	case session.RoleHOD:
		dept := sess.DepartmentID
		return []fetcher{
			{SliceStats, func(ctx context.Context) (interface{}, error) { return svc.gw.HODStats(ctx, id) }},
			{SliceDashboard, func(ctx context.Context) (interface{}, error) { return svc.gw.HODDashboard(ctx, id) }},
			{SliceStudents, func(ctx context.Context) (interface{}, error) { return svc.gw.HODStudents(ctx, dept) }},
			{SliceTeachers, func(ctx context.Context) (interface{}, error) { return svc.gw.HODTeachers(ctx, dept) }},
			{SliceAnnouncements, func(ctx context.Context) (interface{}, error) { return svc.gw.HODAnnouncements(ctx, dept) }},
		}

	case session.RoleAdmin:
		return []fetcher{
			{SliceStats, func(ctx context.Context) (interface{}, error) { return svc.gw.AdminStats(ctx) }},
			{SliceDepartments, func(ctx context.Context) (interface{}, error) { return svc.gw.Departments(ctx) }},
		}
	}
	return nil
}
