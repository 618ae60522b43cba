package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/gateway"
)

// fakeGateway returns canned data for every slice and an error for the
// methods listed in fail.
type fakeGateway struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func (g *fakeGateway) failWith(method string) error {
	g.mu.Lock()
	g.calls = append(g.calls, method)
	err := g.fail[method]
	g.mu.Unlock()
	return err
}

func (g *fakeGateway) called(method string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		if c == method {
			return true
		}
	}
	return false
}

func (g *fakeGateway) StudentProfile(ctx context.Context, id int) (*gateway.StudentProfile, error) {
	if err := g.failWith("StudentProfile"); err != nil {
		return nil, err
	}
	return &gateway.StudentProfile{StudentName: "Asha Nair", Semester: 3}, nil
}

func (g *fakeGateway) TodayAttendance(ctx context.Context, id int) (*gateway.TodayAttendance, error) {
	if err := g.failWith("TodayAttendance"); err != nil {
		return nil, err
	}
	return &gateway.TodayAttendance{Present: 3, Absent: 1}, nil
}

func (g *fakeGateway) MonthlyAttendance(ctx context.Context, id, year, month int) (*gateway.MonthlyAttendance, error) {
	if err := g.failWith("MonthlyAttendance"); err != nil {
		return nil, err
	}
	return &gateway.MonthlyAttendance{Year: year, Month: month, Percentage: 85}, nil
}

func (g *fakeGateway) StudentTimetable(ctx context.Context, id int) (gateway.Timetable, error) {
	if err := g.failWith("StudentTimetable"); err != nil {
		return nil, err
	}
	return gateway.Timetable{"MON": nil}, nil
}

func (g *fakeGateway) TeacherDashboard(ctx context.Context, id int) (*gateway.TeacherDashboard, error) {
	if err := g.failWith("TeacherDashboard"); err != nil {
		return nil, err
	}
	return &gateway.TeacherDashboard{Teacher: "Priya"}, nil
}

func (g *fakeGateway) TeacherSubjects(ctx context.Context, id int) (*gateway.TeacherSubjects, error) {
	if err := g.failWith("TeacherSubjects"); err != nil {
		return nil, err
	}
	return &gateway.TeacherSubjects{Teacher: "Priya"}, nil
}

func (g *fakeGateway) TeacherTodayTimetable(ctx context.Context, id int) ([]gateway.TimetableEntry, error) {
	if err := g.failWith("TeacherTodayTimetable"); err != nil {
		return nil, err
	}
	return []gateway.TimetableEntry{}, nil
}

func (g *fakeGateway) TeacherTodayStatus(ctx context.Context, id int) (*gateway.TeacherTodayStatus, error) {
	if err := g.failWith("TeacherTodayStatus"); err != nil {
		return nil, err
	}
	return &gateway.TeacherTodayStatus{}, nil
}

func (g *fakeGateway) HODStats(ctx context.Context, id int) (*gateway.HODDashboard, error) {
	if err := g.failWith("HODStats"); err != nil {
		return nil, err
	}
	return &gateway.HODDashboard{}, nil
}

func (g *fakeGateway) HODDashboard(ctx context.Context, id int) (*gateway.HODDashboard, error) {
	if err := g.failWith("HODDashboard"); err != nil {
		return nil, err
	}
	return &gateway.HODDashboard{}, nil
}

func (g *fakeGateway) HODStudents(ctx context.Context, dept int) ([]gateway.DepartmentStudent, error) {
	if err := g.failWith("HODStudents"); err != nil {
		return nil, err
	}
	return []gateway.DepartmentStudent{}, nil
}

func (g *fakeGateway) HODAnnouncements(ctx context.Context, dept int) ([]gateway.Announcement, error) {
	if err := g.failWith("HODAnnouncements"); err != nil {
		return nil, err
	}
	return []gateway.Announcement{}, nil
}

func (g *fakeGateway) HODTeachers(ctx context.Context, dept int) ([]gateway.DepartmentTeacher, error) {
	if err := g.failWith("HODTeachers"); err != nil {
		return nil, err
	}
	return []gateway.DepartmentTeacher{}, nil
}

func (g *fakeGateway) AdminStats(ctx context.Context) (*gateway.AdminStats, error) {
	if err := g.failWith("AdminStats"); err != nil {
		return nil, err
	}
	return &gateway.AdminStats{Students: 3}, nil
}

func (g *fakeGateway) Departments(ctx context.Context) ([]gateway.Department, error) {
	if err := g.failWith("Departments"); err != nil {
		return nil, err
	}
	return []gateway.Department{{ID: 1, Name: "CS"}}, nil
}

type fakeInvalidator struct {
	mu      sync.Mutex
	reasons []string
}

func (i *fakeInvalidator) Invalidate(reason string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.reasons = append(i.reasons, reason)
	return nil
}

func (i *fakeInvalidator) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.reasons)
}

var (
	studentSess = session.Session{Role: session.RoleStudent, SubjectID: 7, DisplayName: "Asha"}
	teacherSess = session.Session{Role: session.RoleTeacher, SubjectID: 2, DepartmentID: 1}
	hodSess     = session.Session{Role: session.RoleHOD, SubjectID: 1, DepartmentID: 1}
	adminSess   = session.Session{Role: session.RoleAdmin, SubjectID: 1}
)

func newTestService(gw Gateway, inv Invalidator) *Service {
	return NewService(gw, inv, core.NopLogger{})
}

func TestService_Load_noSession(t *testing.T) {
	svc := newTestService(&fakeGateway{}, &fakeInvalidator{})
	if _, err := svc.Load(context.Background(), session.Session{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load() error = %v, want ErrNoSession", err)
	}
}

func TestService_Load_allSlicesPopulated(t *testing.T) {
	tests := []struct {
		name   string
		sess   session.Session
		slices []string
	}{
		{name: "student", sess: studentSess, slices: []string{SliceProfile, SliceToday, SliceMonthly, SliceTimetable}},
		{name: "teacher", sess: teacherSess, slices: []string{SliceDashboard, SliceSubjects, SliceTimetable, SliceStatus}},
		{name: "hod", sess: hodSess, slices: []string{SliceStats, SliceDashboard, SliceStudents, SliceTeachers, SliceAnnouncements}},
		{name: "admin", sess: adminSess, slices: []string{SliceStats, SliceDepartments}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeGateway{}, &fakeInvalidator{})
			view, err := svc.Load(context.Background(), tt.sess)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if view.Role != tt.sess.Role {
				t.Errorf("View.Role = %s, want %s", view.Role, tt.sess.Role)
			}
			if len(view.Slices) != len(tt.slices) {
				t.Fatalf("got %d slices, want %d", len(view.Slices), len(tt.slices))
			}
			for _, name := range tt.slices {
				slice, ok := view.Slices[name]
				if !ok {
					t.Fatalf("slice %q missing", name)
				}
				if !slice.Populated() {
					t.Errorf("slice %q unavailable: %v", name, slice.Err)
				}
			}
			if unavailable := view.Unavailable(); len(unavailable) != 0 {
				t.Errorf("Unavailable() = %v, want none", unavailable)
			}
		})
	}
}

func TestService_Load_partialFailure(t *testing.T) {
	gw := &fakeGateway{fail: map[string]error{
		"MonthlyAttendance": &gateway.Error{Kind: gateway.KindNetwork, Message: "connection refused"},
	}}
	inv := &fakeInvalidator{}
	svc := newTestService(gw, inv)

	view, err := svc.Load(context.Background(), studentSess)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !view.Renderable() {
		t.Error("view with three healthy slices reported unrenderable")
	}
	monthly := view.Slices[SliceMonthly]
	if monthly.Populated() {
		t.Fatal("failed slice reported populated")
	}
	if monthly.Reason() != gateway.KindNetwork {
		t.Errorf("Reason() = %v, want KindNetwork", monthly.Reason())
	}
	if monthly.Data != nil {
		t.Error("unavailable slice carries data")
	}
	for _, name := range []string{SliceProfile, SliceToday, SliceTimetable} {
		if !view.Slices[name].Populated() {
			t.Errorf("healthy slice %q unavailable", name)
		}
	}
	if inv.count() != 0 {
		t.Error("partial failure invalidated the session")
	}
}

func TestService_Load_everySliceFails(t *testing.T) {
	netErr := &gateway.Error{Kind: gateway.KindNetwork, Message: "offline"}
	gw := &fakeGateway{fail: map[string]error{
		"StudentProfile": netErr, "TodayAttendance": netErr,
		"MonthlyAttendance": netErr, "StudentTimetable": netErr,
	}}
	svc := newTestService(gw, &fakeInvalidator{})

	view, err := svc.Load(context.Background(), studentSess)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if view.Renderable() {
		t.Error("view with zero populated slices reported renderable")
	}
	if got := len(view.Unavailable()); got != 4 {
		t.Errorf("Unavailable() has %d entries, want 4", got)
	}
}

func TestService_Load_authRejectedInvalidates(t *testing.T) {
	gw := &fakeGateway{fail: map[string]error{
		"TeacherTodayTimetable": &gateway.Error{Kind: gateway.KindAuthRejected, StatusCode: 401, Message: "unknown teacher"},
	}}
	inv := &fakeInvalidator{}
	svc := newTestService(gw, inv)

	_, err := svc.Load(context.Background(), teacherSess)
	if !errors.Is(err, ErrSessionInvalidated) {
		t.Fatalf("Load() error = %v, want ErrSessionInvalidated", err)
	}
	if inv.count() != 1 {
		t.Errorf("Invalidate called %d times, want 1", inv.count())
	}
}

func TestService_Load_callerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // screen already gone

	inv := &fakeInvalidator{}
	svc := newTestService(&fakeGateway{}, inv)

	_, err := svc.Load(ctx, studentSess)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
	if inv.count() != 0 {
		t.Error("caller cancellation invalidated the session")
	}
}

func TestService_Load_monthlyUsesCurrentMonth(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	svc := newTestService(&fakeGateway{}, &fakeInvalidator{})
	view, err := svc.Load(context.Background(), studentSess)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	monthly, ok := view.Slices[SliceMonthly].Data.(*gateway.MonthlyAttendance)
	if !ok {
		t.Fatalf("monthly slice data is %T", view.Slices[SliceMonthly].Data)
	}
	if monthly.Year != 2026 || monthly.Month != 2 {
		t.Errorf("monthly fetched for %d-%d, want 2026-2", monthly.Year, monthly.Month)
	}
}

func TestService_Load_unclassifiedErrorDefaultsToNetwork(t *testing.T) {
	gw := &fakeGateway{fail: map[string]error{
		"Departments": errors.New("bare failure"),
	}}
	svc := newTestService(gw, &fakeInvalidator{})

	view, err := svc.Load(context.Background(), adminSess)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := view.Slices[SliceDepartments].Reason(); got != gateway.KindNetwork {
		t.Errorf("Reason() = %v, want KindNetwork", got)
	}
}
