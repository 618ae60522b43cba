package dashboard

import (
	"sort"

	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/gateway"
)

// Slice names, one per independently-fetched piece of a dashboard.
const (
	SliceProfile       = "profile"
	SliceToday         = "today"
	SliceMonthly       = "monthly"
	SliceTimetable     = "timetable"
	SliceSubjects      = "subjects"
	SliceDashboard     = "dashboard"
	SliceStatus        = "status"
	SliceStats         = "stats"
	SliceStudents      = "students"
	SliceTeachers      = "teachers"
	SliceAnnouncements = "announcements"
	SliceDepartments   = "departments"
)

// Slice is one fetched piece of the view: either populated Data or an
// unavailable marker carrying the classified failure.
type Slice struct {
	Name string
	Data interface{}
	Err  *gateway.Error
}

func (s Slice) Populated() bool { return s.Err == nil }

// Reason returns the failure classification of an unavailable slice.
func (s Slice) Reason() gateway.Kind {
	if s.Err == nil {
		return 0
	}
	return s.Err.Kind
}

// View is the merged, per-role result of one aggregation fan-out. It is
// recomputed on every load and never persisted.
type View struct {
	Role   session.Role
	Slices map[string]Slice
}

// Renderable reports whether at least one slice is populated. A view is
// never discarded wholesale because some slices failed.
func (v View) Renderable() bool {
	for _, s := range v.Slices {
		if s.Populated() {
			return true
		}
	}
	return false
}

// Unavailable lists the failed slice names, sorted for stable output.
func (v View) Unavailable() []string {
	var names []string
	for name, s := range v.Slices {
		if !s.Populated() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
