package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pcasconnect/campus/core/dashboard"
	"github.com/pcasconnect/campus/gateway"
)

func newDashboardCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Load and render the dashboard for the signed-in role",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := app.sessions.Current()
			if !ok {
				return errors.New("not signed in; run login first")
			}

			view, err := app.dash.Load(cmd.Context(), sess)
			if err != nil {
				if errors.Is(err, dashboard.ErrSessionInvalidated) {
					return errors.New("the server no longer recognizes this session; sign in again")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s dashboard for %s\n", view.Role, sess.DisplayName)
			for _, name := range sliceOrder(view) {
				renderSlice(out, view.Slices[name])
			}
			return nil
		},
	}
}

// sliceOrder keeps the rendering stable across runs.
func sliceOrder(view dashboard.View) []string {
	names := make([]string, 0, len(view.Slices))
	for name := range view.Slices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderSlice(out io.Writer, slice dashboard.Slice) {
	if !slice.Populated() {
		fmt.Fprintf(out, "\n[%s] unavailable (%s)\n", slice.Name, slice.Reason())
		return
	}
	fmt.Fprintf(out, "\n[%s]\n", slice.Name)

	switch data := slice.Data.(type) {
	case *gateway.StudentProfile:
		fmt.Fprintf(out, "  %s, %s semester %d\n", data.StudentName, data.Department, data.Semester)
		fmt.Fprintf(out, "  average attendance: %.1f%%\n", data.AverageAttendance)
		for _, sub := range data.Subjects {
			fmt.Fprintf(out, "  - %-28s %5.1f%%\n", sub.SubjectName, sub.AttendancePercentage)
		}

	case *gateway.TodayAttendance:
		fmt.Fprintf(out, "  %s: %d present, %d absent\n", data.Date, data.Present, data.Absent)
		for _, p := range data.Periods {
			fmt.Fprintf(out, "  - period %d %-24s %s\n", p.Period, p.Subject, p.Status)
		}

	case *gateway.MonthlyAttendance:
		fmt.Fprintf(out, "  %d-%02d: %d/%d classes (%.1f%%)\n",
			data.Year, data.Month, data.Attended, data.TotalClasses, data.Percentage)

	case gateway.Timetable:
		for _, day := range []string{"MON", "TUE", "WED", "THU", "FRI", "SAT"} {
			entries, ok := data[day]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "  %s\n", day)
			for _, e := range entries {
				fmt.Fprintf(out, "  - p%d %s-%s %s\n", e.Period.Number, e.Period.StartTime, e.Period.EndTime, e.Subject.Name)
			}
		}

	case []gateway.TimetableEntry:
		for _, e := range data {
			fmt.Fprintf(out, "  - p%d %s-%s %s (sem %d)\n",
				e.Period.Number, e.Period.StartTime, e.Period.EndTime, e.Subject.Name, e.Subject.Semester)
		}

	case *gateway.TeacherDashboard:
		fmt.Fprintf(out, "  %s, %s\n", data.Teacher, data.Department)
		fmt.Fprintf(out, "  subjects: %d, classes today: %d, pending attendance: %d\n",
			data.TotalSubjects, data.ClassesToday, data.PendingAttendance)

	case *gateway.TeacherSubjects:
		for _, sub := range data.Subjects {
			fmt.Fprintf(out, "  - %s (%s, sem %d)\n", sub.Name, sub.Code, sub.Semester)
		}

	case *gateway.TeacherTodayStatus:
		fmt.Fprintf(out, "  %d periods today, %d pending\n", data.TotalPeriodsToday, len(data.PendingPeriods))
		for _, p := range data.PendingPeriods {
			fmt.Fprintf(out, "  - pending: period %d %s\n", p.Number, p.Subject)
		}

	case *gateway.HODDashboard:
		fmt.Fprintf(out, "  %s: %d students, %d teachers, %d subjects\n",
			data.Department, data.TotalStudents, data.TotalTeachers, data.TotalSubjects)
		fmt.Fprintf(out, "  today's attendance: %.1f%%\n", data.TodayAttendancePercent)

	case []gateway.DepartmentStudent:
		for _, st := range data {
			fmt.Fprintf(out, "  - %-24s %s (sem %d)\n", st.Name, st.RegNo, st.Semester)
		}

	case []gateway.Announcement:
		for _, a := range data {
			fmt.Fprintf(out, "  - %s (%s, %s): %s\n", a.Title, a.PostedBy, a.Audience, a.Content)
		}

	case []gateway.DepartmentTeacher:
		for _, t := range data {
			fmt.Fprintf(out, "  - %-24s %s\n", t.Name, t.Email)
		}

	case *gateway.AdminStats:
		fmt.Fprintf(out, "  students: %d, teachers: %d, departments: %d, subjects: %d\n",
			data.Students, data.Teachers, data.Departments, data.Subjects)

	case []gateway.Department:
		for _, d := range data {
			fmt.Fprintf(out, "  - %d %s\n", d.ID, d.Name)
		}

	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("  ", "  ")
		_ = enc.Encode(data)
	}
}
