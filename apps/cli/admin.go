package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/core/nav"
	"github.com/pcasconnect/campus/gateway"
)

func newAdminCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator operations",
	}
	cmd.AddCommand(
		newAdminStudentsCmd(app),
		newAdminTeachersCmd(app),
		newAdminAddCmd(app),
		newAdminReportCmd(app),
		newAdminResetPasswordCmd(app),
		newAdminPromoteCmd(app),
	)
	return cmd
}

func newAdminStudentsCmd(app *application) *cobra.Command {
	var (
		departmentID int
		semester     int
		search       string
	)
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			students, err := app.gw.StudentList(cmd.Context(), departmentID, semester, search)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, st := range students {
				fmt.Fprintf(out, "%4d  %-24s %-10s %s sem %d\n", st.ID, st.Name, st.RegisterNumber, st.Department, st.Semester)
			}
			fmt.Fprintf(out, "%d students\n", len(students))
			return nil
		},
	}
	cmd.Flags().IntVar(&departmentID, "department", 0, "filter by department id")
	cmd.Flags().IntVar(&semester, "semester", 0, "filter by semester")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or register number")
	return cmd
}

func newAdminTeachersCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "List teachers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			teachers, err := app.gw.TeacherList(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range teachers {
				hod := ""
				if t.IsHOD {
					hod = " (HOD)"
				}
				fmt.Fprintf(out, "%4d  %-24s %s%s\n", t.ID, t.Name, t.Department, hod)
			}
			return nil
		},
	}
}

func newAdminAddCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create students, teachers, departments and subjects",
	}

	var ns gateway.NewStudent
	addStudent := &cobra.Command{
		Use:   "student",
		Short: "Create a student account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			if err := core.Validate.Struct(ns); err != nil {
				return core.NewValidationError(err)
			}
			res, err := app.gw.AddStudent(cmd.Context(), ns)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	addStudent.Flags().StringVar(&ns.Name, "name", "", "full name")
	addStudent.Flags().StringVar(&ns.RegisterNumber, "register-number", "", "register number")
	addStudent.Flags().StringVar(&ns.Email, "email", "", "email address")
	addStudent.Flags().IntVar(&ns.DepartmentID, "department", 0, "department id")
	addStudent.Flags().IntVar(&ns.Semester, "semester", 1, "semester (1-8)")

	var nt gateway.NewTeacher
	addTeacher := &cobra.Command{
		Use:   "teacher",
		Short: "Create a teacher account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			if err := core.Validate.Struct(nt); err != nil {
				return core.NewValidationError(err)
			}
			res, err := app.gw.AddTeacher(cmd.Context(), nt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	addTeacher.Flags().StringVar(&nt.Name, "name", "", "full name")
	addTeacher.Flags().StringVar(&nt.Email, "email", "", "email address")
	addTeacher.Flags().IntVar(&nt.DepartmentID, "department", 0, "department id")
	addTeacher.Flags().BoolVar(&nt.IsHOD, "hod", false, "appoint as head of department")

	var nd gateway.NewDepartment
	addDepartment := &cobra.Command{
		Use:   "department",
		Short: "Create a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			if err := core.Validate.Struct(nd); err != nil {
				return core.NewValidationError(err)
			}
			res, err := app.gw.AddDepartment(cmd.Context(), nd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	addDepartment.Flags().StringVar(&nd.Name, "name", "", "department name")

	var nsub gateway.NewSubject
	addSubject := &cobra.Command{
		Use:   "subject",
		Short: "Create a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			if err := core.Validate.Struct(nsub); err != nil {
				return core.NewValidationError(err)
			}
			res, err := app.gw.AddSubject(cmd.Context(), nsub)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	addSubject.Flags().StringVar(&nsub.Name, "name", "", "subject name")
	addSubject.Flags().StringVar(&nsub.Code, "code", "", "subject code")
	addSubject.Flags().IntVar(&nsub.Credit, "credit", 0, "credits")
	addSubject.Flags().IntVar(&nsub.DepartmentID, "department", 0, "department id")
	addSubject.Flags().IntVar(&nsub.Semester, "semester", 1, "semester (1-8)")

	cmd.AddCommand(addStudent, addTeacher, addDepartment, addSubject)
	return cmd
}

func newAdminReportCmd(app *application) *cobra.Command {
	var (
		studentID    int
		departmentID int
		semester     int
		year         int
		month        int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Attendance reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if studentID > 0 {
				report, err := app.gw.StudentAttendanceReport(cmd.Context(), studentID, year, month)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s)\n", report.Student, report.RollNumber)
				s := report.MonthlySummary
				fmt.Fprintf(out, "%d-%02d: %d/%d classes (%.1f%%)\n", s.Year, s.Month, s.Attended, s.TotalClasses, s.Percentage)
				for _, rec := range report.DailyRecords {
					fmt.Fprintf(out, "  %s p%d %-24s %s\n", rec.Date, rec.Period, rec.Subject, rec.Status)
				}
				return nil
			}

			report, err := app.gw.SemesterAttendance(cmd.Context(), departmentID, semester, year, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d classes conducted\n", report.TotalClassesConducted)
			for _, st := range report.Students {
				fmt.Fprintf(out, "  %-24s %-10s %5.1f%%\n", st.Name, st.RegisterNumber, st.Percentage)
			}
			if len(report.LowAttendance) > 0 {
				fmt.Fprintf(out, "%d students below 75%%\n", len(report.LowAttendance))
			}
			fmt.Fprintf(out, "export: %s\n", app.gw.ExportSemesterAttendanceURL(departmentID, semester, year, month))
			return nil
		},
	}
	cmd.Flags().IntVar(&studentID, "student", 0, "single-student report for this id")
	cmd.Flags().IntVar(&departmentID, "department", 0, "department id (semester report)")
	cmd.Flags().IntVar(&semester, "semester", 0, "semester (semester report)")
	cmd.Flags().IntVar(&year, "year", 0, "year")
	cmd.Flags().IntVar(&month, "month", 0, "month (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newAdminResetPasswordCmd(app *application) *cobra.Command {
	var (
		studentID int
		teacherID int
	)
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Regenerate an account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			var (
				res *gateway.Message
				err error
			)
			switch {
			case studentID > 0:
				res, err = app.gw.ResetStudentPassword(cmd.Context(), studentID)
			case teacherID > 0:
				res, err = app.gw.ResetTeacherPassword(cmd.Context(), teacherID)
			default:
				return fmt.Errorf("pass --student or --teacher")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&studentID, "student", 0, "student id")
	cmd.Flags().IntVar(&teacherID, "teacher", 0, "teacher id")
	return cmd
}

func newAdminPromoteCmd(app *application) *cobra.Command {
	var (
		departmentID int
		semester     int
	)
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a department's semester (admin variant)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteAdminHome); err != nil {
				return err
			}
			res, err := app.gw.AdminPromoteStudents(cmd.Context(), departmentID, semester)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&departmentID, "department", 0, "department id")
	cmd.Flags().IntVar(&semester, "semester", 0, "current semester to promote from")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}
