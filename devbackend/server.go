// Package devbackend is a self-contained stand-in for the campus REST
// backend. It serves the same endpoints and payload shapes from seeded
// in-memory data, so the client and its CLI can be exercised without a
// running deployment.
package devbackend

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pcasconnect/campus/core"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		data *fixtures
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		data: seed(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if s.opts.Conf == nil || !(s.opts.Conf.Debug || s.opts.Conf.TestMode) {
		s.app.Use(middleware.Recover())
	}
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")

	st := api.Group("/student")
	st.POST("/login", s.studentLogin)
	st.GET("/:id/dashboard", s.studentDashboard)
	st.GET("/:id/attendance/today", s.studentToday)
	st.GET("/:id/attendance/monthly/:year/:month", s.studentMonthly)
	st.GET("/:id/timetable", s.studentTimetable)
	api.GET("/subjects/:dept/:sem", s.semesterSubjects)

	te := api.Group("/teacher")
	te.POST("/login", s.teacherLogin)
	te.GET("/dashboard/teacher/:id", s.teacherDashboard)
	te.GET("/dashboard/hod/:id", s.hodDashboard)
	te.GET("/:id/subjects", s.teacherSubjects)
	te.GET("/:id/timetable/today", s.teacherTodayTimetable)
	te.GET("/:id/today-status", s.teacherTodayStatus)
	te.GET("/:id/attendance/monthly/:year/:month", s.teacherMonthlyStats)
	te.GET("/subject/:id/students", s.subjectStudents)
	te.POST("/attendance/mark", s.markAttendance)
	te.GET("/hod/stats/:id", s.hodDashboard)
	te.GET("/hod/students/:dept", s.hodStudents)
	te.GET("/hod/teachers/:dept", s.hodTeachers)
	te.GET("/hod/announcements/:dept", s.hodAnnouncements)
	te.POST("/hod/promote", s.promoteStudents)
	te.POST("/hod/assign-teacher", s.assignTeacher)
	te.POST("/hod/announcement", s.postAnnouncement)
	te.POST("/hod/timetable", s.upsertTimetable)

	ad := api.Group("/admin")
	ad.POST("/login", s.adminLogin)
	ad.GET("/dashboard/stats", s.adminStats)
	ad.GET("/utils/departments", s.departments)
	ad.GET("/search/students", s.searchStudents)
	ad.GET("/student/:id/attendance/:year/:month", s.studentReport)
	ad.GET("/attendance/semester/:dept/:sem/:year/:month", s.semesterAttendance)
	ad.POST("/add/student", s.addStudent)
	ad.POST("/add/teacher", s.addTeacher)
	ad.POST("/add/department", s.addDepartment)
	ad.POST("/add/subject", s.addSubject)
	ad.POST("/promote/students", s.promoteStudents)
	ad.GET("/students/list", s.studentList)
	ad.GET("/student/:id", s.studentDetails)
	ad.PUT("/student/:id", s.updateStudent)
	ad.DELETE("/student/:id", s.deleteStudent)
	ad.POST("/student/:id/reset-password", s.resetStudentPassword)
	ad.GET("/teachers/list", s.teacherList)
	ad.GET("/teacher/:id", s.teacherDetails)
	ad.PUT("/teacher/:id", s.updateTeacher)
	ad.DELETE("/teacher/:id", s.deleteTeacher)
	ad.POST("/teacher/:id/reset-password", s.resetTeacherPassword)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "PCAS Connect dev backend")
}

func errorJSON(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, map[string]string{"error": msg})
}
