package devbackend

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pcasconnect/campus/gateway"
)

func (s *server) teacherLogin(ctx echo.Context) error {
	var body loginBody
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByEmail(body.Email)
	if t == nil || !s.data.checkPassword(t.PasswordHash, body.Password) {
		return errorJSON(ctx, http.StatusUnauthorized, "Invalid email or password")
	}
	role := "TEACHER"
	if t.IsHOD {
		role = "HOD"
	}
	return ctx.JSON(http.StatusOK, gateway.TeacherLoginResult{
		Message:      "Login successful",
		Role:         role,
		TeacherID:    t.ID,
		Name:         t.Name,
		Email:        t.Email,
		Department:   s.data.departmentName(t.DepartmentID),
		DepartmentID: t.DepartmentID,
	})
}

func (s *server) teacherDashboard(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	return ctx.JSON(http.StatusOK, gateway.TeacherDashboard{
		Teacher:           t.Name,
		Department:        s.data.departmentName(t.DepartmentID),
		TotalSubjects:     len(s.data.assignments[t.ID]),
		ClassesToday:      len(s.data.assignments[t.ID]),
		PendingAttendance: 1,
		MonthlyAvgMarked:  92.5,
	})
}

func (s *server) teacherSubjects(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	res := gateway.TeacherSubjects{Teacher: t.Name, Subjects: []gateway.Subject{}}
	for _, subID := range s.data.assignments[t.ID] {
		res.Subjects = append(res.Subjects, s.data.subjects[subID])
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) todayPeriods(t *teacher) []gateway.TodayPeriod {
	var periods []gateway.TodayPeriod
	for i, subID := range s.data.assignments[t.ID] {
		sub := s.data.subjects[subID]
		key := fmt.Sprintf("%d/%d/2026-08-31", i+1, subID)
		periods = append(periods, gateway.TodayPeriod{
			PeriodID:       i + 1,
			Number:         i + 1,
			SubjectID:      sub.ID,
			Subject:        sub.Name,
			Semester:       sub.Semester,
			AttendanceDone: len(s.data.marked[key]) > 0,
		})
	}
	return periods
}

func (s *server) teacherTodayTimetable(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	entries := []gateway.TimetableEntry{}
	for i, subID := range s.data.assignments[t.ID] {
		entries = append(entries, gateway.TimetableEntry{
			ID:          i + 1,
			Day:         "MON",
			Period:      gateway.Period{ID: i + 1, Number: i + 1, StartTime: "09:00", EndTime: "09:50"},
			Subject:     s.data.subjects[subID],
			TeacherName: t.Name,
		})
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (s *server) teacherMonthlyStats(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	year, _ := strconv.Atoi(ctx.Param("year"))
	month, _ := strconv.Atoi(ctx.Param("month"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	if month < 1 || month > 12 {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid month")
	}
	total := 20 * len(s.data.assignments[t.ID])
	marked := total - 2
	if marked < 0 {
		marked = 0
	}
	res := gateway.TeacherMonthlyStats{Year: year, Month: month, TotalPeriods: total, MarkedPeriods: marked}
	if total > 0 {
		res.Percentage = float64(marked) / float64(total) * 100
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) teacherTodayStatus(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	periods := s.todayPeriods(t)
	res := gateway.TeacherTodayStatus{
		TotalPeriodsToday: len(periods),
		Periods:           periods,
		PendingPeriods:    []gateway.TodayPeriod{},
		CompletedPeriods:  []gateway.TodayPeriod{},
	}
	for _, p := range periods {
		if p.AttendanceDone {
			res.CompletedPeriods = append(res.CompletedPeriods, p)
		} else {
			res.PendingPeriods = append(res.PendingPeriods, p)
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) subjectStudents(ctx echo.Context) error {
	subjectID, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	sub, ok := s.data.subjects[subjectID]
	if !ok {
		return errorJSON(ctx, http.StatusNotFound, "Subject not found")
	}
	students := []gateway.SubjectStudent{}
	for _, st := range s.data.students {
		if st.DepartmentID == s.data.subjectDept[subjectID] && st.Semester == sub.Semester {
			students = append(students, gateway.SubjectStudent{
				ID:             st.ID,
				Name:           st.Name,
				RegisterNumber: st.RegisterNumber,
			})
		}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) markAttendance(ctx echo.Context) error {
	var body struct {
		TeacherID  int                      `json:"teacher_id"`
		SubjectID  int                      `json:"subject_id"`
		PeriodID   int                      `json:"period_id"`
		Date       string                   `json:"date"`
		Attendance []gateway.AttendanceMark `json:"attendance"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.teacherByID(body.TeacherID) == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	key := fmt.Sprintf("%d/%d/%s", body.PeriodID, body.SubjectID, body.Date)
	// re-submissions for the same period and date are skipped, not doubled
	if len(s.data.marked[key]) > 0 {
		return ctx.JSON(http.StatusOK, gateway.MarkAttendanceResult{
			Message: "Attendance already marked",
			Skipped: len(body.Attendance),
		})
	}
	s.data.marked[key] = body.Attendance
	return ctx.JSON(http.StatusOK, gateway.MarkAttendanceResult{
		Message: "Attendance saved",
		Saved:   len(body.Attendance),
	})
}

func (s *server) hodDashboard(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	if !t.IsHOD {
		return errorJSON(ctx, http.StatusForbidden, "Not a head of department")
	}
	var students, teachers, subjects int
	for _, st := range s.data.students {
		if st.DepartmentID == t.DepartmentID {
			students++
		}
	}
	for _, other := range s.data.teachers {
		if other.DepartmentID == t.DepartmentID {
			teachers++
		}
	}
	for _, dept := range s.data.subjectDept {
		if dept == t.DepartmentID {
			subjects++
		}
	}
	return ctx.JSON(http.StatusOK, gateway.HODDashboard{
		Department:             s.data.departmentName(t.DepartmentID),
		TotalStudents:          students,
		TotalTeachers:          teachers,
		TotalSubjects:          subjects,
		TodayAttendancePercent: 78.4,
	})
}

func (s *server) hodStudents(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.Param("dept"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	students := []gateway.DepartmentStudent{}
	for _, st := range s.data.students {
		if st.DepartmentID == dept {
			students = append(students, gateway.DepartmentStudent{
				ID:       st.ID,
				Name:     st.Name,
				RegNo:    st.RegisterNumber,
				Semester: st.Semester,
				Email:    st.Email,
			})
		}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) hodTeachers(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.Param("dept"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	teachers := []gateway.DepartmentTeacher{}
	for _, t := range s.data.teachers {
		if t.DepartmentID == dept {
			teachers = append(teachers, gateway.DepartmentTeacher{ID: t.ID, Name: t.Name, Email: t.Email})
		}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (s *server) hodAnnouncements(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.Param("dept"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	res := []gateway.Announcement{}
	for _, a := range s.data.announcements {
		if a.DepartmentID != dept && a.Audience != "all" {
			continue
		}
		postedBy := ""
		if t := s.data.teacherByID(a.TeacherID); t != nil {
			postedBy = t.Name
		}
		res = append(res, gateway.Announcement{
			Title:        a.Title,
			Content:      a.Content,
			Audience:     a.Audience,
			PostedBy:     postedBy,
			DepartmentID: a.DepartmentID,
		})
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) promoteStudents(ctx echo.Context) error {
	var body struct {
		DepartmentID    int `json:"department_id"`
		CurrentSemester int `json:"current_semester"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	promoted := 0
	for _, st := range s.data.students {
		if st.DepartmentID == body.DepartmentID && st.Semester == body.CurrentSemester {
			st.Semester++
			promoted++
		}
	}
	return ctx.JSON(http.StatusOK, gateway.Message{
		Message: fmt.Sprintf("%d students promoted to semester %d", promoted, body.CurrentSemester+1),
	})
}

func (s *server) assignTeacher(ctx echo.Context) error {
	var body struct {
		TeacherID int `json:"teacher_id"`
		SubjectID int `json:"subject_id"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.teacherByID(body.TeacherID) == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	if _, ok := s.data.subjects[body.SubjectID]; !ok {
		return errorJSON(ctx, http.StatusNotFound, "Subject not found")
	}
	for _, subID := range s.data.assignments[body.TeacherID] {
		if subID == body.SubjectID {
			return ctx.JSON(http.StatusOK, gateway.Message{Message: "Already assigned"})
		}
	}
	s.data.assignments[body.TeacherID] = append(s.data.assignments[body.TeacherID], body.SubjectID)
	return ctx.JSON(http.StatusOK, gateway.Message{Message: "Teacher assigned"})
}

func (s *server) postAnnouncement(ctx echo.Context) error {
	var body announcement
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}
	if body.Title == "" || body.Content == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Title and content are required")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	s.data.announcements = append(s.data.announcements, body)
	return ctx.JSON(http.StatusOK, gateway.Message{Message: "Announcement posted"})
}

func (s *server) upsertTimetable(ctx echo.Context) error {
	var body struct {
		DepartmentID int    `json:"department_id"`
		Semester     int    `json:"semester"`
		Day          string `json:"day"`
		PeriodID     int    `json:"period_id"`
		SubjectID    int    `json:"subject_id"`
		TeacherID    int    `json:"teacher_id"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}
	if _, ok := s.data.subjects[body.SubjectID]; !ok {
		return errorJSON(ctx, http.StatusNotFound, "Subject not found")
	}
	return ctx.JSON(http.StatusOK, gateway.Message{Message: "Timetable updated"})
}
