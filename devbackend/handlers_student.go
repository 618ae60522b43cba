package devbackend

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pcasconnect/campus/gateway"
)

type loginBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *server) studentLogin(ctx echo.Context) error {
	var body loginBody
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByEmail(body.Email)
	if st == nil || !s.data.checkPassword(st.PasswordHash, body.Password) {
		return errorJSON(ctx, http.StatusUnauthorized, "Invalid email or password")
	}
	return ctx.JSON(http.StatusOK, gateway.StudentLoginResult{
		Message:    "Login successful",
		StudentID:  st.ID,
		Name:       st.Name,
		Email:      st.Email,
		Department: s.data.departmentName(st.DepartmentID),
		Semester:   st.Semester,
	})
}

func (s *server) studentDashboard(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}

	var subjects []gateway.SubjectAttendance
	credits := 0
	for _, sub := range s.data.subjects {
		if s.data.subjectDept[sub.ID] != st.DepartmentID || sub.Semester != st.Semester {
			continue
		}
		credits += sub.Credit
		subjects = append(subjects, gateway.SubjectAttendance{
			SubjectID:            sub.ID,
			SubjectName:          sub.Name,
			Code:                 sub.Code,
			Credit:               sub.Credit,
			AttendancePercentage: 85,
		})
	}
	return ctx.JSON(http.StatusOK, gateway.StudentProfile{
		StudentName:       st.Name,
		Department:        s.data.departmentName(st.DepartmentID),
		Semester:          st.Semester,
		TotalCredits:      credits,
		AverageAttendance: 85,
		Subjects:          subjects,
	})
}

func (s *server) studentToday(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.studentByID(id) == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	return ctx.JSON(http.StatusOK, gateway.TodayAttendance{
		Date:    "2026-08-31",
		Present: 3,
		Absent:  1,
		Periods: []gateway.PeriodRecord{
			{Period: 1, Subject: "Data Structures", Status: "P"},
			{Period: 2, Subject: "Operating Systems", Status: "P"},
			{Period: 3, Subject: "Databases", Status: "A"},
			{Period: 4, Subject: "Data Structures", Status: "P"},
		},
	})
}

func (s *server) studentMonthly(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	year, _ := strconv.Atoi(ctx.Param("year"))
	month, _ := strconv.Atoi(ctx.Param("month"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.studentByID(id) == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	if month < 1 || month > 12 {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid month")
	}
	return ctx.JSON(http.StatusOK, gateway.MonthlyAttendance{
		Year:         year,
		Month:        month,
		TotalClasses: 80,
		Attended:     68,
		Percentage:   85,
	})
}

func (s *server) studentTimetable(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}

	tt := make(gateway.Timetable)
	entry := 0
	for _, day := range []string{"MON", "TUE", "WED"} {
		for _, sub := range s.data.subjects {
			if s.data.subjectDept[sub.ID] != st.DepartmentID || sub.Semester != st.Semester {
				continue
			}
			entry++
			tt[day] = append(tt[day], gateway.TimetableEntry{
				ID:      entry,
				Day:     day,
				Period:  gateway.Period{ID: entry%4 + 1, Number: entry%4 + 1, StartTime: "09:00", EndTime: "09:50"},
				Subject: sub,
			})
		}
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (s *server) semesterSubjects(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.Param("dept"))
	sem, _ := strconv.Atoi(ctx.Param("sem"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	subjects := []gateway.Subject{}
	for _, sub := range s.data.subjects {
		if s.data.subjectDept[sub.ID] == dept && sub.Semester == sem {
			subjects = append(subjects, sub)
		}
	}
	return ctx.JSON(http.StatusOK, subjects)
}
