package devbackend

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/pcasconnect/campus/gateway"
)

func (s *server) adminLogin(ctx echo.Context) error {
	var body loginBody
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for _, a := range s.data.admins {
		if a.Username == body.Username && s.data.checkPassword(a.PasswordHash, body.Password) {
			return ctx.JSON(http.StatusOK, gateway.AdminLoginResult{
				Message:     "Login successful",
				UserID:      a.ID,
				Username:    a.Username,
				IsSuperuser: a.IsSuperuser,
			})
		}
	}
	return errorJSON(ctx, http.StatusUnauthorized, "Invalid username or password")
}

func (s *server) adminStats(ctx echo.Context) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	return ctx.JSON(http.StatusOK, gateway.AdminStats{
		Students:    len(s.data.students),
		Teachers:    len(s.data.teachers),
		Departments: len(s.data.departments),
		Subjects:    len(s.data.subjects),
	})
}

func (s *server) departments(ctx echo.Context) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return ctx.JSON(http.StatusOK, s.data.departments)
}

func (s *server) searchStudents(ctx echo.Context) error {
	q := strings.ToLower(ctx.QueryParam("q"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	matches := []gateway.StudentSummary{}
	for _, st := range s.data.students {
		if q == "" ||
			strings.Contains(strings.ToLower(st.Name), q) ||
			strings.Contains(strings.ToLower(st.RegisterNumber), q) ||
			similarity(q, strings.ToLower(st.Name)) >= 0.75 { // tolerate typos
			matches = append(matches, s.studentSummary(st))
		}
		if len(matches) == 20 { // same cap as the real backend
			break
		}
	}
	return ctx.JSON(http.StatusOK, matches)
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}

func (s *server) studentSummary(st *student) gateway.StudentSummary {
	return gateway.StudentSummary{
		ID:             st.ID,
		Name:           st.Name,
		RegisterNumber: st.RegisterNumber,
		Department:     s.data.departmentName(st.DepartmentID),
		Semester:       st.Semester,
		Email:          st.Email,
	}
}

func (s *server) studentReport(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	year, _ := strconv.Atoi(ctx.Param("year"))
	month, _ := strconv.Atoi(ctx.Param("month"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	return ctx.JSON(http.StatusOK, gateway.StudentAttendanceReport{
		Student:    st.Name,
		RollNumber: st.RegisterNumber,
		MonthlySummary: gateway.MonthlyAttendance{
			Year: year, Month: month, TotalClasses: 80, Attended: 68, Percentage: 85,
		},
		DailyRecords: []gateway.DailyRecord{
			{Date: fmt.Sprintf("%d-%02d-01", year, month), Period: 1, Subject: "Data Structures", Status: "P"},
			{Date: fmt.Sprintf("%d-%02d-01", year, month), Period: 2, Subject: "Operating Systems", Status: "A"},
		},
	})
}

func (s *server) semesterAttendance(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.Param("dept"))
	sem, _ := strconv.Atoi(ctx.Param("sem"))
	year, _ := strconv.Atoi(ctx.Param("year"))
	month, _ := strconv.Atoi(ctx.Param("month"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	res := gateway.SemesterAttendance{
		DepartmentID:          dept,
		Semester:              sem,
		Month:                 month,
		Year:                  year,
		TotalClassesConducted: 80,
		Students:              []gateway.RankedStudent{},
		LowAttendance:         []gateway.RankedStudent{},
	}
	for i, st := range s.data.students {
		if st.DepartmentID != dept || st.Semester != sem {
			continue
		}
		ranked := gateway.RankedStudent{
			ID:             st.ID,
			Name:           st.Name,
			RegisterNumber: st.RegisterNumber,
			Attended:       70 - i*10,
			Percentage:     float64(70-i*10) / 80 * 100,
		}
		res.Students = append(res.Students, ranked)
		if ranked.Percentage < 75 {
			res.LowAttendance = append(res.LowAttendance, ranked)
		}
	}
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) addStudent(ctx echo.Context) error {
	var body gateway.NewStudent
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.studentByEmail(body.Email) != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Email already registered")
	}
	st := &student{
		ID:             s.data.id(),
		Name:           body.Name,
		RegisterNumber: body.RegisterNumber,
		Email:          body.Email,
		PasswordHash:   hash(DemoPassword),
		DepartmentID:   body.DepartmentID,
		Semester:       body.Semester,
	}
	s.data.students = append(s.data.students, st)
	return ctx.JSON(http.StatusOK, gateway.Message{
		Message: fmt.Sprintf("Student created. Initial password: %s", DemoPassword),
	})
}

func (s *server) addTeacher(ctx echo.Context) error {
	var body gateway.NewTeacher
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.teacherByEmail(body.Email) != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Email already registered")
	}
	t := &teacher{
		ID:           s.data.id(),
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash(DemoPassword),
		DepartmentID: body.DepartmentID,
		IsHOD:        body.IsHOD,
	}
	s.data.teachers = append(s.data.teachers, t)
	return ctx.JSON(http.StatusOK, gateway.Message{
		Message: fmt.Sprintf("Teacher created. Initial password: %s", DemoPassword),
	})
}

func (s *server) addDepartment(ctx echo.Context) error {
	var body gateway.NewDepartment
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}
	if body.Name == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Name is required")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	s.data.departments = append(s.data.departments, gateway.Department{ID: s.data.id(), Name: body.Name})
	return ctx.JSON(http.StatusOK, gateway.Message{Message: "Department created"})
}

func (s *server) addSubject(ctx echo.Context) error {
	var body gateway.NewSubject
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	id := s.data.id()
	s.data.subjects[id] = gateway.Subject{
		ID: id, Name: body.Name, Code: body.Code, Credit: body.Credit, Semester: body.Semester,
	}
	s.data.subjectDept[id] = body.DepartmentID
	return ctx.JSON(http.StatusOK, gateway.Message{Message: "Subject created"})
}

func (s *server) studentList(ctx echo.Context) error {
	dept, _ := strconv.Atoi(ctx.QueryParam("department_id"))
	sem, _ := strconv.Atoi(ctx.QueryParam("semester"))
	search := strings.ToLower(ctx.QueryParam("search"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	matches := []gateway.StudentSummary{}
	for _, st := range s.data.students {
		if dept > 0 && st.DepartmentID != dept {
			continue
		}
		if sem > 0 && st.Semester != sem {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.Name), search) &&
			!strings.Contains(strings.ToLower(st.RegisterNumber), search) {
			continue
		}
		matches = append(matches, s.studentSummary(st))
	}
	return ctx.JSON(http.StatusOK, matches)
}

func (s *server) studentDetails(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	return ctx.JSON(http.StatusOK, s.studentSummary(st))
}

func (s *server) updateStudent(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	var body struct {
		Name           string `json:"name"`
		RegisterNumber string `json:"register_number"`
		Email          string `json:"email"`
		Semester       int    `json:"semester"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	if body.Name != "" {
		st.Name = body.Name
	}
	if body.RegisterNumber != "" {
		st.RegisterNumber = body.RegisterNumber
	}
	if body.Email != "" {
		st.Email = body.Email
	}
	if body.Semester > 0 {
		st.Semester = body.Semester
	}
	return ctx.JSON(http.StatusOK, s.studentSummary(st))
}

func (s *server) deleteStudent(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for i, st := range s.data.students {
		if st.ID == id {
			s.data.students = append(s.data.students[:i], s.data.students[i+1:]...)
			return ctx.NoContent(http.StatusNoContent)
		}
	}
	return errorJSON(ctx, http.StatusNotFound, "Student not found")
}

func (s *server) resetStudentPassword(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	st := s.data.studentByID(id)
	if st == nil {
		return errorJSON(ctx, http.StatusNotFound, "Student not found")
	}
	st.PasswordHash = hash(DemoPassword)
	return ctx.JSON(http.StatusOK, gateway.Message{
		Message: fmt.Sprintf("Password reset. New password: %s", DemoPassword),
	})
}

func (s *server) teacherList(ctx echo.Context) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	teachers := []gateway.TeacherSummary{}
	for _, t := range s.data.teachers {
		teachers = append(teachers, s.teacherSummary(t))
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (s *server) teacherSummary(t *teacher) gateway.TeacherSummary {
	return gateway.TeacherSummary{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		Department: s.data.departmentName(t.DepartmentID),
		IsHOD:      t.IsHOD,
	}
}

func (s *server) teacherDetails(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	return ctx.JSON(http.StatusOK, s.teacherSummary(t))
}

func (s *server) updateTeacher(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		IsHOD *bool  `json:"is_hod"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	if body.Name != "" {
		t.Name = body.Name
	}
	if body.Email != "" {
		t.Email = body.Email
	}
	if body.IsHOD != nil {
		t.IsHOD = *body.IsHOD
	}
	return ctx.JSON(http.StatusOK, s.teacherSummary(t))
}

func (s *server) deleteTeacher(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for i, t := range s.data.teachers {
		if t.ID == id {
			s.data.teachers = append(s.data.teachers[:i], s.data.teachers[i+1:]...)
			return ctx.NoContent(http.StatusNoContent)
		}
	}
	return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
}

func (s *server) resetTeacherPassword(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t := s.data.teacherByID(id)
	if t == nil {
		return errorJSON(ctx, http.StatusNotFound, "Teacher not found")
	}
	t.PasswordHash = hash(DemoPassword)
	return ctx.JSON(http.StatusOK, gateway.Message{
		Message: fmt.Sprintf("Password reset. New password: %s", DemoPassword),
	})
}
