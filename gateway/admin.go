package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type AdminLoginResult struct {
	Message     string `json:"message"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
}

// AdminStats is the admin dashboard's headline counters.
type AdminStats struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Departments int `json:"departments"`
	Subjects    int `json:"subjects"`
}

type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type StudentSummary struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
	Department     string `json:"department"`
	Semester       int    `json:"semester"`
	Email          string `json:"email"`
}

type TeacherSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	IsHOD      bool   `json:"is_hod"`
}

// NewStudent is the creation payload for a student account. The backend
// generates the initial password and returns it in the response message.
type NewStudent struct {
	Name           string `json:"name" validate:"required"`
	RegisterNumber string `json:"register_number" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	DepartmentID   int    `json:"department_id" validate:"required"`
	Semester       int    `json:"semester" validate:"required,min=1,max=8"`
}

type NewTeacher struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID int    `json:"department_id" validate:"required"`
	IsHOD        bool   `json:"is_hod"`
}

type NewDepartment struct {
	Name string `json:"name" validate:"required"`
}

type NewSubject struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	Credit       int    `json:"credit" validate:"required,min=1"`
	DepartmentID int    `json:"department_id" validate:"required"`
	Semester     int    `json:"semester" validate:"required,min=1,max=8"`
}

// RankedStudent is one row of the semester attendance report, ranked by
// percentage.
type RankedStudent struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	RegisterNumber string  `json:"register_number"`
	Attended       int     `json:"attended"`
	Percentage     float64 `json:"percentage"`
}

type SemesterAttendance struct {
	DepartmentID          int             `json:"department_id"`
	Semester              int             `json:"semester"`
	Month                 int             `json:"month"`
	Year                  int             `json:"year"`
	TotalClassesConducted int             `json:"total_classes_conducted"`
	Students              []RankedStudent `json:"students"`
	LowAttendance         []RankedStudent `json:"low_attendance"`
}

type DailyRecord struct {
	Date    string `json:"date"`
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

type StudentAttendanceReport struct {
	Student        string            `json:"student"`
	RollNumber     string            `json:"roll_number"`
	MonthlySummary MonthlyAttendance `json:"monthly_summary"`
	DailyRecords   []DailyRecord     `json:"daily_records"`
}

func (c *Client) AdminLogin(ctx context.Context, username, password string) (*AdminLoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res AdminLoginResult
	if err := c.post(ctx, "/api/admin/login/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var res AdminStats
	if err := c.get(ctx, "/api/admin/dashboard/stats/", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	var res []Department
	if err := c.get(ctx, "/api/admin/utils/departments/", &res); err != nil {
		return nil, err
	}
	return res, nil
}

// SearchStudents matches on name or register number; the backend caps
// results at 20.
func (c *Client) SearchStudents(ctx context.Context, query string) ([]StudentSummary, error) {
	var res []StudentSummary
	path := "/api/admin/search/students/?q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) StudentAttendanceReport(ctx context.Context, studentID, year, month int) (*StudentAttendanceReport, error) {
	var res StudentAttendanceReport
	path := fmt.Sprintf("/api/admin/student/%d/attendance/%d/%d/", studentID, year, month)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SemesterAttendance(ctx context.Context, departmentID, semester, year, month int) (*SemesterAttendance, error) {
	var res SemesterAttendance
	path := fmt.Sprintf("/api/admin/attendance/semester/%d/%d/%d/%d/", departmentID, semester, year, month)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ExportSemesterAttendanceURL builds the spreadsheet export address. The
// download itself is left to the caller (a browser or file transfer).
func (c *Client) ExportSemesterAttendanceURL(departmentID, semester, year, month int) string {
	return fmt.Sprintf("%s/api/admin/export/semester/%d/%d/%d/%d/", c.baseURL, departmentID, semester, year, month)
}

func (c *Client) AddStudent(ctx context.Context, ns NewStudent) (*Message, error) {
	var res Message
	if err := c.post(ctx, "/api/admin/add/student/", ns, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddTeacher(ctx context.Context, nt NewTeacher) (*Message, error) {
	var res Message
	if err := c.post(ctx, "/api/admin/add/teacher/", nt, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddDepartment(ctx context.Context, nd NewDepartment) (*Message, error) {
	var res Message
	if err := c.post(ctx, "/api/admin/add/department/", nd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddSubject(ctx context.Context, ns NewSubject) (*Message, error) {
	var res Message
	if err := c.post(ctx, "/api/admin/add/subject/", ns, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AdminPromoteStudents is the admin variant of semester promotion.
func (c *Client) AdminPromoteStudents(ctx context.Context, departmentID, currentSemester int) (*Message, error) {
	body := map[string]int{
		"department_id":    departmentID,
		"current_semester": currentSemester,
	}
	var res Message
	if err := c.post(ctx, "/api/admin/promote/students/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StudentList filters by optional department, semester and search text;
// zero/empty values are omitted.
func (c *Client) StudentList(ctx context.Context, departmentID, semester int, search string) ([]StudentSummary, error) {
	q := make(url.Values)
	if departmentID > 0 {
		q.Set("department_id", strconv.Itoa(departmentID))
	}
	if semester > 0 {
		q.Set("semester", strconv.Itoa(semester))
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/api/admin/students/list/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var res []StudentSummary
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) StudentDetails(ctx context.Context, id int) (*StudentSummary, error) {
	var res StudentSummary
	if err := c.get(ctx, fmt.Sprintf("/api/admin/student/%d/", id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int, fields map[string]interface{}) (*StudentSummary, error) {
	var res StudentSummary
	if err := c.put(ctx, fmt.Sprintf("/api/admin/student/%d/", id), fields, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/student/%d/", id), nil)
}

// ResetStudentPassword asks the backend to regenerate a student's password;
// the new one comes back in the response message.
func (c *Client) ResetStudentPassword(ctx context.Context, id int) (*Message, error) {
	var res Message
	if err := c.post(ctx, fmt.Sprintf("/api/admin/student/%d/reset-password/", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TeacherList(ctx context.Context) ([]TeacherSummary, error) {
	var res []TeacherSummary
	if err := c.get(ctx, "/api/admin/teachers/list/", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) TeacherDetails(ctx context.Context, id int) (*TeacherSummary, error) {
	var res TeacherSummary
	if err := c.get(ctx, fmt.Sprintf("/api/admin/teacher/%d/", id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateTeacher(ctx context.Context, id int, fields map[string]interface{}) (*TeacherSummary, error) {
	var res TeacherSummary
	if err := c.put(ctx, fmt.Sprintf("/api/admin/teacher/%d/", id), fields, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteTeacher(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/teacher/%d/", id), nil)
}

func (c *Client) ResetTeacherPassword(ctx context.Context, id int) (*Message, error) {
	var res Message
	if err := c.post(ctx, fmt.Sprintf("/api/admin/teacher/%d/reset-password/", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
