package gateway

import (
	"context"
	"fmt"
)

// TeacherLoginResult is returned by the teacher login endpoint. Role is
// either "TEACHER" or "HOD"; heads of department unlock the hod/ endpoints.
type TeacherLoginResult struct {
	Message      string `json:"message"`
	Role         string `json:"role"`
	TeacherID    int    `json:"teacher_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	DepartmentID int    `json:"department_id"`
}

type TeacherDashboard struct {
	Teacher           string  `json:"teacher"`
	Department        string  `json:"department"`
	TotalSubjects     int     `json:"total_subjects"`
	ClassesToday      int     `json:"classes_today"`
	PendingAttendance int     `json:"pending_attendance"`
	MonthlyAvgMarked  float64 `json:"monthly_avg_marked"`
}

type TeacherSubjects struct {
	Teacher  string    `json:"teacher"`
	Subjects []Subject `json:"subjects"`
}

// TodayPeriod is one period on a teacher's plate today, with its
// attendance-marking state.
type TodayPeriod struct {
	PeriodID       int    `json:"period_id"`
	Number         int    `json:"number"`
	SubjectID      int    `json:"subject_id"`
	Subject        string `json:"subject"`
	Semester       int    `json:"semester"`
	AttendanceDone bool   `json:"attendance_done"`
}

type TeacherMonthlyStats struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalPeriods  int     `json:"total_periods"`
	MarkedPeriods int     `json:"marked_periods"`
	Percentage    float64 `json:"percentage"`
}

type TeacherTodayStatus struct {
	TotalPeriodsToday int           `json:"total_periods_today"`
	PendingPeriods    []TodayPeriod `json:"pending_periods"`
	CompletedPeriods  []TodayPeriod `json:"completed_periods"`
	Periods           []TodayPeriod `json:"periods"`
}

// SubjectStudent is one enrolled student in a subject's roll list.
type SubjectStudent struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
}

// AttendanceMark is one student's mark in an attendance submission.
type AttendanceMark struct {
	StudentID int    `json:"student_id"`
	Status    string `json:"status"` // "P" or "A"
}

type MarkAttendanceResult struct {
	Message string `json:"message"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
}

type HODDashboard struct {
	Department             string  `json:"department"`
	TotalStudents          int     `json:"total_students"`
	TotalTeachers          int     `json:"total_teachers"`
	TotalSubjects          int     `json:"total_subjects"`
	TodayAttendancePercent float64 `json:"today_attendance_percent"`
}

type DepartmentStudent struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RegNo    string `json:"reg_no"`
	Semester int    `json:"semester"`
	Email    string `json:"email"`
}

type DepartmentTeacher struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Announcement is one posted notice, scoped to a department or to everyone.
type Announcement struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Audience     string `json:"audience"`
	PostedBy     string `json:"posted_by"`
	DepartmentID int    `json:"department_id"`
}

// Message is the bare acknowledgment many write endpoints return.
type Message struct {
	Message string `json:"message"`
}

func (c *Client) TeacherLogin(ctx context.Context, email, password string) (*TeacherLoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res TeacherLoginResult
	if err := c.post(ctx, "/api/teacher/login/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TeacherDashboard(ctx context.Context, teacherID int) (*TeacherDashboard, error) {
	var res TeacherDashboard
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/dashboard/teacher/%d/", teacherID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TeacherSubjects(ctx context.Context, teacherID int) (*TeacherSubjects, error) {
	var res TeacherSubjects
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/%d/subjects/", teacherID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TeacherTodayTimetable returns the teacher's scheduled periods for today;
// an empty list means no classes today.
func (c *Client) TeacherTodayTimetable(ctx context.Context, teacherID int) ([]TimetableEntry, error) {
	var res []TimetableEntry
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/%d/timetable/today/", teacherID), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// TeacherMonthlyStats reports how much of the teacher's scheduled marking was
// actually done in a month.
func (c *Client) TeacherMonthlyStats(ctx context.Context, teacherID, year, month int) (*TeacherMonthlyStats, error) {
	var res TeacherMonthlyStats
	path := fmt.Sprintf("/api/teacher/%d/attendance/monthly/%d/%d/", teacherID, year, month)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TeacherTodayStatus(ctx context.Context, teacherID int) (*TeacherTodayStatus, error) {
	var res TeacherTodayStatus
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/%d/today-status/", teacherID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) StudentsInSubject(ctx context.Context, subjectID int) ([]SubjectStudent, error) {
	var res []SubjectStudent
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/subject/%d/students/", subjectID), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// MarkAttendance submits one period's marks. The backend skips duplicates
// for the same period+subject+date and reports both counts.
func (c *Client) MarkAttendance(ctx context.Context, teacherID, subjectID, periodID int, date string, marks []AttendanceMark) (*MarkAttendanceResult, error) {
	body := map[string]interface{}{
		"teacher_id": teacherID,
		"subject_id": subjectID,
		"period_id":  periodID,
		"date":       date,
		"attendance": marks,
	}
	var res MarkAttendanceResult
	if err := c.post(ctx, "/api/teacher/attendance/mark/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) HODDashboard(ctx context.Context, teacherID int) (*HODDashboard, error) {
	var res HODDashboard
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/dashboard/hod/%d/", teacherID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) HODStats(ctx context.Context, teacherID int) (*HODDashboard, error) {
	var res HODDashboard
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/hod/stats/%d/", teacherID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) HODStudents(ctx context.Context, departmentID int) ([]DepartmentStudent, error) {
	var res []DepartmentStudent
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/hod/students/%d/", departmentID), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) HODAnnouncements(ctx context.Context, departmentID int) ([]Announcement, error) {
	var res []Announcement
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/hod/announcements/%d/", departmentID), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) HODTeachers(ctx context.Context, departmentID int) ([]DepartmentTeacher, error) {
	var res []DepartmentTeacher
	if err := c.get(ctx, fmt.Sprintf("/api/teacher/hod/teachers/%d/", departmentID), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// PromoteStudents moves every student of the department's given semester to
// the next one. One-shot write; it touches neither session nor dashboard
// state on the client.
func (c *Client) PromoteStudents(ctx context.Context, departmentID, currentSemester int) (*Message, error) {
	body := map[string]int{
		"department_id":    departmentID,
		"current_semester": currentSemester,
	}
	var res Message
	if err := c.post(ctx, "/api/teacher/hod/promote/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AssignTeacher(ctx context.Context, teacherID, subjectID int) (*Message, error) {
	body := map[string]int{"teacher_id": teacherID, "subject_id": subjectID}
	var res Message
	if err := c.post(ctx, "/api/teacher/hod/assign-teacher/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PostAnnouncement(ctx context.Context, teacherID int, title, content, audience string, departmentID int) (*Message, error) {
	body := map[string]interface{}{
		"teacher_id":    teacherID,
		"title":         title,
		"content":       content,
		"audience":      audience,
		"department_id": departmentID,
	}
	var res Message
	if err := c.post(ctx, "/api/teacher/hod/announcement/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpsertTimetableEntry creates or updates one timetable cell
// (department+semester+day+period).
func (c *Client) UpsertTimetableEntry(ctx context.Context, departmentID, semester int, day string, periodID, subjectID, teacherID int) (*Message, error) {
	body := map[string]interface{}{
		"department_id": departmentID,
		"semester":      semester,
		"day":           day,
		"period_id":     periodID,
		"subject_id":    subjectID,
		"teacher_id":    teacherID,
	}
	var res Message
	if err := c.post(ctx, "/api/teacher/hod/timetable/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
