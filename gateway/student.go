package gateway

import (
	"context"
	"fmt"
)

// StudentLoginResult is the identity payload returned by the student login
// endpoint. The backend carries no token; the student id itself is the proof
// of identity on subsequent calls.
type StudentLoginResult struct {
	Message    string `json:"message"`
	StudentID  int    `json:"student_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
}

// SubjectAttendance is one subject row on the student dashboard. The
// percentage is server-computed and passed through verbatim.
type SubjectAttendance struct {
	SubjectID            int     `json:"subject_id"`
	SubjectName          string  `json:"subject_name"`
	Code                 string  `json:"code"`
	Credit               int     `json:"credit"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type StudentProfile struct {
	StudentName       string              `json:"student_name"`
	Department        string              `json:"department"`
	Semester          int                 `json:"semester"`
	TotalCredits      int                 `json:"total_credits"`
	AverageAttendance float64             `json:"average_attendance"`
	Subjects          []SubjectAttendance `json:"subjects"`
}

// PeriodRecord is one period's attendance mark for a day.
type PeriodRecord struct {
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Status  string `json:"status"` // "P" or "A"
}

type TodayAttendance struct {
	Date    string         `json:"date"`
	Present int            `json:"present"`
	Absent  int            `json:"absent"`
	Periods []PeriodRecord `json:"periods"`
}

type MonthlyAttendance struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalClasses int     `json:"total_classes"`
	Attended     int     `json:"attended"`
	Percentage   float64 `json:"percentage"`
}

type Subject struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Credit   int    `json:"credit"`
	Semester int    `json:"semester,omitempty"`
}

type Period struct {
	ID        int    `json:"id"`
	Number    int    `json:"number"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TimetableEntry is one scheduled period.
type TimetableEntry struct {
	ID          int     `json:"id"`
	Day         string  `json:"day"`
	Period      Period  `json:"period"`
	Subject     Subject `json:"subject"`
	TeacherName string  `json:"teacher_name"`
}

// Timetable groups entries by weekday code (MON..SAT).
type Timetable map[string][]TimetableEntry

func (c *Client) StudentLogin(ctx context.Context, email, password string) (*StudentLoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res StudentLoginResult
	if err := c.post(ctx, "/api/student/login/", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) StudentProfile(ctx context.Context, studentID int) (*StudentProfile, error) {
	var res StudentProfile
	if err := c.get(ctx, fmt.Sprintf("/api/student/%d/dashboard/", studentID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TodayAttendance(ctx context.Context, studentID int) (*TodayAttendance, error) {
	var res TodayAttendance
	if err := c.get(ctx, fmt.Sprintf("/api/student/%d/attendance/today/", studentID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MonthlyAttendance(ctx context.Context, studentID, year, month int) (*MonthlyAttendance, error) {
	var res MonthlyAttendance
	path := fmt.Sprintf("/api/student/%d/attendance/monthly/%d/%d/", studentID, year, month)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SemesterSubjects lists the subjects taught to one semester of a department.
func (c *Client) SemesterSubjects(ctx context.Context, departmentID, semester int) ([]Subject, error) {
	var res []Subject
	if err := c.get(ctx, fmt.Sprintf("/api/subjects/%d/%d/", departmentID, semester), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) StudentTimetable(ctx context.Context, studentID int) (Timetable, error) {
	var res Timetable
	if err := c.get(ctx, fmt.Sprintf("/api/student/%d/timetable/", studentID), &res); err != nil {
		return nil, err
	}
	return res, nil
}
