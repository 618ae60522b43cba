package devbackend

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/pcasconnect/campus/gateway"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Secret123!"

type (
	student struct {
		ID             int
		Name           string
		RegisterNumber string
		Email          string
		PasswordHash   []byte
		DepartmentID   int
		Semester       int
	}

	teacher struct {
		ID           int
		Name         string
		Email        string
		PasswordHash []byte
		DepartmentID int
		IsHOD        bool
	}

	adminUser struct {
		ID           int
		Username     string
		PasswordHash []byte
		IsSuperuser  bool
	}

	announcement struct {
		TeacherID    int    `json:"teacher_id"`
		Title        string `json:"title"`
		Content      string `json:"content"`
		Audience     string `json:"audience"`
		DepartmentID int    `json:"department_id"`
	}

	// fixtures is the mutable in-memory dataset behind the stub endpoints.
	fixtures struct {
		mu sync.Mutex

		students    []*student
		teachers    []*teacher
		admins      []*adminUser
		departments []gateway.Department
		subjects    map[int]gateway.Subject // by id
		subjectDept map[int]int             // subject id -> department id
		assignments map[int][]int           // teacher id -> subject ids
		// marked attendance, keyed by period/subject/date
		marked        map[string][]gateway.AttendanceMark
		announcements []announcement

		nextID int
	}
)

func hash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err) // only fails on an invalid cost
	}
	return h
}

func (f *fixtures) id() int {
	f.nextID++
	return f.nextID
}

func seed() *fixtures {
	pw := hash(DemoPassword)
	f := &fixtures{
		subjects:    make(map[int]gateway.Subject),
		subjectDept: make(map[int]int),
		assignments: make(map[int][]int),
		marked:      make(map[string][]gateway.AttendanceMark),
		nextID:      100,
	}

	f.departments = []gateway.Department{
		{ID: 1, Name: "Computer Science"},
		{ID: 2, Name: "Mathematics"},
	}

	for i, name := range []string{"Data Structures", "Operating Systems", "Databases"} {
		id := 10 + i
		f.subjects[id] = gateway.Subject{ID: id, Name: name, Code: fmt.Sprintf("CS%d01", i+1), Credit: 4, Semester: 3}
		f.subjectDept[id] = 1
	}

	f.students = []*student{
		{ID: 1, Name: "Asha Nair", RegisterNumber: "PCAS2301", Email: "asha@pcas.edu", PasswordHash: pw, DepartmentID: 1, Semester: 3},
		{ID: 2, Name: "Vikram Rao", RegisterNumber: "PCAS2302", Email: "vikram@pcas.edu", PasswordHash: pw, DepartmentID: 1, Semester: 3},
		{ID: 3, Name: "Meera Iyer", RegisterNumber: "PCAS2303", Email: "meera@pcas.edu", PasswordHash: pw, DepartmentID: 2, Semester: 5},
	}

	f.teachers = []*teacher{
		{ID: 1, Name: "Dr. Suresh Kumar", Email: "suresh@pcas.edu", PasswordHash: pw, DepartmentID: 1, IsHOD: true},
		{ID: 2, Name: "Priya Menon", Email: "priya@pcas.edu", PasswordHash: pw, DepartmentID: 1},
	}
	f.assignments[1] = []int{10}
	f.assignments[2] = []int{11, 12}

	f.announcements = []announcement{
		{TeacherID: 1, Title: "Internal exam schedule", Content: "Series test 1 starts Monday.", Audience: "students", DepartmentID: 1},
	}

	f.admins = []*adminUser{
		{ID: 1, Username: "admin", PasswordHash: pw, IsSuperuser: true},
	}
	return f
}

func (f *fixtures) checkPassword(hashed []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}

func (f *fixtures) departmentName(id int) string {
	for _, d := range f.departments {
		if d.ID == id {
			return d.Name
		}
	}
	return ""
}

func (f *fixtures) studentByEmail(email string) *student {
	for _, s := range f.students {
		if s.Email == email {
			return s
		}
	}
	return nil
}

func (f *fixtures) studentByID(id int) *student {
	for _, s := range f.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (f *fixtures) teacherByEmail(email string) *teacher {
	for _, t := range f.teachers {
		if t.Email == email {
			return t
		}
	}
	return nil
}

func (f *fixtures) teacherByID(id int) *teacher {
	for _, t := range f.teachers {
		if t.ID == id {
			return t
		}
	}
	return nil
}
