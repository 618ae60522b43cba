package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pcasconnect/campus/core"
)

func newTestClient(baseURL string) *Client {
	conf := &core.Config{Build: "test"}
	conf.API.BaseURL = baseURL
	conf.API.Timeout = 2 * time.Second
	return NewClient(conf)
}

func TestClient_classification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantMsg    string
		wantStatus int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"message":"ok"}`,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":"Invalid email or password"}`,
			wantKind:   KindAuthRejected,
			wantMsg:    "Invalid email or password",
			wantStatus: 401,
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       `{"error":"Not a head of department"}`,
			wantKind:   KindAuthRejected,
			wantMsg:    "Not a head of department",
			wantStatus: 403,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantKind:   KindServerError,
			wantMsg:    "Internal Server Error",
			wantStatus: 500,
		},
		{
			name:       "unknown id",
			status:     http.StatusNotFound,
			body:       `{"error":"Student not found"}`,
			wantKind:   KindServerError,
			wantMsg:    "Student not found",
			wantStatus: 404,
		},
		{
			name:       "bad payload",
			status:     http.StatusBadRequest,
			body:       `{"message":"Title and content are required"}`,
			wantKind:   KindServerError,
			wantMsg:    "Title and content are required",
			wantStatus: 400,
		},
		{
			name:       "undecodable body",
			status:     http.StatusOK,
			body:       `{"message":`,
			wantKind:   KindMalformedResponse,
			wantStatus: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out Message
			err := newTestClient(srv.URL).get(context.Background(), "/api/whatever/", &out)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("get() error = %v", err)
				}
				return
			}

			var gwErr *Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("get() error = %v, want *Error", err)
			}
			if gwErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", gwErr.Kind, tt.wantKind)
			}
			if gwErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", gwErr.StatusCode, tt.wantStatus)
			}
			if tt.wantMsg != "" && gwErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", gwErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_unreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	err := newTestClient(srv.URL).get(context.Background(), "/api/whatever/", nil)
	if KindOf(err) != KindNetwork {
		t.Errorf("KindOf() = %s, want Network", KindOf(err))
	}
}

func TestClient_contextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newTestClient(srv.URL).get(ctx, "/api/whatever/", nil)
	if KindOf(err) != KindNetwork {
		t.Errorf("KindOf() = %s, want Network", KindOf(err))
	}
}

func TestClient_studentLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/student/login/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID missing")
		}
		w.Write([]byte(`{"message":"Login successful","student_id":7,"name":"Asha Nair","email":"asha@pcas.edu","department":"CS","semester":3}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).StudentLogin(context.Background(), "asha@pcas.edu", "pwd")
	if err != nil {
		t.Fatalf("StudentLogin() error = %v", err)
	}
	if res.StudentID != 7 || res.Name != "Asha Nair" || res.Semester != 3 {
		t.Errorf("StudentLogin() = %+v", res)
	}
}

func TestClient_monthlyAttendancePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"year":2026,"month":2,"total_classes":80,"attended":68,"percentage":85}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).MonthlyAttendance(context.Background(), 7, 2026, 2); err != nil {
		t.Fatalf("MonthlyAttendance() error = %v", err)
	}
	if want := "/api/student/7/attendance/monthly/2026/2/"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "error string", body: `{"error":"nope"}`, want: "nope"},
		{name: "error object", body: `{"error":{"email":["required"]}}`, want: `{"email":["required"]}`},
		{name: "message", body: `{"message":"try later"}`, want: "try later"},
		{name: "detail", body: `{"detail":"not found"}`, want: "not found"},
		{name: "plain string", body: `"boom"`, want: "boom"},
		{name: "garbage", body: `<html>`, want: "fallback"},
		{name: "empty", body: ``, want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body), "fallback"); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportSemesterAttendanceURL(t *testing.T) {
	c := newTestClient("http://backend:8000/")
	want := "http://backend:8000/api/admin/export/semester/1/3/2026/2/"
	if got := c.ExportSemesterAttendanceURL(1, 3, 2026, 2); got != want {
		t.Errorf("ExportSemesterAttendanceURL() = %q, want %q", got, want)
	}
}
