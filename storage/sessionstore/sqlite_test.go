package sessionstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pcasconnect/campus/core/session"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_roundTrip(t *testing.T) {
	store := openTestStore(t)

	values := map[string]string{
		"session.role":       "student",
		"session.subject_id": "7",
		"session.email":      "asha@pcas.edu",
	}
	if err := store.SetAll(values); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}

	for key, want := range values {
		got, err := store.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", key, err)
		}
		if got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSQLite_getMissingKey(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Get("session.role"); !errors.Is(err, session.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestSQLite_overwrite(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetAll(map[string]string{"session.role": "student"}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if err := store.SetAll(map[string]string{"session.role": "teacher"}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if got, _ := store.Get("session.role"); got != "teacher" {
		t.Errorf("Get() = %q, want %q", got, "teacher")
	}
}

func TestSQLite_clear(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetAll(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if err := store.Clear("a", "b"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Get("a"); !errors.Is(err, session.ErrKeyNotFound) {
		t.Errorf("Get(a) error = %v, want ErrKeyNotFound", err)
	}
	if got, err := store.Get("c"); err != nil || got != "3" {
		t.Errorf("Get(c) = %q, %v; want %q, nil", got, err, "3")
	}

	// clearing nothing, or already-absent keys, is fine
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if err := store.Clear("a"); err != nil {
		t.Errorf("repeat Clear() error = %v", err)
	}
}

func TestSQLite_persistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err = store.SetAll(map[string]string{"session.role": "admin"}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if got, _ := reopened.Get("session.role"); got != "admin" {
		t.Errorf("Get() after reopen = %q, want %q", got, "admin")
	}
}

func TestInMem_failedWriteLeavesStateUntouched(t *testing.T) {
	store := NewInMem()
	if err := store.SetAll(map[string]string{"session.role": "student"}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}

	store.FailWrites = errors.New("disk full")
	if err := store.SetAll(map[string]string{"session.role": "admin"}); err == nil {
		t.Fatal("SetAll() did not surface the failure")
	}
	if got, _ := store.Get("session.role"); got != "student" {
		t.Errorf("Get() = %q, prior state was modified", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}
