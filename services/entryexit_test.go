package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/anishkumar0507/hostelbackend/models"
)

func TestEntryExitToggle(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewEntryExitService(db)

	// No history at all: nothing to exit from.
	if _, err := svc.MarkExit(student.ID, "manual"); !errors.Is(err, ErrConflict) {
		t.Fatalf("exit with no logs: got %v, want ErrConflict", err)
	}

	entry, err := svc.MarkEntry(student.ID, "qr")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Status != models.PresenceIn || entry.InTime == nil || entry.OutTime != nil {
		t.Fatalf("unexpected entry log: %+v", entry)
	}

	if _, err := svc.MarkEntry(student.ID, "qr"); !errors.Is(err, ErrConflict) {
		t.Fatalf("double entry: got %v, want ErrConflict", err)
	}

	exit, err := svc.MarkExit(student.ID, "manual")
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if exit.ID != entry.ID {
		t.Fatalf("exit created a new row (%d) instead of closing %d", exit.ID, entry.ID)
	}
	if exit.Status != models.PresenceOut || exit.OutTime == nil {
		t.Fatalf("open log not closed: %+v", exit)
	}
	if exit.Method != "manual" {
		t.Fatalf("method = %q, want the exit's own %q", exit.Method, "manual")
	}

	if _, err := svc.MarkExit(student.ID, "manual"); !errors.Is(err, ErrConflict) {
		t.Fatalf("double exit: got %v, want ErrConflict", err)
	}

	var s models.Student
	db.First(&s, student.ID)
	if s.Presence != models.PresenceOut {
		t.Fatalf("presence = %q, want OUT", s.Presence)
	}
}

func TestMarkEntryUnknownStudent(t *testing.T) {
	db := openTestDB(t)
	seedFamily(t, db)
	svc := NewEntryExitService(db)

	if _, err := svc.MarkEntry(9999, "qr"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := svc.MarkEntry(1, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing method: got %v, want ErrValidation", err)
	}
}

func TestConcurrentEntry(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewEntryExitService(db)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.MarkEntry(student.ID, "qr")
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly 1 each", ok, conflict)
	}
	var open int64
	db.Model(&models.EntryExitLog{}).
		Where("student_id = ? AND status = ?", student.ID, models.PresenceIn).Count(&open)
	if open != 1 {
		t.Fatalf("%d open IN logs, want 1", open)
	}
}

func TestResolveStudent(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewEntryExitService(db)

	byRoll, err := svc.ResolveStudent("H-1001")
	if err != nil || byRoll.ID != student.ID {
		t.Fatalf("by roll: %v, %+v", err, byRoll)
	}
	byID, err := svc.ResolveStudent("1")
	if err != nil || byID.ID != student.ID {
		t.Fatalf("by id: %v, %+v", err, byID)
	}
	if _, err := svc.ResolveStudent("H-9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing roll: got %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolveStudent("  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank ref: got %v, want ErrValidation", err)
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewEntryExitService(db)

	if _, err := svc.MarkEntry(student.ID, "qr"); err != nil {
		t.Fatalf("entry: %v", err)
	}
	if _, err := svc.MarkExit(student.ID, "qr"); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if _, err := svc.MarkEntry(student.ID, "manual"); err != nil {
		t.Fatalf("second entry: %v", err)
	}

	all, err := svc.List(EntryExitFilter{StudentID: student.ID})
	if err != nil || len(all) != 2 {
		t.Fatalf("all logs: %v, %d rows", err, len(all))
	}
	open, err := svc.List(EntryExitFilter{StudentID: student.ID, Status: models.PresenceIn})
	if err != nil || len(open) != 1 {
		t.Fatalf("open logs: %v, %d rows", err, len(open))
	}
}
