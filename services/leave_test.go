package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anishkumar0507/hostelbackend/models"
)

func submitLeave(t *testing.T, svc *LeaveService, student StudentID) *models.LeaveRequest {
	t.Helper()
	out := time.Now().Add(24 * time.Hour)
	req, err := svc.Submit(student, SubmitLeaveInput{
		Category: "Home Visit",
		Reason:   "family function",
		OutTime:  out,
		InTime:   out.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return req
}

func TestSubmitValidation(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewLeaveService(db)

	out := time.Now().Add(24 * time.Hour)
	cases := []struct {
		name string
		in   SubmitLeaveInput
	}{
		{"missing reason", SubmitLeaveInput{Category: "Outing", OutTime: out, InTime: out.Add(time.Hour)}},
		{"missing category", SubmitLeaveInput{Reason: "r", OutTime: out, InTime: out.Add(time.Hour)}},
		{"unknown category", SubmitLeaveInput{Category: "Vacation", Reason: "r", OutTime: out, InTime: out.Add(time.Hour)}},
		{"missing times", SubmitLeaveInput{Category: "Outing", Reason: "r"}},
		{"in before out", SubmitLeaveInput{Category: "Outing", Reason: "r", OutTime: out, InTime: out.Add(-time.Hour)}},
	}
	for _, tt := range cases {
		if _, err := svc.Submit(StudentID(student.ID), tt.in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: got %v, want ErrValidation", tt.name, err)
		}
	}

	var n int64
	db.Model(&models.LeaveRequest{}).Count(&n)
	if n != 0 {
		t.Fatalf("validation failures must not create rows, found %d", n)
	}
}

func TestSubmitCreatesPendingParentWithHistory(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewLeaveService(db)

	req := submitLeave(t, svc, StudentID(student.ID))
	if req.Status != models.LeavePendingParent {
		t.Fatalf("status = %q, want PendingParent", req.Status)
	}

	got, err := svc.Get(req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(got.History))
	}
	ev := got.History[0]
	if ev.Status != models.LeavePendingParent || ev.ActorRole != models.RoleStudent || ev.ActorID != student.ID {
		t.Fatalf("unexpected first history entry: %+v", ev)
	}
}

func TestFullApprovalFlow(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	svc := NewLeaveService(db)

	req := submitLeave(t, svc, StudentID(student.ID))

	afterParent, err := svc.ParentDecide(ParentID(parent.ID), req.ID, true, "")
	if err != nil {
		t.Fatalf("parent approve: %v", err)
	}
	if afterParent.Status != models.LeaveApprovedByParent {
		t.Fatalf("status = %q, want ApprovedByParent", afterParent.Status)
	}
	if afterParent.ParentDecision != models.DecisionApproved || afterParent.ParentDecidedAt == nil {
		t.Fatalf("parent decision not recorded: %+v", afterParent)
	}
	if len(afterParent.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(afterParent.History))
	}

	wardenID := uint(7)
	final, err := svc.WardenDecide(WardenID(wardenID), req.ID, true, "")
	if err != nil {
		t.Fatalf("warden approve: %v", err)
	}
	if final.Status != models.LeaveApproved {
		t.Fatalf("status = %q, want Approved", final.Status)
	}
	if final.ApprovedBy == nil || *final.ApprovedBy != wardenID || final.ApprovedAt == nil {
		t.Fatalf("warden identity/timestamp not stamped: %+v", final)
	}
	if len(final.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(final.History))
	}
}

func TestParentRejectBlocksWarden(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	svc := NewLeaveService(db)

	req := submitLeave(t, svc, StudentID(student.ID))

	rejected, err := svc.ParentDecide(ParentID(parent.ID), req.ID, false, "not convenient")
	if err != nil {
		t.Fatalf("parent reject: %v", err)
	}
	if rejected.Status != models.LeaveRejectedByParent {
		t.Fatalf("status = %q, want RejectedByParent", rejected.Status)
	}
	if rejected.RejectReason != "not convenient" {
		t.Fatalf("reject reason = %q", rejected.RejectReason)
	}
	if len(rejected.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(rejected.History))
	}

	if _, err := svc.WardenDecide(WardenID(7), req.ID, true, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("warden after parent reject: got %v, want ErrConflict", err)
	}
	got, _ := svc.Get(req.ID)
	if got.Status != models.LeaveRejectedByParent || len(got.History) != 2 {
		t.Fatalf("state changed by failed transition: %+v", got)
	}
}

func TestParentRejectRequiresReason(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	svc := NewLeaveService(db)

	req := submitLeave(t, svc, StudentID(student.ID))
	if _, err := svc.ParentDecide(ParentID(parent.ID), req.ID, false, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestParentDecideGuardFailures(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	other := models.Parent{Email: "other@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other parent: %v", err)
	}
	svc := NewLeaveService(db)
	req := submitLeave(t, svc, StudentID(student.ID))

	if _, err := svc.ParentDecide(ParentID(parent.ID), 9999, true, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing request: got %v, want ErrNotFound", err)
	}
	if _, err := svc.ParentDecide(ParentID(other.ID), req.ID, true, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unlinked parent: got %v, want ErrForbidden", err)
	}

	if _, err := svc.ParentDecide(ParentID(parent.ID), req.ID, true, ""); err != nil {
		t.Fatalf("parent approve: %v", err)
	}
	if _, err := svc.ParentDecide(ParentID(parent.ID), req.ID, true, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("already decided: got %v, want ErrConflict", err)
	}
}

func TestConcurrentParentDecide(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	svc := NewLeaveService(db)
	req := submitLeave(t, svc, StudentID(student.ID))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ParentDecide(ParentID(parent.ID), req.ID, true, "")
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

	got, _ := svc.Get(req.ID)
	if got.Status != models.LeaveApprovedByParent {
		t.Fatalf("final status = %q, want ApprovedByParent", got.Status)
	}
	if len(got.History) != 2 {
		t.Fatalf("history length = %d, want 2 (one entry per successful transition)", len(got.History))
	}
}

func TestWardenDecideWrongStatus(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewLeaveService(db)
	req := submitLeave(t, svc, StudentID(student.ID))

	// Parent has not decided yet; the warden path is unreachable.
	if _, err := svc.WardenDecide(WardenID(7), req.ID, true, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if _, err := svc.WardenDecide(WardenID(7), 9999, true, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	got, _ := svc.Get(req.ID)
	if got.Status != models.LeavePendingParent || len(got.History) != 1 {
		t.Fatalf("state changed by failed transition: %+v", got)
	}
}

func TestCancel(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	other := models.Student{
		RollNumber: "H-1002", Name: "Student Two", Email: "s2@example.com",
		Password: "x", Room: "A-13", Presence: models.PresenceOut, Status: "active",
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other student: %v", err)
	}
	svc := NewLeaveService(db)

	req := submitLeave(t, svc, StudentID(student.ID))
	if _, err := svc.Cancel(StudentID(other.ID), req.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cancel by other student: got %v, want ErrForbidden", err)
	}

	cancelled, err := svc.Cancel(StudentID(student.ID), req.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.LeaveCancelled || len(cancelled.History) != 2 {
		t.Fatalf("unexpected cancelled state: %+v", cancelled)
	}

	// Once the parent has decided, cancellation is off the table.
	second := submitLeave(t, svc, StudentID(student.ID))
	if _, err := svc.ParentDecide(ParentID(parent.ID), second.ID, true, ""); err != nil {
		t.Fatalf("parent approve: %v", err)
	}
	if _, err := svc.Cancel(StudentID(student.ID), second.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("cancel after parent decision: got %v, want ErrConflict", err)
	}
}

func TestListScopes(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	svc := NewLeaveService(db)

	first := submitLeave(t, svc, StudentID(student.ID))
	submitLeave(t, svc, StudentID(student.ID))
	if _, err := svc.Cancel(StudentID(student.ID), first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	mine, err := svc.ListForStudent(StudentID(student.ID), "")
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListForStudent: %v, %d rows", err, len(mine))
	}
	pending, err := svc.ListForParent(ParentID(parent.ID), models.LeavePendingParent)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListForParent(PendingParent): %v, %d rows", err, len(pending))
	}
	all, err := svc.ListAll("")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: %v, %d rows", err, len(all))
	}
}
