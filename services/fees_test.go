package services

import (
	"errors"
	"testing"

	"github.com/anishkumar0507/hostelbackend/models"
)

func seedFees(t *testing.T, svc *FeeService, studentID uint, amounts ...float64) []models.Fee {
	t.Helper()
	fees := make([]models.Fee, 0, len(amounts))
	for i, a := range amounts {
		fee, err := svc.Create(WardenID(1), studentID, a, "2026 Sem 1")
		if err != nil {
			t.Fatalf("create fee %d: %v", i, err)
		}
		fees = append(fees, *fee)
	}
	return fees
}

func TestComputeDue(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)

	due, err := svc.ComputeDue(student.ID)
	if err != nil || due != 0 {
		t.Fatalf("empty ledger: due=%v err=%v, want 0", due, err)
	}

	seedFees(t, svc, student.ID, 500, 300)
	due, err = svc.ComputeDue(student.ID)
	if err != nil || due != 800 {
		t.Fatalf("due=%v err=%v, want 800", due, err)
	}
}

func TestSettleAmountMismatch(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)
	seedFees(t, svc, student.ID, 500, 300)

	for _, amount := range []float64{0, 500, 799.99, 800.01} {
		if _, err := svc.SettleByStudent(StudentID(student.ID), amount, "UPI", ""); !errors.Is(err, ErrAmountMismatch) {
			t.Fatalf("Settle(%v): got %v, want ErrAmountMismatch", amount, err)
		}
	}

	fees, _ := svc.ListForStudent(student.ID, "")
	for _, f := range fees {
		if f.Status != models.FeePending {
			t.Fatalf("fee %d mutated by failed settlement: %+v", f.ID, f)
		}
	}
	var payments int64
	db.Model(&models.Payment{}).Count(&payments)
	if payments != 0 {
		t.Fatalf("failed settlement wrote %d payment rows", payments)
	}
}

func TestSettleNegativeAmount(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)

	if _, err := svc.SettleByStudent(StudentID(student.ID), -1, "UPI", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if _, err := svc.SettleByStudent(StudentID(student.ID), 10, "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing method: got %v, want ErrValidation", err)
	}
}

func TestSettleFullBalance(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)
	seedFees(t, svc, student.ID, 500, 300)

	res, err := svc.SettleByStudent(StudentID(student.ID), 800, "UPI", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.ReceiptNo == "" {
		t.Fatal("no receipt assigned")
	}
	if len(res.Settled) != 2 {
		t.Fatalf("settled %d fees, want 2", len(res.Settled))
	}
	for _, f := range res.Settled {
		if f.Status != models.FeePaid {
			t.Fatalf("fee %d not paid: %+v", f.ID, f)
		}
		if f.ReceiptNo != res.ReceiptNo {
			t.Fatalf("fee %d receipt %q, want shared %q", f.ID, f.ReceiptNo, res.ReceiptNo)
		}
		if f.PaidAt == nil || f.PaidByRole != models.RoleStudent || f.PaidByID != student.ID {
			t.Fatalf("payer not stamped on fee %d: %+v", f.ID, f)
		}
	}

	var payments []models.Payment
	db.Find(&payments)
	if len(payments) != 1 {
		t.Fatalf("%d payment rows, want 1", len(payments))
	}
	p := payments[0]
	if p.Amount != 800 || p.Method != "UPI" || p.Status != models.PaymentCompleted || p.StudentID != student.ID {
		t.Fatalf("unexpected payment row: %+v", p)
	}

	// Already settled: a zero settlement is an idempotent success.
	again, err := svc.SettleByStudent(StudentID(student.ID), 0, "UPI", "")
	if err != nil {
		t.Fatalf("settle on empty balance: %v", err)
	}
	if len(again.Settled) != 0 || again.ReceiptNo != "" {
		t.Fatalf("no-op settlement produced mutations: %+v", again)
	}
	db.Find(&payments)
	if len(payments) != 1 {
		t.Fatalf("no-op settlement wrote a payment row")
	}
}

func TestSettleByParent(t *testing.T) {
	db := openTestDB(t)
	student, parent := seedFamily(t, db)
	other := models.Parent{Email: "other@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other parent: %v", err)
	}
	svc := NewFeeService(db)
	seedFees(t, svc, student.ID, 250)

	if _, err := svc.SettleByParent(ParentID(other.ID), student.ID, 250, "UPI", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unlinked parent: got %v, want ErrForbidden", err)
	}
	if _, err := svc.SettleByParent(ParentID(parent.ID), 9999, 250, "UPI", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing student: got %v, want ErrNotFound", err)
	}

	res, err := svc.SettleByParent(ParentID(parent.ID), student.ID, 250, "UPI", "upi-ref-1")
	if err != nil {
		t.Fatalf("settle by parent: %v", err)
	}
	if res.Settled[0].PaidByRole != models.RoleParent || res.Settled[0].PaidByID != parent.ID {
		t.Fatalf("payer not stamped: %+v", res.Settled[0])
	}
	var p models.Payment
	if err := db.First(&p).Error; err != nil {
		t.Fatalf("payment row: %v", err)
	}
	if p.TransactionRef != "upi-ref-1" || p.PayerRole != models.RoleParent {
		t.Fatalf("unexpected payment row: %+v", p)
	}
}

func TestMarkPaidManually(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)
	fees := seedFees(t, svc, student.ID, 500)

	fee, err := svc.MarkPaidManually(WardenID(3), fees[0].ID, "")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if fee.Status != models.FeePaid || fee.ReceiptNo == "" || fee.PaidByRole != models.RoleWarden || fee.PaidByID != 3 {
		t.Fatalf("unexpected fee after override: %+v", fee)
	}

	if _, err := svc.MarkPaidManually(WardenID(3), fees[0].ID, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("second override: got %v, want ErrConflict", err)
	}
	if _, err := svc.MarkPaidManually(WardenID(3), 9999, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing fee: got %v, want ErrNotFound", err)
	}

	// The override never touches the settlement ledger.
	var payments int64
	db.Model(&models.Payment{}).Count(&payments)
	if payments != 0 {
		t.Fatalf("override wrote %d payment rows", payments)
	}
}

func TestDeleteFee(t *testing.T) {
	db := openTestDB(t)
	student, _ := seedFamily(t, db)
	svc := NewFeeService(db)
	fees := seedFees(t, svc, student.ID, 500, 300)

	if _, err := svc.MarkPaidManually(WardenID(3), fees[0].ID, ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := svc.Delete(WardenID(3), fees[0].ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete paid fee: got %v, want ErrConflict", err)
	}
	if err := svc.Delete(WardenID(3), fees[1].ID); err != nil {
		t.Fatalf("delete pending fee: %v", err)
	}
	if err := svc.Delete(WardenID(3), fees[1].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: got %v, want ErrNotFound", err)
	}
}
