package models

import "testing"

func TestValidLeaveTransition(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		valid bool
	}{
		{LeavePendingParent, LeaveApprovedByParent, true},
		{LeavePendingParent, LeaveRejectedByParent, true},
		{LeavePendingParent, LeaveApproved, false},
		{LeavePendingParent, LeaveCancelled, true},
		{LeavePending, LeaveCancelled, true},
		{LeaveApprovedByParent, LeaveApproved, true},
		{LeaveApprovedByParent, LeaveRejected, true},
		{LeaveApprovedByParent, LeaveCancelled, false},
		{LeaveApprovedByParent, LeaveRejectedByParent, false},
		{LeaveRejectedByParent, LeaveApproved, false},
		{LeaveApproved, LeaveCancelled, false},
		{LeaveRejected, LeaveApproved, false},
		{LeaveCancelled, LeaveApprovedByParent, false},
	}

	for _, tt := range cases {
		if got := ValidLeaveTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidLeaveTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestIsTerminalLeaveStatus(t *testing.T) {
	terminal := []string{LeaveApproved, LeaveRejected, LeaveRejectedByParent, LeaveCancelled}
	for _, s := range terminal {
		if !IsTerminalLeaveStatus(s) {
			t.Fatalf("expected %q to be terminal", s)
		}
	}
	open := []string{LeavePending, LeavePendingParent, LeaveApprovedByParent}
	for _, s := range open {
		if IsTerminalLeaveStatus(s) {
			t.Fatalf("expected %q to be non-terminal", s)
		}
	}
}
