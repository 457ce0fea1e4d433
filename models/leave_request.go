package models

import "time"

// Leave request statuses. A request walks student → parent → warden;
// "Pending" is the legacy initial value still found in old rows and is
// treated like PendingParent for cancellation.
const (
	LeavePending          = "Pending"
	LeavePendingParent    = "PendingParent"
	LeaveApprovedByParent = "ApprovedByParent"
	LeaveRejectedByParent = "RejectedByParent"
	LeaveApproved         = "Approved"
	LeaveRejected         = "Rejected"
	LeaveCancelled        = "Cancelled"
)

// Parent decision values kept on the request row.
const (
	DecisionPending  = "Pending"
	DecisionApproved = "Approved"
	DecisionRejected = "Rejected"
)

// Outing categories accepted on submission.
var LeaveCategories = []string{"Home Visit", "Medical", "Outing", "Other"}

// leaveTransitions maps a target status to the statuses a request must
// currently be in for the move to be legal.
var leaveTransitions = map[string][]string{
	LeaveApprovedByParent: {LeavePendingParent},
	LeaveRejectedByParent: {LeavePendingParent},
	LeaveApproved:         {LeaveApprovedByParent},
	LeaveRejected:         {LeaveApprovedByParent},
	LeaveCancelled:        {LeavePending, LeavePendingParent},
}

// LeaveAllowedFrom returns the statuses from which target is reachable.
// The returned slice feeds the status guard of the conditional update;
// callers must not mutate it.
func LeaveAllowedFrom(target string) []string {
	return leaveTransitions[target]
}

func ValidLeaveTransition(from, to string) bool {
	for _, s := range leaveTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IsTerminalLeaveStatus reports whether no further transition is
// defined from the given status.
func IsTerminalLeaveStatus(status string) bool {
	for _, froms := range leaveTransitions {
		for _, s := range froms {
			if s == status {
				return false
			}
		}
	}
	return true
}

func ValidLeaveCategory(cat string) bool {
	for _, c := range LeaveCategories {
		if c == cat {
			return true
		}
	}
	return false
}

type LeaveRequest struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	StudentID       uint       `json:"student_id" gorm:"index;not null"`
	Category        string     `json:"category" gorm:"size:40;not null"`
	Reason          string     `json:"reason" gorm:"type:text;not null"`
	OutTime         time.Time  `json:"out_time" gorm:"not null"`
	InTime          time.Time  `json:"in_time" gorm:"not null"`
	OutTimeText     string     `json:"out_time_text" gorm:"size:20"` // optional "HH:MM" as entered
	InTimeText      string     `json:"in_time_text" gorm:"size:20"`
	Status          string     `json:"status" gorm:"size:20;not null;index"`
	ParentDecision  string     `json:"parent_decision" gorm:"size:10;not null;default:'Pending'"`
	ParentDecidedAt *time.Time `json:"parent_decided_at"`
	ApprovedBy      *uint      `json:"approved_by"` // warden user id, approve or reject
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectReason    string     `json:"reject_reason" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	History []LeaveEvent `json:"history,omitempty" gorm:"foreignKey:LeaveRequestID"`
}

// LeaveEvent is one entry of the append-only audit trail. Rows are only
// ever inserted, never updated or deleted.
type LeaveEvent struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	LeaveRequestID uint      `json:"leave_request_id" gorm:"index;not null"`
	Status         string    `json:"status" gorm:"size:20;not null"`
	ActorID        uint      `json:"actor_id" gorm:"not null"`
	ActorRole      string    `json:"actor_role" gorm:"size:10;not null"`
	Reason         string    `json:"reason" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}
