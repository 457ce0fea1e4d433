package services

// Distinct identity types per role. Engine operations take the exact
// role they are gated on, so a handler cannot hand a parent id to a
// warden-stage transition by mistake.
type (
	StudentID uint
	ParentID  uint
	WardenID  uint
)
