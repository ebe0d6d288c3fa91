package models

import "time"

// User is a tracked account. Every attempt and draft is scoped to exactly
// one user; the store offers no cross-user reads.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptFilter narrows an attempt history query.
type AttemptFilter struct {
	UserID     string
	QuestionID string
	Status     Status
	Limit      int
	Offset     int
}

// QuestionFilter narrows a catalog query. Search matches against the
// composite question identifier, case-insensitively.
type QuestionFilter struct {
	Search string
	Year   int
	Paper  int
	Limit  int
	Offset int
}
