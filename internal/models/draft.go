package models

import "time"

// Draft is the transient, unsynced working copy of an in-progress attempt,
// keyed by (user, question). It is created on first interaction, overwritten
// on every edit, and deleted once committed as a real Attempt.
type Draft struct {
	UserID         string    `json:"user_id"`
	QuestionID     string    `json:"question_id"`
	Status         Status    `json:"status"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Difficulty     int       `json:"difficulty"` // 0 means unrated
	Notes          string    `json:"notes"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Committable reports whether the draft can be committed as a completed
// attempt: status must be completed and a difficulty rating must be set.
func (d Draft) Committable() bool {
	return d.Status == StatusCompleted && d.Difficulty > 0
}

// EmptyDraft is what a question shows before any interaction.
func EmptyDraft(userID, questionID string) Draft {
	return Draft{
		UserID:     userID,
		QuestionID: questionID,
		Status:     StatusNotStarted,
	}
}
