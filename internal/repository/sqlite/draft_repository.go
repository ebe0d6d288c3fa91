package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates the SQLite-backed DraftRepository.
func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Put(ctx context.Context, d models.Draft) error {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("saving draft: user_id=%s, question_id=%s, status=%s", d.UserID, d.QuestionID, d.Status)

	d.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO drafts (user_id, question_id, status, elapsed_seconds, difficulty, notes, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, question_id) DO UPDATE SET
    status = excluded.status,
    elapsed_seconds = excluded.elapsed_seconds,
    difficulty = excluded.difficulty,
    notes = excluded.notes,
    updated_at = excluded.updated_at
`, d.UserID, d.QuestionID, string(d.Status), d.ElapsedSeconds, d.Difficulty, d.Notes, d.UpdatedAt)
	if err != nil {
		log.Error("failed to save draft: %v", err)
	}
	return err
}

func (r *draftRepository) Get(ctx context.Context, userID, questionID string) (*models.Draft, error) {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("getting draft: user_id=%s, question_id=%s", userID, questionID)

	var d models.Draft
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, question_id, status, elapsed_seconds, difficulty, notes, updated_at
FROM drafts
WHERE user_id = ? AND question_id = ?
`, userID, questionID).Scan(&d.UserID, &d.QuestionID, (*string)(&d.Status), &d.ElapsedSeconds, &d.Difficulty, &d.Notes, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no draft: user_id=%s, question_id=%s", userID, questionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get draft: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *draftRepository) Delete(ctx context.Context, userID, questionID string) error {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("deleting draft: user_id=%s, question_id=%s", userID, questionID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE user_id = ? AND question_id = ?`, userID, questionID)
	if err != nil {
		log.Error("failed to delete draft: %v", err)
	}
	return err
}
