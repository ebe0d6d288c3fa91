package repository

import (
	"context"

	"github.com/steptracker/steptracker/internal/models"
)

// AttemptRepository is the attempt store contract. Attempts are immutable
// once appended; the only mutation is deletion.
type AttemptRepository interface {
	// Append writes a new record, assigning its reference and a
	// store-side timestamp that is strictly increasing across appends.
	Append(ctx context.Context, attempt models.Attempt) (models.Attempt, error)
	Get(ctx context.Context, ref string) (*models.Attempt, error)
	// ListCompleted returns a question's completed attempts, newest first.
	ListCompleted(ctx context.Context, userID, questionID string) ([]models.Attempt, error)
	// ListAllForUser returns every attempt for one user across all
	// questions, newest first, with catalog tags attached.
	ListAllForUser(ctx context.Context, userID string) ([]models.Attempt, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	Count(ctx context.Context, filter models.AttemptFilter) (int, error)
	// Delete removes one record by reference. Deleting a record that is
	// already gone is not an error.
	Delete(ctx context.Context, ref string) error
}

// DraftRepository stores the transient working copy per (user, question).
type DraftRepository interface {
	// Put overwrites the draft for the attempt it shadows.
	Put(ctx context.Context, draft models.Draft) error
	// Get returns nil when no draft exists yet.
	Get(ctx context.Context, userID, questionID string) (*models.Draft, error)
	Delete(ctx context.Context, userID, questionID string) error
}

// QuestionRepository is the question catalog.
type QuestionRepository interface {
	Upsert(ctx context.Context, question models.Question) error
	Get(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
}

// UserRepository handles account data access.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}
