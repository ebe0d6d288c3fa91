package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

type attemptRepository struct {
	db *sql.DB

	// Appends serialize through this mutex so the assigned timestamp is
	// strictly increasing: two attempts never compare equal on the
	// ordering key, even inside one clock tick.
	mu     sync.Mutex
	lastAt time.Time
}

// NewAttemptRepository creates the SQLite-backed AttemptRepository.
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) nextTimestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(r.lastAt) {
		now = r.lastAt.Add(time.Microsecond)
	}
	r.lastAt = now
	return now
}

func (r *attemptRepository) Append(ctx context.Context, a models.Attempt) (models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	a.Ref = uuid.NewString()
	a.CreatedAt = r.nextTimestamp()
	log.Debug("appending attempt: ref=%s, user_id=%s, question_id=%s, status=%s", a.Ref, a.UserID, a.QuestionID, a.Status)

	var timeSeconds any
	if a.TimeSeconds != nil {
		timeSeconds = *a.TimeSeconds
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (ref, user_id, question_id, status, time_seconds, difficulty, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, a.Ref, a.UserID, a.QuestionID, string(a.Status), timeSeconds, a.Difficulty, a.Notes, a.CreatedAt)
	if err != nil {
		log.Error("failed to append attempt: %v", err)
		return models.Attempt{}, err
	}
	log.Debug("attempt appended: ref=%s", a.Ref)
	return a, nil
}

func (r *attemptRepository) Get(ctx context.Context, ref string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting attempt: ref=%s", ref)

	row := r.db.QueryRowContext(ctx, `
SELECT a.ref, a.user_id, a.question_id, a.status, a.time_seconds, a.difficulty, a.notes, a.created_at, q.tags
FROM attempts a
LEFT JOIN questions q ON q.id = a.question_id
WHERE a.ref = ?
`, ref)
	a, err := scanAttempt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("attempt not found: ref=%s", ref)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepository) ListCompleted(ctx context.Context, userID, questionID string) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing completed attempts: user_id=%s, question_id=%s", userID, questionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT a.ref, a.user_id, a.question_id, a.status, a.time_seconds, a.difficulty, a.notes, a.created_at, q.tags
FROM attempts a
LEFT JOIN questions q ON q.id = a.question_id
WHERE a.user_id = ? AND a.question_id = ? AND a.status = ?
ORDER BY a.created_at DESC
`, userID, questionID, string(models.StatusCompleted))
	if err != nil {
		log.Error("failed to query completed attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	if err != nil {
		log.Error("failed to scan attempt row: %v", err)
		return nil, err
	}
	log.Debug("found %d completed attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) ListAllForUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing all attempts: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT a.ref, a.user_id, a.question_id, a.status, a.time_seconds, a.difficulty, a.notes, a.created_at, q.tags
FROM attempts a
LEFT JOIN questions q ON q.id = a.question_id
WHERE a.user_id = ?
ORDER BY a.created_at DESC
`, userID)
	if err != nil {
		log.Error("failed to query attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	if err != nil {
		log.Error("failed to scan attempt row: %v", err)
		return nil, err
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts with filter: user_id=%s, question_id=%s, status=%s", filter.UserID, filter.QuestionID, filter.Status)

	query := sqlBuilder.Select(
		"a.ref", "a.user_id", "a.question_id", "a.status", "a.time_seconds",
		"a.difficulty", "a.notes", "a.created_at", "q.tags",
	).From("attempts a").
		LeftJoin("questions q ON q.id = a.question_id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"a.user_id": filter.UserID})
	}
	if filter.QuestionID != "" {
		query = query.Where(squirrel.Eq{"a.question_id": filter.QuestionID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"a.status": string(filter.Status)})
	}

	query = query.OrderBy("a.created_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	if err != nil {
		log.Error("failed to scan attempt row: %v", err)
		return nil, err
	}
	return attempts, rows.Err()
}

func (r *attemptRepository) Count(ctx context.Context, filter models.AttemptFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query := sqlBuilder.Select("COUNT(*)").From("attempts a")
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"a.user_id": filter.UserID})
	}
	if filter.QuestionID != "" {
		query = query.Where(squirrel.Eq{"a.question_id": filter.QuestionID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"a.status": string(filter.Status)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *attemptRepository) Delete(ctx context.Context, ref string) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("deleting attempt: ref=%s", ref)

	res, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE ref = ?`, ref)
	if err != nil {
		log.Error("failed to delete attempt: %v", err)
		return err
	}
	// Repeat deletes are fine: a record that is already gone stays gone.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("attempt already deleted: ref=%s", ref)
	}
	return nil
}

type scanFunc func(dest ...any) error

func scanAttempt(scan scanFunc) (models.Attempt, error) {
	var a models.Attempt
	var timeSeconds sql.NullInt64
	var tags sql.NullString
	err := scan(&a.Ref, &a.UserID, &a.QuestionID, (*string)(&a.Status), &timeSeconds, &a.Difficulty, &a.Notes, &a.CreatedAt, &tags)
	if err != nil {
		return models.Attempt{}, err
	}
	if timeSeconds.Valid {
		v := int(timeSeconds.Int64)
		a.TimeSeconds = &v
	}
	a.Tags = decodeTags(tags)
	return a, nil
}

func collectAttempts(rows *sql.Rows) ([]models.Attempt, error) {
	var attempts []models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
