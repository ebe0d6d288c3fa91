package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates the SQLite-backed QuestionRepository.
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Upsert(ctx context.Context, q models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("upserting question: id=%s", q.ID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO questions (id, year, paper, number, tags, image_path)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    tags = excluded.tags,
    image_path = excluded.image_path
`, q.ID, q.Year, q.Paper, q.Number, encodeTags(q.Tags), q.ImagePath)
	if err != nil {
		log.Error("failed to upsert question: %v", err)
	}
	return err
}

func (r *questionRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("getting question: id=%s", id)

	var q models.Question
	var tags sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT id, year, paper, number, tags, image_path
FROM questions
WHERE id = ?
`, id).Scan(&q.ID, &q.Year, &q.Paper, &q.Number, &tags, &q.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question: %v", err)
		return nil, err
	}
	q.Tags = decodeTags(tags)
	return &q, nil
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("listing questions: search=%q, year=%d, paper=%d", filter.Search, filter.Year, filter.Paper)

	query := r.filtered(sqlBuilder.Select("id", "year", "paper", "number", "tags", "image_path").From("questions"), filter).
		OrderBy("year ASC", "paper ASC", "number ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
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
		log.Error("failed to list questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var tags sql.NullString
		if err := rows.Scan(&q.ID, &q.Year, &q.Paper, &q.Number, &tags, &q.ImagePath); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		q.Tags = decodeTags(tags)
		questions = append(questions, q)
	}
	log.Debug("found %d questions", len(questions))
	return questions, rows.Err()
}

func (r *questionRepository) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	sqlStr, args, err := r.filtered(sqlBuilder.Select("COUNT(*)").From("questions"), filter).ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count questions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *questionRepository) filtered(query squirrel.SelectBuilder, filter models.QuestionFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		query = query.Where(squirrel.Like{"LOWER(id)": "%" + strings.ToLower(filter.Search) + "%"})
	}
	if filter.Year > 0 {
		query = query.Where(squirrel.Eq{"year": filter.Year})
	}
	if filter.Paper > 0 {
		query = query.Where(squirrel.Eq{"paper": filter.Paper})
	}
	return query
}
