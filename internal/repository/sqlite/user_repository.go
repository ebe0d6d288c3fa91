package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates the SQLite-backed UserRepository.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email: email=%s", email)

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE email = ?`, normalizeEmail(email)).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by email: %v", err)
		return nil, err
	}
	return &u, nil
}

// Upsert returns the existing account for the email, creating one on
// first sight. The email is the stable identity; the id is assigned here.
func (r *userRepository) Upsert(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	email = normalizeEmail(email)

	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	u := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	log.Debug("creating user: id=%s, email=%s", u.ID, u.Email)
	_, err = r.db.ExecContext(ctx, `INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Email, u.CreatedAt)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id, email, created_at FROM users ORDER BY email ASC`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete user: %v", err)
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
