package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/database"
	"github.com/prodsmart/core/internal/ports"
)

// Queries are written with "?" placeholders and rebound per driver, so the
// same repository runs on sqlite and postgres. Timestamps are stored as
// RFC3339 text for the same reason.

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toEntity() (*entities.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	return &entities.User{
		ID:           id,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := r.db.Rebind(`
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID.String(), user.Email, user.Name, user.PasswordHash,
		user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	query := r.db.Rebind(`
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE id = ?`)

	var row userRow
	if err := r.db.DB.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return row.toEntity()
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := r.db.Rebind(`
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE email = ?`)

	var row userRow
	if err := r.db.DB.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return row.toEntity()
}
