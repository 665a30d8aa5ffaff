package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
)

type userRepository struct {
	executor DBExecutor
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{executor: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var (
		handicap  sql.NullFloat64
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&handicap,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	user.Handicap = floatPtr(handicap)
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	} else {
		user.UpdatedAt = nil
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, handicap, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.executor.QueryRowContext(ctx, query, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, handicap, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.executor.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}
