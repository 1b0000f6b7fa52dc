package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// UserRepository implements member persistence using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, nickname, password_hash, birth_date, region,
		income_band, education, marital_status, major,
		employment_status, special_group, interests, created_at, updated_at`

// Create inserts a new member. Duplicate email or nickname maps to
// ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, nickname, password_hash, birth_date, region,
		                   income_band, education, marital_status, major,
		                   employment_status, special_group, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.BirthDate,
		user.Region,
		user.IncomeBand,
		user.Education,
		user.MaritalStatus,
		user.Major,
		domain.NormalizeStringSlice(user.EmploymentStatus),
		domain.NormalizeStringSlice(user.SpecialGroup),
		domain.NormalizeStringSlice(user.Interests),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByEmail returns the member with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID returns the member with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Nickname,
		&u.PasswordHash,
		&u.BirthDate,
		&u.Region,
		&u.IncomeBand,
		&u.Education,
		&u.MaritalStatus,
		&u.Major,
		&u.EmploymentStatus,
		&u.SpecialGroup,
		&u.Interests,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// EmailExists reports whether a member with the email is registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

// NicknameExists reports whether the nickname is taken.
func (r *UserRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE nickname = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, nickname).Scan(&exists); err != nil {
		return false, fmt.Errorf("check nickname exists: %w", err)
	}

	return exists, nil
}

// UpdateProfile replaces the editable profile fields of a member.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error {
	query := `
		UPDATE users
		SET region = $2, income_band = $3, education = $4, marital_status = $5,
		    major = $6, employment_status = $7, special_group = $8,
		    interests = $9, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		id,
		profile.Region,
		profile.IncomeBand,
		profile.Education,
		profile.MaritalStatus,
		profile.Major,
		domain.NormalizeStringSlice(profile.EmploymentStatus),
		domain.NormalizeStringSlice(profile.SpecialGroup),
		domain.NormalizeStringSlice(profile.Interests),
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
