package repository

import (
	"context"
	"database/sql"
	"fmt"

	"farmassist/internal/models"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// UserRepository provides data access for farmer accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error

	HealthCheck(ctx context.Context) error
}

type userRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) UserRepository {
	return &userRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateUser inserts a new account. A duplicate email surfaces as a
// constraint violation from the driver.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, state, district, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, "insert_user", query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.State,
		user.District,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CREATE_USER] User created", logging.Fields{
		"user_id": user.ID,
	})

	return nil
}

// GetUserByID retrieves an account by ID
func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, state, district, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, "get_user", &user, query, id)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "user", ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves an account by email
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, state, district, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, "get_user_by_email", &user, query, email)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "user", ID: email}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// UpdateProfile updates the mutable profile fields of an account
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, state = $4, district = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, "update_user", query,
		user.ID,
		user.Name,
		user.Phone,
		user.State,
		user.District,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "user", ID: user.ID}
	}

	return nil
}

// HealthCheck performs a repository health check
func (r *userRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
