package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmassist/internal/models"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// GrowingRepository provides data access for growing activities, their
// scheduled tasks and attached expenses
type GrowingRepository interface {
	// Activity operations
	CreateActivity(ctx context.Context, activity *models.GrowingActivity, tasks []*models.ActivityTask) error
	GetActivity(ctx context.Context, id, userID string) (*models.GrowingActivity, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]*models.GrowingActivity, error)
	UpdateActivityStage(ctx context.Context, id, userID, stage string) error
	CompleteActivity(ctx context.Context, id, userID string) error

	// Task operations
	ListTasks(ctx context.Context, activityID string) ([]*models.ActivityTask, error)
	ListDueTasks(ctx context.Context, userID string, due time.Time) ([]*models.ActivityTask, error)
	CompleteTask(ctx context.Context, taskID, userID string) error

	// Expense operations
	AddExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error)
	ListActivityExpenses(ctx context.Context, activityID string) ([]*models.Expense, error)
}

// ActivityFilter defines filters for querying growing activities
type ActivityFilter struct {
	UserID string
	Status *string
}

type growingRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewGrowingRepository creates a new growing repository
func NewGrowingRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) GrowingRepository {
	return &growingRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateActivity inserts an activity and its generated task schedule in one
// transaction
func (r *growingRepository) CreateActivity(ctx context.Context, activity *models.GrowingActivity, tasks []*models.ActivityTask) error {
	timer := time.Now()
	defer func() {
		r.logger.Debug(ctx, "[REPO_CREATE_ACTIVITY] Activity created", logging.Fields{
			"activity_id": activity.ID,
			"task_count":  len(tasks),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO growing_activities (
			id, user_id, crop_name, area_acres, sowing_date,
			status, current_stage, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		activity.ID,
		activity.UserID,
		activity.CropName,
		activity.AreaAcres,
		activity.SowingDate,
		activity.Status,
		activity.CurrentStage,
		activity.Notes,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	if len(tasks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO activity_tasks (id, activity_id, week, description, due_date, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, task := range tasks {
			_, err := stmt.ExecContext(ctx,
				task.ID,
				task.ActivityID,
				task.Week,
				task.Description,
				task.DueDate,
				task.CompletedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert task: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetActivity retrieves one activity scoped to its owner
func (r *growingRepository) GetActivity(ctx context.Context, id, userID string) (*models.GrowingActivity, error) {
	query := `
		SELECT id, user_id, crop_name, area_acres, sowing_date,
		       status, current_stage, notes, completed_at, created_at, updated_at
		FROM growing_activities
		WHERE id = $1 AND user_id = $2
	`

	var activity models.GrowingActivity
	err := r.db.GetContext(ctx, "get_activity", &activity, query, id, userID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "growing_activity", ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return &activity, nil
}

// ListActivities retrieves a user's activities with optional status filter
func (r *growingRepository) ListActivities(ctx context.Context, filter ActivityFilter) ([]*models.GrowingActivity, error) {
	query := `
		SELECT id, user_id, crop_name, area_acres, sowing_date,
		       status, current_stage, notes, completed_at, created_at, updated_at
		FROM growing_activities
		WHERE user_id = $1
	`
	args := []interface{}{filter.UserID}

	if filter.Status != nil {
		query += " AND status = $2"
		args = append(args, *filter.Status)
	}

	query += " ORDER BY sowing_date DESC"

	var activities []*models.GrowingActivity
	err := r.db.SelectContext(ctx, "list_activities", &activities, query, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, nil
}

// UpdateActivityStage records the current growth stage of an activity
func (r *growingRepository) UpdateActivityStage(ctx context.Context, id, userID, stage string) error {
	query := `
		UPDATE growing_activities
		SET current_stage = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, "update_activity_stage", query, id, userID, stage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update activity stage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "growing_activity", ID: id}
	}

	return nil
}

// CompleteActivity marks an activity as harvested
func (r *growingRepository) CompleteActivity(ctx context.Context, id, userID string) error {
	query := `
		UPDATE growing_activities
		SET status = $3, completed_at = $4, updated_at = $4
		WHERE id = $1 AND user_id = $2 AND status = $5
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, "complete_activity", query,
		id, userID, models.ActivityStatusCompleted, now, models.ActivityStatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "growing_activity", ID: id}
	}

	return nil
}

// ListTasks retrieves the task schedule for an activity in week order
func (r *growingRepository) ListTasks(ctx context.Context, activityID string) ([]*models.ActivityTask, error) {
	query := `
		SELECT id, activity_id, week, description, due_date, completed_at
		FROM activity_tasks
		WHERE activity_id = $1
		ORDER BY week, due_date
	`

	var tasks []*models.ActivityTask
	err := r.db.SelectContext(ctx, "list_tasks", &tasks, query, activityID)

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListDueTasks retrieves incomplete tasks across a user's active activities
// that are due on or before the given time
func (r *growingRepository) ListDueTasks(ctx context.Context, userID string, due time.Time) ([]*models.ActivityTask, error) {
	query := `
		SELECT t.id, t.activity_id, t.week, t.description, t.due_date, t.completed_at
		FROM activity_tasks t
		JOIN growing_activities a ON a.id = t.activity_id
		WHERE a.user_id = $1
		  AND a.status = $2
		  AND t.completed_at IS NULL
		  AND t.due_date <= $3
		ORDER BY t.due_date
	`

	var tasks []*models.ActivityTask
	err := r.db.SelectContext(ctx, "list_due_tasks", &tasks, query, userID, models.ActivityStatusActive, due)

	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	return tasks, nil
}

// CompleteTask marks one scheduled task as done. The join scopes the update
// to the task owner.
func (r *growingRepository) CompleteTask(ctx context.Context, taskID, userID string) error {
	query := `
		UPDATE activity_tasks t
		SET completed_at = $3
		FROM growing_activities a
		WHERE t.id = $1
		  AND a.id = t.activity_id
		  AND a.user_id = $2
		  AND t.completed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, "complete_task", query, taskID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "activity_task", ID: taskID}
	}

	return nil
}

// AddExpense records a cost entry
func (r *growingRepository) AddExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, activity_id, category, amount, note, spent_at, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, "insert_expense", query,
		expense.ID,
		expense.UserID,
		expense.ActivityID,
		expense.Category,
		expense.Amount,
		expense.Note,
		expense.SpentAt,
		expense.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add expense: %w", err)
	}

	return nil
}

// ListExpenses retrieves all of a user's expenses, newest first
func (r *growingRepository) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	query := `
		SELECT id, user_id, COALESCE(activity_id, '') AS activity_id,
		       category, amount, note, spent_at, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY spent_at DESC
	`

	var expenses []*models.Expense
	err := r.db.SelectContext(ctx, "list_expenses", &expenses, query, userID)

	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

// ListActivityExpenses retrieves the expenses attached to one activity
func (r *growingRepository) ListActivityExpenses(ctx context.Context, activityID string) ([]*models.Expense, error) {
	query := `
		SELECT id, user_id, COALESCE(activity_id, '') AS activity_id,
		       category, amount, note, spent_at, created_at
		FROM expenses
		WHERE activity_id = $1
		ORDER BY spent_at DESC
	`

	var expenses []*models.Expense
	err := r.db.SelectContext(ctx, "list_activity_expenses", &expenses, query, activityID)

	if err != nil {
		return nil, fmt.Errorf("failed to list activity expenses: %w", err)
	}

	return expenses, nil
}
