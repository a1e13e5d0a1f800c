package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// GrowingService manages growing activities: the task schedules generated
// from cultivation manuals, progress tracking and attached expenses
type GrowingService struct {
	repo    repository.GrowingRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewGrowingService creates a new growing service
func NewGrowingService(repo repository.GrowingRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *GrowingService {
	return &GrowingService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ActivityDetail bundles an activity with its schedule, expenses and the
// cultivation manual it came from
type ActivityDetail struct {
	Activity *models.GrowingActivity `json:"activity"`
	Tasks    []*models.ActivityTask  `json:"tasks"`
	Expenses []*models.Expense       `json:"expenses"`
	Guide    *CropGuide              `json:"guide,omitempty"`
	Progress int                     `json:"progress"`
}

// StartActivity creates a growing activity and seeds its task schedule from
// the crop's cultivation manual. Tasks whose week already passed relative to
// the sowing date are created as completed.
func (s *GrowingService) StartActivity(ctx context.Context, userID, cropName string, areaAcres float64, sowingDate time.Time, notes string) (*models.GrowingActivity, error) {
	guide, ok := GuideFor(cropName)
	if !ok {
		return nil, fmt.Errorf("no cultivation manual for crop %q", cropName)
	}
	if areaAcres <= 0 {
		return nil, fmt.Errorf("area must be positive")
	}

	now := time.Now().UTC()
	activity := &models.GrowingActivity{
		ID:           uuid.NewString(),
		UserID:       userID,
		CropName:     strings.ToLower(strings.TrimSpace(cropName)),
		AreaAcres:    areaAcres,
		SowingDate:   sowingDate,
		Status:       models.ActivityStatusActive,
		CurrentStage: guide.StageAt(int(now.Sub(sowingDate).Hours() / 24)),
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tasks := make([]*models.ActivityTask, 0, len(guide.Tasks))
	for _, gt := range guide.Tasks {
		due := sowingDate.AddDate(0, 0, (gt.Week-1)*7)
		task := &models.ActivityTask{
			ID:          uuid.NewString(),
			ActivityID:  activity.ID,
			Week:        gt.Week,
			Description: gt.Description,
			DueDate:     due,
		}
		if due.Before(now.Truncate(24 * time.Hour)) {
			completed := now
			task.CompletedAt = &completed
		}
		tasks = append(tasks, task)
	}

	if err := s.repo.CreateActivity(ctx, activity, tasks); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[GROWING_START] Growing activity started", logging.Fields{
		"activity_id": activity.ID,
		"crop_name":   activity.CropName,
		"task_count":  len(tasks),
	})

	return activity, nil
}

// ListActivities retrieves a user's activities, optionally filtered by
// status
func (s *GrowingService) ListActivities(ctx context.Context, userID string, status *string) ([]*models.GrowingActivity, error) {
	return s.repo.ListActivities(ctx, repository.ActivityFilter{UserID: userID, Status: status})
}

// GetActivityDetail retrieves an activity with its schedule and expenses
func (s *GrowingService) GetActivityDetail(ctx context.Context, id, userID string) (*ActivityDetail, error) {
	activity, err := s.repo.GetActivity(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.ListActivityExpenses(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	detail := &ActivityDetail{
		Activity: activity,
		Tasks:    tasks,
		Expenses: expenses,
		Progress: taskProgress(tasks),
	}
	if guide, ok := GuideFor(activity.CropName); ok {
		detail.Guide = &guide
	}
	return detail, nil
}

// CompleteTask marks a scheduled task done and refreshes the activity's
// stage from the manual
func (s *GrowingService) CompleteTask(ctx context.Context, taskID, activityID, userID string) error {
	if err := s.repo.CompleteTask(ctx, taskID, userID); err != nil {
		return err
	}

	activity, err := s.repo.GetActivity(ctx, activityID, userID)
	if err != nil {
		// Task update succeeded; stage refresh is best-effort.
		s.logger.Warn(ctx, "[GROWING_STAGE_REFRESH] Could not refresh stage after task completion", logging.Fields{
			"activity_id": activityID,
		})
		return nil
	}

	if guide, ok := GuideFor(activity.CropName); ok {
		days := int(time.Now().UTC().Sub(activity.SowingDate).Hours() / 24)
		stage := guide.StageAt(days)
		if stage != activity.CurrentStage {
			if err := s.repo.UpdateActivityStage(ctx, activityID, userID, stage); err != nil {
				s.logger.Warn(ctx, "[GROWING_STAGE_REFRESH] Failed to update stage", logging.Fields{
					"activity_id": activityID,
					"stage":       stage,
				})
			}
		}
	}

	return nil
}

// CompleteActivity marks an activity as harvested
func (s *GrowingService) CompleteActivity(ctx context.Context, id, userID string) error {
	if err := s.repo.CompleteActivity(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info(ctx, "[GROWING_COMPLETE] Growing activity completed", logging.Fields{
		"activity_id": id,
	})
	return nil
}

// AddExpense records a cost entry, optionally attached to an activity
func (s *GrowingService) AddExpense(ctx context.Context, userID, activityID, category string, amount float64, note string, spentAt time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	if activityID != "" {
		// Verify ownership before attaching.
		if _, err := s.repo.GetActivity(ctx, activityID, userID); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		ID:         uuid.NewString(),
		UserID:     userID,
		ActivityID: activityID,
		Category:   category,
		Amount:     amount,
		Note:       note,
		SpentAt:    spentAt,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.AddExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves all of a user's expenses
func (s *GrowingService) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

// DueTasks retrieves a user's incomplete tasks due within the given window
func (s *GrowingService) DueTasks(ctx context.Context, userID string, within time.Duration) ([]*models.ActivityTask, error) {
	return s.repo.ListDueTasks(ctx, userID, time.Now().UTC().Add(within))
}

func taskProgress(tasks []*models.ActivityTask) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed() {
			done++
		}
	}
	return done * 100 / len(tasks)
}
