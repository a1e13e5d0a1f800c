package services

import (
	"context"
	"fmt"
	"time"

	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

const (
	// Notification windows for due tasks and approaching harvests.
	taskNoticeWindow    = 7 * 24 * time.Hour
	harvestNoticeDays   = 7
	notificationPending = "high"
)

// DashboardStats summarizes the user's saved and active items
type DashboardStats struct {
	TotalRecommendations int     `json:"total_recommendations"`
	CropsSuggested       int     `json:"crops_suggested"`
	FertilizersSaved     int     `json:"fertilizers_saved"`
	ActiveCrops          int     `json:"active_crops"`
	TotalExpenses        float64 `json:"total_expenses"`
}

// DashboardOverview is the aggregate payload for the dashboard page
type DashboardOverview struct {
	User             *models.User              `json:"user"`
	SavedCrops       []*models.SavedCrop       `json:"saved_crops"`
	SavedFertilizers []*models.SavedFertilizer `json:"saved_fertilizers"`
	Activities       []*models.GrowingActivity `json:"growing_activities"`
	Notifications    []models.Notification     `json:"notifications"`
	Stats            DashboardStats            `json:"stats"`
}

// DashboardService assembles the per-user dashboard overview
type DashboardService struct {
	users           repository.UserRepository
	recommendations repository.RecommendationRepository
	growing         repository.GrowingRepository
	logger          *logging.StructuredLogger
	metrics         *metrics.Collector
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	users repository.UserRepository,
	recommendations repository.RecommendationRepository,
	growing repository.GrowingRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *DashboardService {
	return &DashboardService{
		users:           users,
		recommendations: recommendations,
		growing:         growing,
		logger:          logger,
		metrics:         metricsCollector,
	}
}

// Overview gathers everything the dashboard shows for one user
func (s *DashboardService) Overview(ctx context.Context, userID string) (*DashboardOverview, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	crops, err := s.recommendations.ListCrops(ctx, userID)
	if err != nil {
		return nil, err
	}

	fertilizers, err := s.recommendations.ListFertilizers(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := models.ActivityStatusActive
	activities, err := s.growing.ListActivities(ctx, repository.ActivityFilter{
		UserID: userID,
		Status: &active,
	})
	if err != nil {
		return nil, err
	}

	expenses, err := s.growing.ListExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	var totalSpent float64
	for _, e := range expenses {
		totalSpent += e.Amount
	}

	notifications, err := s.buildNotifications(ctx, userID, activities)
	if err != nil {
		s.logger.Warn(ctx, "[DASHBOARD_NOTIFICATIONS] Failed to derive notifications", logging.Fields{
			"user_id": userID,
		})
		notifications = []models.Notification{}
	}

	return &DashboardOverview{
		User:             user,
		SavedCrops:       crops,
		SavedFertilizers: fertilizers,
		Activities:       activities,
		Notifications:    notifications,
		Stats: DashboardStats{
			TotalRecommendations: len(crops) + len(fertilizers),
			CropsSuggested:       len(crops),
			FertilizersSaved:     len(fertilizers),
			ActiveCrops:          len(activities),
			TotalExpenses:        totalSpent,
		},
	}, nil
}

// buildNotifications derives alerts for tasks due soon and harvests
// approaching their guide duration
func (s *DashboardService) buildNotifications(ctx context.Context, userID string, activities []*models.GrowingActivity) ([]models.Notification, error) {
	notifications := []models.Notification{}

	due, err := s.growing.ListDueTasks(ctx, userID, time.Now().Add(taskNoticeWindow))
	if err != nil {
		return nil, err
	}

	cropByActivity := make(map[string]string, len(activities))
	for _, a := range activities {
		cropByActivity[a.ID] = a.CropName
	}

	for _, task := range due {
		notifications = append(notifications, models.Notification{
			Type:     "task",
			Title:    cropByActivity[task.ActivityID],
			Message:  fmt.Sprintf("Week %d task: %s", task.Week, task.Description),
			Priority: notificationPending,
		})
	}

	now := time.Now()
	for _, activity := range activities {
		guide, ok := GuideFor(activity.CropName)
		if !ok {
			continue
		}
		harvestDate := activity.SowingDate.AddDate(0, 0, guide.DurationDays)
		daysToHarvest := int(harvestDate.Sub(now).Hours() / 24)
		if daysToHarvest >= 0 && daysToHarvest <= harvestNoticeDays {
			notifications = append(notifications, models.Notification{
				Type:     "harvest",
				Title:    activity.CropName,
				Message:  fmt.Sprintf("Harvest ready in %d days!", daysToHarvest),
				Priority: notificationPending,
			})
		}
	}

	return notifications, nil
}
