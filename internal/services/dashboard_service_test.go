package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/internal/models"
)

func TestDashboardOverview(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "farmer-1", Name: "Asha Patil"})
	recs := &fakeRecommendationRepo{
		crops: []*models.SavedCrop{
			{ID: "c1", UserID: "farmer-1", CropName: "Rice"},
			{ID: "c2", UserID: "farmer-1", CropName: "Wheat"},
			{ID: "c3", UserID: "other", CropName: "Maize"},
		},
		fertilizers: []*models.SavedFertilizer{
			{ID: "f1", UserID: "farmer-1", Name: "Urea"},
		},
	}
	growing := &fakeGrowingRepo{
		activities: []*models.GrowingActivity{
			{ID: "act-1", UserID: "farmer-1", CropName: "rice", SowingDate: time.Now().AddDate(0, 0, -5), Status: models.ActivityStatusActive},
			{ID: "act-2", UserID: "farmer-1", CropName: "wheat", SowingDate: time.Now().AddDate(0, 0, -200), Status: models.ActivityStatusCompleted},
		},
		expenses: []*models.Expense{
			{ID: "e1", UserID: "farmer-1", Amount: 1500},
			{ID: "e2", UserID: "farmer-1", Amount: 500},
		},
	}

	svc := NewDashboardService(users, recs, growing, testLogger(), testCollector)
	overview, err := svc.Overview(context.Background(), "farmer-1")
	require.NoError(t, err)

	assert.Equal(t, "Asha Patil", overview.User.Name)
	assert.Len(t, overview.SavedCrops, 2)
	assert.Len(t, overview.SavedFertilizers, 1)
	assert.Len(t, overview.Activities, 1)

	assert.Equal(t, 3, overview.Stats.TotalRecommendations)
	assert.Equal(t, 2, overview.Stats.CropsSuggested)
	assert.Equal(t, 1, overview.Stats.FertilizersSaved)
	assert.Equal(t, 1, overview.Stats.ActiveCrops)
	assert.Equal(t, 2000.0, overview.Stats.TotalExpenses)
}

func TestDashboardTaskNotifications(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "farmer-1", Name: "Asha Patil"})
	growing := &fakeGrowingRepo{
		activities: []*models.GrowingActivity{
			{ID: "act-1", UserID: "farmer-1", CropName: "rice", SowingDate: time.Now().AddDate(0, 0, -5), Status: models.ActivityStatusActive},
		},
		tasks: []*models.ActivityTask{
			{ID: "t1", ActivityID: "act-1", Week: 2, Description: "Nursery preparation and seed sowing", DueDate: time.Now().AddDate(0, 0, 2)},
			{ID: "t2", ActivityID: "act-1", Week: 6, Description: "First fertilizer application (Nitrogen)", DueDate: time.Now().AddDate(0, 0, 30)},
		},
	}

	svc := NewDashboardService(users, &fakeRecommendationRepo{}, growing, testLogger(), testCollector)
	overview, err := svc.Overview(context.Background(), "farmer-1")
	require.NoError(t, err)

	require.Len(t, overview.Notifications, 1)
	n := overview.Notifications[0]
	assert.Equal(t, "task", n.Type)
	assert.Equal(t, "rice", n.Title)
	assert.Equal(t, "Week 2 task: Nursery preparation and seed sowing", n.Message)
	assert.Equal(t, "high", n.Priority)
}

func TestDashboardHarvestNotification(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "farmer-1", Name: "Asha Patil"})
	guide, ok := GuideFor("rice")
	require.True(t, ok)

	// Sown so that harvest lands three days from now.
	sowing := time.Now().AddDate(0, 0, -(guide.DurationDays - 3))
	growing := &fakeGrowingRepo{
		activities: []*models.GrowingActivity{
			{ID: "act-1", UserID: "farmer-1", CropName: "rice", SowingDate: sowing, Status: models.ActivityStatusActive},
		},
	}

	svc := NewDashboardService(users, &fakeRecommendationRepo{}, growing, testLogger(), testCollector)
	overview, err := svc.Overview(context.Background(), "farmer-1")
	require.NoError(t, err)

	require.Len(t, overview.Notifications, 1)
	assert.Equal(t, "harvest", overview.Notifications[0].Type)
	assert.Contains(t, overview.Notifications[0].Message, "Harvest ready in")
}
