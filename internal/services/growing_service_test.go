package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/internal/models"
)

func TestStartActivitySchedulesGuideTasks(t *testing.T) {
	repo := &fakeGrowingRepo{}
	svc := NewGrowingService(repo, testLogger(), testCollector)

	sowing := time.Now().AddDate(0, 0, -1)
	activity, err := svc.StartActivity(context.Background(), "farmer-1", "rice", 2.5, sowing, "first paddy")
	require.NoError(t, err)

	guide, ok := GuideFor("rice")
	require.True(t, ok)

	assert.Equal(t, models.ActivityStatusActive, activity.Status)
	assert.Equal(t, guide.Stages[0].Name, activity.CurrentStage)
	require.Len(t, repo.tasks, len(guide.Tasks))

	for i, task := range repo.tasks {
		expectedDue := sowing.AddDate(0, 0, (guide.Tasks[i].Week-1)*7)
		assert.WithinDuration(t, expectedDue, task.DueDate, time.Second)
	}
}

func TestStartActivityPastTasksPreCompleted(t *testing.T) {
	repo := &fakeGrowingRepo{}
	svc := NewGrowingService(repo, testLogger(), testCollector)

	// Sown three weeks ago, so week 1 and 2 tasks are already past due.
	sowing := time.Now().AddDate(0, 0, -21)
	_, err := svc.StartActivity(context.Background(), "farmer-1", "wheat", 1, sowing, "")
	require.NoError(t, err)

	var completed, pending int
	for _, task := range repo.tasks {
		if task.Completed() {
			completed++
		} else {
			pending++
		}
	}
	assert.Greater(t, completed, 0)
	assert.Greater(t, pending, 0)
}

func TestStartActivityUnknownCrop(t *testing.T) {
	svc := NewGrowingService(&fakeGrowingRepo{}, testLogger(), testCollector)

	_, err := svc.StartActivity(context.Background(), "farmer-1", "dragonfruit", 1, time.Now(), "")
	assert.Error(t, err)
}

func TestStartActivityInvalidArea(t *testing.T) {
	svc := NewGrowingService(&fakeGrowingRepo{}, testLogger(), testCollector)

	_, err := svc.StartActivity(context.Background(), "farmer-1", "rice", 0, time.Now(), "")
	assert.Error(t, err)
}

func TestGetActivityDetailProgress(t *testing.T) {
	repo := &fakeGrowingRepo{}
	svc := NewGrowingService(repo, testLogger(), testCollector)

	activity, err := svc.StartActivity(context.Background(), "farmer-1", "maize", 1, time.Now(), "")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteTask(context.Background(), repo.tasks[0].ID, activity.ID, "farmer-1"))

	detail, err := svc.GetActivityDetail(context.Background(), activity.ID, "farmer-1")
	require.NoError(t, err)

	guide, _ := GuideFor("maize")
	assert.Equal(t, 100/len(guide.Tasks), detail.Progress)
	require.NotNil(t, detail.Guide)
	assert.Equal(t, guide.DurationDays, detail.Guide.DurationDays)
}

func TestAddExpenseRejectsForeignActivity(t *testing.T) {
	repo := &fakeGrowingRepo{}
	svc := NewGrowingService(repo, testLogger(), testCollector)

	activity, err := svc.StartActivity(context.Background(), "farmer-1", "rice", 1, time.Now(), "")
	require.NoError(t, err)

	_, err = svc.AddExpense(context.Background(), "farmer-2", activity.ID, "seeds", 500, "", time.Now())
	assert.Error(t, err)

	expense, err := svc.AddExpense(context.Background(), "farmer-1", activity.ID, "seeds", 500, "hybrid seeds", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 500.0, expense.Amount)
}

func TestDueTasksWindow(t *testing.T) {
	repo := &fakeGrowingRepo{}
	svc := NewGrowingService(repo, testLogger(), testCollector)

	// Sowing two days out keeps the week 2 task safely past the window edge.
	_, err := svc.StartActivity(context.Background(), "farmer-1", "rice", 1, time.Now().AddDate(0, 0, 2), "")
	require.NoError(t, err)

	due, err := svc.DueTasks(context.Background(), "farmer-1", 7*24*time.Hour)
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Week)
}

func TestCropGuideStageAt(t *testing.T) {
	guide, ok := GuideFor("rice")
	require.True(t, ok)

	assert.Equal(t, guide.Stages[0].Name, guide.StageAt(0))
	assert.Equal(t, guide.Stages[len(guide.Stages)-1].Name, guide.StageAt(guide.DurationDays+30))
}
