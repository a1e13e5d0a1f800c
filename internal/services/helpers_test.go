package services

import (
	"context"
	"time"

	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// One collector per test binary to avoid duplicate prometheus registration.
var testCollector = metrics.NewCollector("services_test")

func testLogger() *logging.StructuredLogger {
	return logging.NewNop()
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, &repository.NotFoundError{Resource: "user", ID: id}
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, &repository.NotFoundError{Resource: "user", ID: email}
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) HealthCheck(_ context.Context) error { return nil }

type fakeRecommendationRepo struct {
	crops       []*models.SavedCrop
	fertilizers []*models.SavedFertilizer
}

func (r *fakeRecommendationRepo) SaveCrop(_ context.Context, crop *models.SavedCrop) error {
	r.crops = append(r.crops, crop)
	return nil
}

func (r *fakeRecommendationRepo) ListCrops(_ context.Context, userID string) ([]*models.SavedCrop, error) {
	out := []*models.SavedCrop{}
	for _, c := range r.crops {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRecommendationRepo) DeleteCrop(_ context.Context, id, userID string) error {
	for i, c := range r.crops {
		if c.ID == id && c.UserID == userID {
			r.crops = append(r.crops[:i], r.crops[i+1:]...)
			return nil
		}
	}
	return &repository.NotFoundError{Resource: "saved crop", ID: id}
}

func (r *fakeRecommendationRepo) SaveFertilizer(_ context.Context, fertilizer *models.SavedFertilizer) error {
	r.fertilizers = append(r.fertilizers, fertilizer)
	return nil
}

func (r *fakeRecommendationRepo) ListFertilizers(_ context.Context, userID string) ([]*models.SavedFertilizer, error) {
	out := []*models.SavedFertilizer{}
	for _, f := range r.fertilizers {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRecommendationRepo) DeleteFertilizer(_ context.Context, id, userID string) error {
	for i, f := range r.fertilizers {
		if f.ID == id && f.UserID == userID {
			r.fertilizers = append(r.fertilizers[:i], r.fertilizers[i+1:]...)
			return nil
		}
	}
	return &repository.NotFoundError{Resource: "saved fertilizer", ID: id}
}

type fakeGrowingRepo struct {
	activities []*models.GrowingActivity
	tasks      []*models.ActivityTask
	expenses   []*models.Expense
}

func (r *fakeGrowingRepo) CreateActivity(_ context.Context, activity *models.GrowingActivity, tasks []*models.ActivityTask) error {
	r.activities = append(r.activities, activity)
	r.tasks = append(r.tasks, tasks...)
	return nil
}

func (r *fakeGrowingRepo) GetActivity(_ context.Context, id, userID string) (*models.GrowingActivity, error) {
	for _, a := range r.activities {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, &repository.NotFoundError{Resource: "growing activity", ID: id}
}

func (r *fakeGrowingRepo) ListActivities(_ context.Context, filter repository.ActivityFilter) ([]*models.GrowingActivity, error) {
	out := []*models.GrowingActivity{}
	for _, a := range r.activities {
		if a.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeGrowingRepo) UpdateActivityStage(_ context.Context, id, userID, stage string) error {
	for _, a := range r.activities {
		if a.ID == id && a.UserID == userID {
			a.CurrentStage = stage
			return nil
		}
	}
	return &repository.NotFoundError{Resource: "growing activity", ID: id}
}

func (r *fakeGrowingRepo) CompleteActivity(_ context.Context, id, userID string) error {
	for _, a := range r.activities {
		if a.ID == id && a.UserID == userID {
			now := time.Now()
			a.Status = models.ActivityStatusCompleted
			a.CompletedAt = &now
			return nil
		}
	}
	return &repository.NotFoundError{Resource: "growing activity", ID: id}
}

func (r *fakeGrowingRepo) ListTasks(_ context.Context, activityID string) ([]*models.ActivityTask, error) {
	out := []*models.ActivityTask{}
	for _, t := range r.tasks {
		if t.ActivityID == activityID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeGrowingRepo) ListDueTasks(_ context.Context, userID string, due time.Time) ([]*models.ActivityTask, error) {
	byActivity := make(map[string]bool)
	for _, a := range r.activities {
		if a.UserID == userID && a.Status == models.ActivityStatusActive {
			byActivity[a.ID] = true
		}
	}
	out := []*models.ActivityTask{}
	for _, t := range r.tasks {
		if byActivity[t.ActivityID] && t.CompletedAt == nil && !t.DueDate.After(due) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeGrowingRepo) CompleteTask(_ context.Context, taskID, userID string) error {
	for _, t := range r.tasks {
		if t.ID == taskID {
			now := time.Now()
			t.CompletedAt = &now
			return nil
		}
	}
	return &repository.NotFoundError{Resource: "task", ID: taskID}
}

func (r *fakeGrowingRepo) AddExpense(_ context.Context, expense *models.Expense) error {
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeGrowingRepo) ListExpenses(_ context.Context, userID string) ([]*models.Expense, error) {
	out := []*models.Expense{}
	for _, e := range r.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeGrowingRepo) ListActivityExpenses(_ context.Context, activityID string) ([]*models.Expense, error) {
	out := []*models.Expense{}
	for _, e := range r.expenses {
		if e.ActivityID == activityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	items map[string]*models.Equipment
}

func newFakeEquipmentRepo(items ...*models.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{items: make(map[string]*models.Equipment)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeEquipmentRepo) CreateEquipment(_ context.Context, equipment *models.Equipment) error {
	r.items[equipment.ID] = equipment
	return nil
}

func (r *fakeEquipmentRepo) GetEquipment(_ context.Context, id string) (*models.Equipment, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, &repository.NotFoundError{Resource: "equipment", ID: id}
	}
	copied := *item
	return &copied, nil
}

func (r *fakeEquipmentRepo) ListEquipment(_ context.Context, filter repository.EquipmentFilter) ([]*models.Equipment, int, error) {
	out := []*models.Equipment{}
	for _, item := range r.items {
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, len(out), nil
}

func (r *fakeEquipmentRepo) UpdateStatus(_ context.Context, id, status, requestedBy string) error {
	item, ok := r.items[id]
	if !ok {
		return &repository.NotFoundError{Resource: "equipment", ID: id}
	}
	item.Status = status
	item.RequestedBy = requestedBy
	return nil
}

type fakeMarketRepo struct {
	latest  map[string]*models.MarketPrice
	history map[string][]*models.MarketPrice
	batches [][]*models.MarketPrice
}

func newFakeMarketRepo() *fakeMarketRepo {
	return &fakeMarketRepo{
		latest:  make(map[string]*models.MarketPrice),
		history: make(map[string][]*models.MarketPrice),
	}
}

func (r *fakeMarketRepo) UpsertPricesBatch(_ context.Context, prices []*models.MarketPrice) error {
	r.batches = append(r.batches, prices)
	return nil
}

func (r *fakeMarketRepo) GetPrices(_ context.Context, _ repository.PriceFilter) ([]*models.MarketPrice, int, error) {
	out := []*models.MarketPrice{}
	for _, p := range r.latest {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *fakeMarketRepo) GetLatestPrice(_ context.Context, commodity string) (*models.MarketPrice, error) {
	price, ok := r.latest[commodity]
	if !ok {
		return nil, &repository.NotFoundError{Resource: "market price", ID: commodity}
	}
	return price, nil
}

func (r *fakeMarketRepo) GetPriceHistory(_ context.Context, commodity string, _ time.Time) ([]*models.MarketPrice, error) {
	return r.history[commodity], nil
}

func (r *fakeMarketRepo) ListCommodities(_ context.Context) ([]string, error) {
	out := []string{}
	for name := range r.latest {
		out = append(out, name)
	}
	return out, nil
}
