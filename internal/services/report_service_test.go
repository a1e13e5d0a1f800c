package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/internal/models"
)

func reportFixtures() (*fakeUserRepo, *fakeRecommendationRepo, *fakeGrowingRepo, *fakeMarketRepo) {
	users := newFakeUserRepo(&models.User{
		ID:       "farmer-1",
		Name:     "Asha Patil",
		Email:    "asha@example.com",
		State:    "Maharashtra",
		District: "Pune",
	})
	return users, &fakeRecommendationRepo{}, &fakeGrowingRepo{}, newFakeMarketRepo()
}

func newReportService(users *fakeUserRepo, recs *fakeRecommendationRepo, growing *fakeGrowingRepo, market *fakeMarketRepo) *ReportService {
	return NewReportService(users, recs, growing, market, testLogger(), testCollector)
}

func TestCropPlanRequiresActivities(t *testing.T) {
	users, recs, growing, market := reportFixtures()
	svc := newReportService(users, recs, growing, market)

	_, err := svc.CropPlan(context.Background(), "farmer-1")
	assert.ErrorIs(t, err, ErrNoReportData)
}

func TestCropPlanReport(t *testing.T) {
	users, recs, growing, market := reportFixtures()

	growing.activities = append(growing.activities, &models.GrowingActivity{
		ID:           "act-1",
		UserID:       "farmer-1",
		CropName:     "rice",
		AreaAcres:    2,
		SowingDate:   time.Now().AddDate(0, 0, -30),
		Status:       models.ActivityStatusActive,
		CurrentStage: "Transplanting",
		Notes:        "monsoon paddy",
	})
	for i := 0; i < 7; i++ {
		recs.fertilizers = append(recs.fertilizers, &models.SavedFertilizer{
			ID:     string(rune('a' + i)),
			UserID: "farmer-1",
			Name:   "Urea",
		})
	}

	svc := newReportService(users, recs, growing, market)
	report, err := svc.CropPlan(context.Background(), "farmer-1")
	require.NoError(t, err)

	require.Len(t, report.Crops, 1)
	assert.Equal(t, "rice", report.Crops[0].Crop)
	assert.Equal(t, 30, report.Crops[0].CurrentDay)
	assert.Equal(t, 25, report.Crops[0].Progress)
	assert.Len(t, report.Fertilizers, 5)
	assert.Equal(t, "Asha Patil", report.User.Name)
}

func TestHarvestReportFiltersEarlyCrops(t *testing.T) {
	users, recs, growing, market := reportFixtures()

	growing.activities = append(growing.activities,
		&models.GrowingActivity{
			ID:         "act-early",
			UserID:     "farmer-1",
			CropName:   "rice",
			SowingDate: time.Now().AddDate(0, 0, -10),
			Status:     models.ActivityStatusActive,
		},
		&models.GrowingActivity{
			ID:         "act-late",
			UserID:     "farmer-1",
			CropName:   "rice",
			SowingDate: time.Now().AddDate(0, 0, -110),
			Status:     models.ActivityStatusActive,
		},
	)

	svc := newReportService(users, recs, growing, market)
	report, err := svc.Harvest(context.Background(), "farmer-1")
	require.NoError(t, err)

	require.Len(t, report.Crops, 1)
	item := report.Crops[0]
	assert.Equal(t, 91, item.Progress)
	assert.Equal(t, "Ready to harvest now", item.HarvestWindow)
	assert.Equal(t, "40-45 Quintals/Acre", item.EstimatedYield)
}

func TestProfitReport(t *testing.T) {
	users, recs, growing, market := reportFixtures()

	growing.activities = append(growing.activities, &models.GrowingActivity{
		ID:         "act-1",
		UserID:     "farmer-1",
		CropName:   "wheat",
		AreaAcres:  2,
		SowingDate: time.Now().AddDate(0, 0, -60),
		Status:     models.ActivityStatusActive,
	})
	growing.expenses = append(growing.expenses,
		&models.Expense{ID: "e1", UserID: "farmer-1", ActivityID: "act-1", Category: "seeds", Amount: 5000},
		&models.Expense{ID: "e2", UserID: "farmer-1", ActivityID: "act-1", Category: "fertilizer", Amount: 3000},
		&models.Expense{ID: "e3", UserID: "farmer-1", Category: "labor", Amount: 2000},
	)
	market.latest["wheat"] = pricePoint("wheat", 0, 2500)

	svc := newReportService(users, recs, growing, market)
	report, err := svc.Profit(context.Background(), "farmer-1")
	require.NoError(t, err)

	// Revenue: 2 acres x 40 quintals x 2500 rupees.
	assert.Equal(t, 200000.0, report.TotalRevenue)
	assert.Equal(t, 10000.0, report.TotalExpenses)
	assert.Equal(t, 190000.0, report.NetProfit)
	assert.InDelta(t, 1900.0, report.ROI, 0.01)
	assert.InDelta(t, 3333.33, report.AverageExpense, 0.01)
	assert.Equal(t, 3, report.TotalEntries)

	wheat := report.CropWise["wheat"]
	assert.Equal(t, 8000.0, wheat.Expenses)
	assert.Equal(t, 200000.0, wheat.Revenue)
	assert.Equal(t, 2, wheat.Entries)

	general := report.CropWise["general"]
	assert.Equal(t, 2000.0, general.Expenses)
}

func TestProfitReportNoExpenses(t *testing.T) {
	users, recs, growing, market := reportFixtures()
	svc := newReportService(users, recs, growing, market)

	_, err := svc.Profit(context.Background(), "farmer-1")
	assert.ErrorIs(t, err, ErrNoReportData)
}

func TestHarvestWindowBuckets(t *testing.T) {
	assert.Equal(t, "Ready to harvest now", harvestWindow(95))
	assert.Equal(t, "Next 7-10 days", harvestWindow(75))
	assert.Equal(t, "Next 15-20 days", harvestWindow(55))
}
