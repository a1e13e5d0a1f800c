package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// ErrNoReportData signals that the user has nothing to report on yet.
// Handlers turn this into a friendly message rather than an error status.
var ErrNoReportData = errors.New("no data available for report")

// Base yields per acre in quintals, used for revenue and harvest estimates.
var baseYields = map[string]float64{
	"rice":      45,
	"wheat":     40,
	"maize":     50,
	"cotton":    35,
	"jute":      30,
	"banana":    250,
	"sugarcane": 350,
	"potato":    200,
	"tomato":    250,
}

const defaultBaseYield = 40

// ReportUser is the farmer identity block stamped on every report
type ReportUser struct {
	Name     string `json:"name"`
	District string `json:"district"`
	State    string `json:"state"`
}

// CropPlanItem is one active crop in the crop plan report
type CropPlanItem struct {
	Crop       string `json:"crop"`
	Stage      string `json:"stage"`
	Started    string `json:"started"`
	Progress   int    `json:"progress"`
	CurrentDay int    `json:"current_day"`
	Notes      string `json:"notes"`
}

// CropPlanReport lists active crops alongside recent fertilizer picks
type CropPlanReport struct {
	Crops       []CropPlanItem            `json:"crops"`
	Fertilizers []*models.SavedFertilizer `json:"fertilizers"`
	User        ReportUser                `json:"user"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// HarvestItem is one crop near harvest with yield and window estimates
type HarvestItem struct {
	Crop           string `json:"crop"`
	Stage          string `json:"stage"`
	Progress       int    `json:"progress"`
	CurrentDay     int    `json:"current_day"`
	Started        string `json:"started"`
	EstimatedYield string `json:"estimated_yield"`
	HarvestWindow  string `json:"harvest_window"`
	Notes          string `json:"notes"`
}

// HarvestReport lists crops at or past the halfway point of their cycle
type HarvestReport struct {
	Crops       []HarvestItem `json:"crops"`
	User        ReportUser    `json:"user"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// CropProfit aggregates revenue and spend for one crop
type CropProfit struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Entries  int     `json:"entries"`
}

// ProfitReport summarizes estimated revenue against recorded expenses
type ProfitReport struct {
	TotalRevenue   float64               `json:"total_revenue"`
	TotalExpenses  float64               `json:"total_expenses"`
	NetProfit      float64               `json:"net_profit"`
	ROI            float64               `json:"roi"`
	AverageExpense float64               `json:"average_expense"`
	CropWise       map[string]CropProfit `json:"crop_wise"`
	TotalEntries   int                   `json:"total_entries"`
	User           ReportUser            `json:"user"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// ReportService builds farmer-facing reports from activities, expenses and
// stored market prices
type ReportService struct {
	users           repository.UserRepository
	recommendations repository.RecommendationRepository
	growing         repository.GrowingRepository
	market          repository.MarketRepository
	logger          *logging.StructuredLogger
	metrics         *metrics.Collector
}

// NewReportService creates a new report service
func NewReportService(
	users repository.UserRepository,
	recommendations repository.RecommendationRepository,
	growing repository.GrowingRepository,
	market repository.MarketRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ReportService {
	return &ReportService{
		users:           users,
		recommendations: recommendations,
		growing:         growing,
		market:          market,
		logger:          logger,
		metrics:         metricsCollector,
	}
}

// CropPlan builds the crop plan report for active activities
func (s *ReportService) CropPlan(ctx context.Context, userID string) (*CropPlanReport, error) {
	activities, err := s.activeActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("no active crops: %w", ErrNoReportData)
	}

	fertilizers, err := s.recommendations.ListFertilizers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(fertilizers) > 5 {
		fertilizers = fertilizers[:5]
	}

	reportUser, err := s.reportUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]CropPlanItem, 0, len(activities))
	for _, activity := range activities {
		day, progress := activityProgress(activity, time.Now())
		items = append(items, CropPlanItem{
			Crop:       activity.CropName,
			Stage:      activity.CurrentStage,
			Started:    activity.SowingDate.Format("2006-01-02"),
			Progress:   progress,
			CurrentDay: day,
			Notes:      activity.Notes,
		})
	}

	return &CropPlanReport{
		Crops:       items,
		Fertilizers: fertilizers,
		User:        reportUser,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Harvest builds the harvest readiness report for crops at 50% progress
// or beyond
func (s *ReportService) Harvest(ctx context.Context, userID string) (*HarvestReport, error) {
	activities, err := s.activeActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("no crops being grown: %w", ErrNoReportData)
	}

	now := time.Now()
	items := []HarvestItem{}
	for _, activity := range activities {
		day, progress := activityProgress(activity, now)
		if progress < 50 {
			continue
		}
		items = append(items, HarvestItem{
			Crop:           activity.CropName,
			Stage:          activity.CurrentStage,
			Progress:       progress,
			CurrentDay:     day,
			Started:        activity.SowingDate.Format("2006-01-02"),
			EstimatedYield: estimatedYield(activity.CropName, progress),
			HarvestWindow:  harvestWindow(progress),
			Notes:          activity.Notes,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no crops near harvest: %w", ErrNoReportData)
	}

	reportUser, err := s.reportUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &HarvestReport{
		Crops:       items,
		User:        reportUser,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Profit summarizes recorded expenses against revenue estimated from base
// yields and the latest stored market price for each crop
func (s *ReportService) Profit(ctx context.Context, userID string) (*ProfitReport, error) {
	expenses, err := s.growing.ListExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("no expense records: %w", ErrNoReportData)
	}

	activities, err := s.growing.ListActivities(ctx, repository.ActivityFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	cropByActivity := make(map[string]*models.GrowingActivity, len(activities))
	for _, a := range activities {
		cropByActivity[a.ID] = a
	}

	cropWise := make(map[string]CropProfit)
	amounts := make([]float64, 0, len(expenses))
	for _, expense := range expenses {
		amounts = append(amounts, expense.Amount)

		crop := "general"
		if activity, ok := cropByActivity[expense.ActivityID]; ok {
			crop = activity.CropName
		}
		entry := cropWise[crop]
		entry.Expenses += expense.Amount
		entry.Entries++
		cropWise[crop] = entry
	}

	var totalRevenue float64
	for _, activity := range activities {
		revenue := s.estimatedRevenue(ctx, activity)
		entry := cropWise[activity.CropName]
		entry.Revenue += revenue
		cropWise[activity.CropName] = entry
		totalRevenue += revenue
	}

	totalExpenses, err := stats.Sum(amounts)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	averageExpense, err := stats.Mean(amounts)
	if err != nil {
		return nil, fmt.Errorf("failed to average expenses: %w", err)
	}

	netProfit := totalRevenue - totalExpenses
	var roi float64
	if totalExpenses > 0 {
		roi = netProfit / totalExpenses * 100
	}

	reportUser, err := s.reportUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfitReport{
		TotalRevenue:   round2(totalRevenue),
		TotalExpenses:  round2(totalExpenses),
		NetProfit:      round2(netProfit),
		ROI:            round2(roi),
		AverageExpense: round2(averageExpense),
		CropWise:       cropWise,
		TotalEntries:   len(expenses),
		User:           reportUser,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (s *ReportService) activeActivities(ctx context.Context, userID string) ([]*models.GrowingActivity, error) {
	active := models.ActivityStatusActive
	return s.growing.ListActivities(ctx, repository.ActivityFilter{
		UserID: userID,
		Status: &active,
	})
}

func (s *ReportService) reportUser(ctx context.Context, userID string) (ReportUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return ReportUser{}, err
	}
	return ReportUser{
		Name:     user.Name,
		District: user.District,
		State:    user.State,
	}, nil
}

// estimatedRevenue prices the activity's base yield with the latest stored
// modal price. Without a price record the revenue contribution is zero.
func (s *ReportService) estimatedRevenue(ctx context.Context, activity *models.GrowingActivity) float64 {
	price, err := s.market.GetLatestPrice(ctx, activity.CropName)
	if err != nil {
		return 0
	}

	yield := baseYields[normalizeCropKey(activity.CropName)]
	if yield == 0 {
		yield = defaultBaseYield
	}
	return activity.AreaAcres * yield * price.ModalPrice
}

// activityProgress returns days since sowing and a time-based completion
// percent against the guide duration
func activityProgress(activity *models.GrowingActivity, now time.Time) (day int, progress int) {
	day = int(now.Sub(activity.SowingDate).Hours() / 24)
	if day < 0 {
		day = 0
	}

	duration := 120
	if guide, ok := GuideFor(activity.CropName); ok {
		duration = guide.DurationDays
	}

	progress = day * 100 / duration
	if progress > 100 {
		progress = 100
	}
	return day, progress
}

func estimatedYield(cropName string, progress int) string {
	base := baseYields[normalizeCropKey(cropName)]
	if base == 0 {
		base = defaultBaseYield
	}
	adjusted := base * float64(progress) / 100
	return fmt.Sprintf("%d-%d Quintals/Acre", int(adjusted), int(base))
}

func harvestWindow(progress int) string {
	switch {
	case progress >= 90:
		return "Ready to harvest now"
	case progress >= 70:
		return "Next 7-10 days"
	default:
		return "Next 15-20 days"
	}
}

func normalizeCropKey(cropName string) string {
	return strings.ToLower(strings.TrimSpace(cropName))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
