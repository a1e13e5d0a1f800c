package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/internal/models"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

var testCollector = metrics.NewCollector("repository_test")

func newMockDB(t *testing.T) (*database.PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := database.NewWithDB(sqlx.NewDb(db, "postgres"), logging.NewNop(), testCollector)
	return wrapped, mock
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logging.NewNop(), testCollector)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "phone", "state", "district", "created_at", "updated_at",
	}).AddRow("u-1", "Asha", "asha@example.com", "hash", "", "Karnataka", "Mysuru", now, now)

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Asha", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logging.NewNop(), testCollector)

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByID(context.Background(), "missing")
	require.Error(t, err)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Resource)
}

func TestRecommendationRepository_DeleteCrop_ScopedToUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecommendationRepository(db, logging.NewNop(), testCollector)

	mock.ExpectExec(`DELETE FROM saved_crops WHERE id = \$1 AND user_id = \$2`).
		WithArgs("crop-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteCrop(context.Background(), "crop-1", "u-2")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_SaveFertilizer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecommendationRepository(db, logging.NewNop(), testCollector)

	mock.ExpectExec(`INSERT INTO saved_fertilizers`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveFertilizer(context.Background(), &models.SavedFertilizer{
		ID:         "f-1",
		UserID:     "u-1",
		Name:       "Urea (46-0-0)",
		CropType:   "rice",
		Priority:   "High",
		Dosage:     "50-100 kg/acre",
		Confidence: 72.5,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrowingRepository_CreateActivityWithTasks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGrowingRepository(db, logging.NewNop(), testCollector)

	now := time.Now().UTC()
	activity := &models.GrowingActivity{
		ID:         "a-1",
		UserID:     "u-1",
		CropName:   "rice",
		AreaAcres:  2.5,
		SowingDate: now,
		Status:     models.ActivityStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tasks := []*models.ActivityTask{
		{ID: "t-1", ActivityID: "a-1", Week: 1, Description: "Prepare field", DueDate: now},
		{ID: "t-2", ActivityID: "a-1", Week: 2, Description: "Transplant seedlings", DueDate: now.AddDate(0, 0, 7)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO growing_activities`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(`INSERT INTO activity_tasks`)
	mock.ExpectExec(`INSERT INTO activity_tasks`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO activity_tasks`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateActivity(context.Background(), activity, tasks)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrowingRepository_CreateActivityRollsBackOnTaskError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGrowingRepository(db, logging.NewNop(), testCollector)

	now := time.Now().UTC()
	activity := &models.GrowingActivity{ID: "a-1", UserID: "u-1", CropName: "rice", SowingDate: now}
	tasks := []*models.ActivityTask{{ID: "t-1", ActivityID: "a-1", Week: 1, Description: "x", DueDate: now}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO growing_activities`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(`INSERT INTO activity_tasks`)
	mock.ExpectExec(`INSERT INTO activity_tasks`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateActivity(context.Background(), activity, tasks)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketRepository_UpsertPricesBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketRepository(db, logging.NewNop(), testCollector)

	now := time.Now().UTC()
	prices := []*models.MarketPrice{
		{Commodity: "Rice", Market: "Bengaluru", State: "Karnataka", ModalPrice: 2400, ArrivalDate: now, CreatedAt: now},
		{Commodity: "Wheat", Market: "Mysuru", State: "Karnataka", ModalPrice: 2100, ArrivalDate: now, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO market_prices`)
	mock.ExpectExec(`INSERT INTO market_prices`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO market_prices`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.UpsertPricesBatch(context.Background(), prices)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketRepository_GetLatestPrice_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketRepository(db, logging.NewNop(), testCollector)

	mock.ExpectQuery(`SELECT .+ FROM market_prices\s+WHERE commodity = \$1`).
		WithArgs("Saffron").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetLatestPrice(context.Background(), "Saffron")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestEquipmentRepository_ListEquipmentWithFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEquipmentRepository(db, logging.NewNop(), testCollector)

	district := "Mysuru"
	status := models.EquipmentStatusAvailable

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM`).
		WithArgs(district, status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "name", "category", "daily_rate",
		"district", "status", "requested_by", "created_at", "updated_at",
	}).AddRow("e-1", "u-1", "Tractor", "tillage", 1500.0, district, status, "", now, now)

	mock.ExpectQuery(`SELECT .+ FROM equipment`).
		WithArgs(district, status, 20, 0).
		WillReturnRows(rows)

	listings, total, err := repo.ListEquipment(context.Background(), EquipmentFilter{
		District: &district,
		Status:   &status,
		Limit:    20,
		Offset:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Tractor", listings[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
