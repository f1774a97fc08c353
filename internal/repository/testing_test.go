package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"styledeco/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func reportingDB(t *testing.T, db *gorm.DB) *sqlx.DB {
	t.Helper()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlx.NewDb(sqlDB, db.Dialector.Name())
}

func seedBooking(t *testing.T, repo *BookingRepository, userEmail string, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	b := &domain.Booking{
		UserEmail:   userEmail,
		ServiceID:   uuid.NewString(),
		ServiceName: "Wedding Stage",
		Cost:        decimal.NewFromInt(50000),
		BookedAt:    time.Now().UTC(),
		Status:      status,
	}
	require.NoError(t, repo.Create(t.Context(), b))
	return b
}
