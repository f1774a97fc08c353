// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"styledeco/internal/database"
	"styledeco/internal/domain"
	"styledeco/internal/pkg/events"
	"styledeco/internal/repository"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn, zap.NewNop())
	require.NoError(t, err)
	db.Logger = db.Logger.LogMode(logger.Silent)

	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SQLX returns the reporting handle over db's pool.
func SQLX(t *testing.T, db *gorm.DB) *sqlx.DB {
	t.Helper()

	sx, err := database.SQLX(db)
	require.NoError(t, err)
	return sx
}

func CreateUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.User {
	t.Helper()

	u := &domain.User{
		Email:  email,
		Name:   email,
		Role:   role,
		Active: true,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(t.Context(), u))
	return u
}

// Recorder collects published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *Recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
