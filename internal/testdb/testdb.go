// Package testdb opens isolated in-memory databases for service tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"readmates/backend/internal/database"
)

var counter int64

// New opens a fresh in-memory sqlite database with the full schema
// migrated. TranslateError is enabled, as in production, so uniqueness
// violations surface as gorm.ErrDuplicatedKey.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	// shared cache keeps all pooled connections on the same database
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&counter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
