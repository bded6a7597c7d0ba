package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/pkg/db"
)

// InitTestDB opens a private in-memory sqlite database with every table migrated.
func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := db.GormConfig()
	cfg.PrepareStmt = false

	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every pooled connection would get its own :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(context.Background(), gdb, models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return gdb
}
