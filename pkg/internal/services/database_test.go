package services

import (
	"fmt"
	"testing"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// useTestDatabase points the package-global connection at a fresh in-memory
// sqlite database for the duration of one test.
func useTestDatabase(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("unable to open test database: %v", err)
	}
	if err := database.RunMigration(db); err != nil {
		t.Fatalf("unable to migrate test database: %v", err)
	}

	previous := database.C
	database.C = db
	t.Cleanup(func() { database.C = previous })
}
