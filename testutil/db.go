package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/logger"
)

var seq atomic.Int64

// OpenDB returns a migrated in-memory database private to t. It is closed
// when the test ends.
func OpenDB(t testing.TB, models ...interface{}) *database.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := database.Config{
		DSN:          fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		MaxRetries:   1,
		LogLevel:     "silent",
	}
	db, err := database.Open(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// LoadRows inserts fixture rows into table.
func LoadRows(t testing.TB, db *gorm.DB, table string, rows []map[string]interface{}) {
	t.Helper()
	for _, row := range rows {
		if err := db.Table(table).Create(row).Error; err != nil {
			t.Fatalf("insert into %s: %v", table, err)
		}
	}
}
