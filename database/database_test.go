package database

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"unknown driver", Config{Driver: "oracle"}, true},
		{"idle above open", Config{MaxOpenConns: 1, MaxIdleConns: 2}, true},
		{"bad lifetime", Config{ConnMaxLifetime: "forever"}, true},
		{"bad log level", Config{LogLevel: "chatty"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		MaxRetries:   1,
		LogLevel:     "silent",
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenMigrateAndTransaction(t *testing.T) {
	db := openMemory(t)
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	ctx := context.Background()
	rollback := errors.New("rollback")
	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{Name: "discarded"}).Error; err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("expected rollback error, got %v", err)
	}

	if err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&widget{Name: "kept"}).Error
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var names []string
	if err := db.WithContext(ctx).Model(&widget{}).Pluck("name", &names).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(names) != 1 || names[0] != "kept" {
		t.Errorf("expected only the committed row, got %v", names)
	}
}

func TestCloseTwice(t *testing.T) {
	db := openMemory(t)
	if err := db.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil, "member") != nil {
		t.Error("nil error must map to nil")
	}
	if got := FromDatabase(gorm.ErrRecordNotFound, "member"); got.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got.HTTPStatus)
	}
	if got := FromDatabase(errors.New("database is locked"), "member"); !got.Retryable || got.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected retryable 503, got %+v", got)
	}
	if got := FromDatabase(errors.New("syntax error"), "member"); got.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("expected database error, got %s", got.Code)
	}
}

func TestComponentLifecycle(t *testing.T) {
	c := NewComponent(Config{
		DSN:          "file:component?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
		LogLevel:     "silent",
	}, logger.NewNop()).WithAutoMigrate(&widget{})

	ctx := context.Background()
	if h := c.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.DB().GormDB.Migrator().HasTable(&widget{}) {
		t.Error("expected auto-migrated table")
	}
	if h := c.Health(ctx); h.Status != "healthy" {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
