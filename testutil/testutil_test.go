package testutil

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
)

type row struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func (row) TableName() string { return "tl_row" }

func TestOpenDBIsolatedPerCall(t *testing.T) {
	db := OpenDB(t, &row{})
	LoadRows(t, db.GormDB, "tl_row", []map[string]interface{}{{"name": "a"}, {"name": "b"}})

	var count int64
	if err := db.GormDB.Model(&row{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	other := OpenDB(t, &row{})
	if err := other.GormDB.Model(&row{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("second database must be empty, got %d", count)
	}
}

func TestDoSendsFormAndHeaders(t *testing.T) {
	e := NewEngine()
	e.POST("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("name")+"|"+c.GetHeader("X-Requested-With"))
	})

	w := Do(e, Request{
		Method:  http.MethodPost,
		Path:    "/echo",
		Form:    url.Values{"name": {"k.jones"}},
		Headers: XHR(),
	})
	if got := w.Body.String(); got != "k.jones|XMLHttpRequest" {
		t.Errorf("unexpected body %q", got)
	}
}
