package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/logger"
)

// Entry is a tl_search row.
type Entry struct {
	ID       uint   `gorm:"primaryKey"`
	Tstamp   int64  `gorm:"column:tstamp"`
	URL      string `gorm:"column:url;uniqueIndex;size:2048"`
	Title    string `gorm:"column:title;type:text"`
	Text     string `gorm:"column:text;type:text"`
	Language string `gorm:"column:language;size:5"`
	Checksum string `gorm:"column:checksum;size:64;index"`
	Filesize int    `gorm:"column:filesize"`
}

// TableName implements gorm's Tabler.
func (Entry) TableName() string { return "tl_search" }

// DatabaseIndexer keeps the page text in tl_search.
type DatabaseIndexer struct {
	db  *database.DB
	log *logger.Logger
	now func() time.Time
}

var _ Indexer = (*DatabaseIndexer)(nil)

// NewDatabaseIndexer creates an indexer over db.
func NewDatabaseIndexer(db *database.DB) *DatabaseIndexer {
	return &DatabaseIndexer{db: db, log: logger.Get("search"), now: time.Now}
}

// Index stores a successful HTML page. Other responses and pages marked
// noindex return ErrNotIndexable; a noindex page is also removed.
func (i *DatabaseIndexer) Index(ctx context.Context, doc *Document) error {
	if doc.StatusCode != http.StatusOK || !doc.IsHTML() {
		return ErrNotIndexable
	}
	content, err := doc.Extract()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotIndexable, err)
	}
	if content.NoIndex {
		if err := i.Delete(ctx, doc); err != nil {
			return err
		}
		return ErrNotIndexable
	}

	sum := sha256.Sum256([]byte(content.Text))
	entry := Entry{
		Tstamp:   i.now().Unix(),
		URL:      doc.URI.String(),
		Title:    content.Title,
		Text:     content.Text,
		Language: content.Language,
		Checksum: hex.EncodeToString(sum[:]),
		Filesize: len(doc.Body),
	}
	err = i.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"tstamp", "title", "text", "language", "checksum", "filesize"}),
	}).Create(&entry).Error
	if err != nil {
		return database.FromDatabase(err, "search entry")
	}

	i.log.Debug("Page indexed", map[string]interface{}{"url": entry.URL, "bytes": entry.Filesize})
	return nil
}

// Delete removes the entry for doc's URL.
func (i *DatabaseIndexer) Delete(ctx context.Context, doc *Document) error {
	err := i.db.WithContext(ctx).Where("url = ?", doc.URI.String()).Delete(&Entry{}).Error
	if err != nil {
		return database.FromDatabase(err, "search entry")
	}
	return nil
}

// Clear removes every entry.
func (i *DatabaseIndexer) Clear(ctx context.Context) error {
	err := i.db.WithContext(ctx).Where("1 = 1").Delete(&Entry{}).Error
	if err != nil {
		return database.FromDatabase(err, "search entry")
	}
	return nil
}
