package repository

import (
	"context"

	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/fragment/element"
)

// VersionRepository queries tl_version.
type VersionRepository struct {
	db *database.DB
}

var _ element.VersionLister = (*VersionRepository)(nil)

// NewVersionRepository creates a repository over db.
func NewVersionRepository(db *database.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// Latest returns the newest limit versions, newest first.
func (r *VersionRepository) Latest(ctx context.Context, limit int) ([]element.Version, error) {
	var rows []Version
	err := r.db.WithContext(ctx).Order("tstamp DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, database.FromDatabase(err, "version")
	}

	out := make([]element.Version, len(rows))
	for i, v := range rows {
		out[i] = element.Version{
			Table:    v.FromTable,
			RecordID: v.Pid,
			Version:  v.Version,
			Username: v.Username,
		}
	}
	return out, nil
}

// Add records a new version row.
func (r *VersionRepository) Add(ctx context.Context, v *Version) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return database.FromDatabase(err, "version")
	}
	return nil
}
