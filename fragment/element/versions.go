package element

import (
	"context"
	"fmt"

	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// Version is one row of the version history.
type Version struct {
	Table    string
	RecordID uint
	Version  int
	Username string
}

// VersionLister returns the newest versions.
type VersionLister interface {
	Latest(ctx context.Context, limit int) ([]Version, error)
}

// VersionsController is the dashboard widget showing recent changes.
type VersionsController struct {
	renderer template.Renderer
	versions VersionLister
	limit    int
}

// NewVersionsController creates the widget.
func NewVersionsController(renderer template.Renderer, versions VersionLister, limit int) *VersionsController {
	if limit <= 0 {
		limit = 10
	}
	return &VersionsController{renderer: renderer, versions: versions, limit: limit}
}

// Render implements fragment.Fragment.
func (c *VersionsController) Render(ctx context.Context, cfg fragment.Config, _ fragment.Model) (string, error) {
	versions, err := c.versions.Latest(ctx, c.limit)
	if err != nil {
		return "", fmt.Errorf("versions widget: %w", err)
	}
	rows := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, map[string]any{
			"table":    v.Table,
			"id":       v.RecordID,
			"version":  v.Version,
			"username": v.Username,
		})
	}
	return c.renderer.Render(ctx, cfg.Template, map[string]any{
		"title":    "Latest changes",
		"versions": rows,
		"empty":    "There are no versions yet.",
	})
}
