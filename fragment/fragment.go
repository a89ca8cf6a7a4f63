package fragment

import (
	"context"
	"fmt"
	"strconv"
)

// Fragment renders one unit of content.
type Fragment interface {
	Render(ctx context.Context, cfg Config, m Model) (string, error)
}

// Func adapts a function to Fragment.
type Func func(ctx context.Context, cfg Config, m Model) (string, error)

// Render implements Fragment.
func (f Func) Render(ctx context.Context, cfg Config, m Model) (string, error) {
	return f(ctx, cfg, m)
}

// Model is the data row a fragment renders, e.g. one content element.
type Model struct {
	ID   int
	Type string
	Data map[string]any
}

// String returns a string field or "".
func (m Model) String(key string) string {
	switch v := m.Data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bool returns a boolean field. "1" and "true" count as true.
func (m Model) Bool(key string) bool {
	switch v := m.Data[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case int:
		return v != 0
	}
	return false
}

// Strings returns a string-list field. A single string becomes a one-item list.
func (m Model) Strings(key string) []string {
	switch v := m.Data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
