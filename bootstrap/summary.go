package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/corebundle/component"
	"github.com/kbukum/corebundle/logger"
)

// Section is a titled list in the startup summary.
type Section struct {
	Title string
	Lines []string
}

// Summary prints what the service started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	sections        []Section
	out             io.Writer
}

// NewSummary creates a summary writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// AddSection appends a section shown after the components.
func (s *Summary) AddSection(title string, lines ...string) {
	s.sections = append(s.sections, Section{Title: title, Lines: lines})
}

// Display prints the summary: component descriptions, extra sections,
// routes of RouteProvider components and live health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(s.out, "\n%s %s started in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	var infra []string
	for _, d := range registry.Descriptions() {
		line := d.Name + ": " + d.Details
		if d.Port > 0 {
			line += fmt.Sprintf(" (:%d)", d.Port)
		}
		infra = append(infra, line)
	}
	s.tree("Infrastructure", infra)

	for _, sec := range s.sections {
		s.tree(sec.Title, sec.Lines)
	}

	var routes []string
	for _, c := range registry.All() {
		rp, ok := c.(component.RouteProvider)
		if !ok {
			continue
		}
		for _, r := range rp.Routes() {
			routes = append(routes, fmt.Sprintf("%-7s %s -> %s", r.Method, r.Path, r.Handler))
		}
	}
	s.tree(fmt.Sprintf("Routes (%d)", len(routes)), routes)

	var health []string
	unhealthy := 0
	for _, h := range registry.HealthAll(ctx) {
		line := h.Name + ": " + strings.ToLower(string(h.Status))
		if h.Message != "" {
			line += " (" + h.Message + ")"
		}
		if h.Status != component.StatusHealthy {
			unhealthy++
		}
		health = append(health, line)
	}
	s.tree("Health", health)
	fmt.Fprintln(s.out)

	if unhealthy > 0 && log != nil {
		log.Warn("Started with unhealthy components", map[string]interface{}{"count": unhealthy})
	}
}

func (s *Summary) tree(title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(s.out, "\n%s\n", title)
	for i, line := range lines {
		prefix := "├──"
		if i == len(lines)-1 {
			prefix = "└──"
		}
		fmt.Fprintf(s.out, "   %s %s\n", prefix, line)
	}
}
