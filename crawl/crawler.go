package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/observability"
	"github.com/kbukum/corebundle/resilience"
	"github.com/kbukum/corebundle/search"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

var errServer = errors.New("server error")

// Report summarizes a crawl.
type Report struct {
	Visited []string          `json:"visited" yaml:"visited"`
	// Failed maps a URL to its fetch error, or to the errors of every
	// subscriber that rejected it.
	Failed  map[string]string `json:"failed,omitempty" yaml:"failed,omitempty"`
	Results []Result          `json:"results" yaml:"results"`
}

// Crawler fetches pages breadth first, staying on the seed hosts.
type Crawler struct {
	cfg         Config
	client      *http.Client
	throttle    *resilience.Throttle
	subscribers []Subscriber
	log         *logger.Logger
	metrics     *observability.Metrics
}

// NewClient returns the HTTP client for cfg: the request timeout and the
// TLS settings applied.
func NewClient(cfg Config) (*http.Client, error) {
	cfg.ApplyDefaults()
	transport, err := cfg.TLS.Transport()
	if err != nil {
		return nil, err
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: transport}, nil
}

// New creates a crawler. A nil client uses one with cfg.Timeout.
func New(cfg Config, client *http.Client) *Crawler {
	cfg.ApplyDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Crawler{
		cfg:      cfg,
		client:   client,
		throttle: resilience.NewThrottle(cfg.Delay),
		log:      logger.Get("crawl"),
		metrics:  observability.MustMetrics(),
	}
}

// AddSubscriber registers a subscriber.
func (c *Crawler) AddSubscriber(s Subscriber) {
	c.subscribers = append(c.subscribers, s)
}

// Subscribers returns the subscriber names in registration order.
func (c *Crawler) Subscribers() []string {
	names := make([]string, len(c.subscribers))
	for i, s := range c.subscribers {
		names[i] = s.Name()
	}
	return names
}

type queued struct {
	u     *url.URL
	depth int
}

// Crawl visits the seeds and everything reachable from them within the
// configured depth. Fetch and subscriber failures are recorded in the
// report; only a cancelled context aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, seeds ...string) (*Report, error) {
	report := &Report{Failed: map[string]string{}}
	hosts := map[string]bool{}
	seen := map[string]bool{}
	var queue []queued

	for _, s := range seeds {
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("crawl: invalid seed %q", s)
		}
		u.Fragment = ""
		hosts[u.Host] = true
		if !seen[u.String()] {
			seen[u.String()] = true
			queue = append(queue, queued{u: u})
		}
	}

	for len(queue) > 0 && len(report.Visited) < c.cfg.MaxRequests {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		next := queue[0]
		queue = queue[1:]
		target := next.u.String()

		doc, err := c.fetch(ctx, next.u)
		report.Visited = append(report.Visited, target)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			c.metrics.RecordCrawl(ctx, "failed")
			report.Failed[target] = err.Error()
			c.log.Warn("Crawl request failed", map[string]interface{}{"url": target, "error": err.Error()})
			continue
		}
		c.metrics.RecordCrawl(ctx, "ok")

		var failures []string
		for _, s := range c.subscribers {
			if err := s.OnResponse(ctx, doc); err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", s.Name(), err))
			}
		}
		if len(failures) > 0 {
			report.Failed[target] = strings.Join(failures, "; ")
		}

		if next.depth >= c.cfg.MaxDepth || doc.StatusCode != http.StatusOK || !doc.IsHTML() {
			continue
		}
		for _, link := range Links(next.u, doc.Body) {
			if !hosts[link.Host] || seen[link.String()] {
				continue
			}
			seen[link.String()] = true
			queue = append(queue, queued{u: link, depth: next.depth + 1})
		}
	}

	for _, s := range c.subscribers {
		report.Results = append(report.Results, s.Result())
	}
	c.log.Info("Crawl finished", map[string]interface{}{
		"visited": len(report.Visited),
		"failed":  len(report.Failed),
	})
	return report, nil
}

func (c *Crawler) fetch(ctx context.Context, u *url.URL) (doc *search.Document, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanCrawlFetch,
		trace.WithAttributes(attribute.String(observability.AttrURL, u.String())))
	defer func() { observability.EndSpan(span, err) }()

	if err := c.throttle.Wait(ctx, u.Host); err != nil {
		return nil, err
	}
	return resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts: c.cfg.Retries,
		RetryIf: func(err error) bool {
			return errors.Is(err, errServer) || isTimeout(err)
		},
	}, func() (*search.Document, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", errServer, resp.Status)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, err
		}
		return search.NewDocument(u, resp.StatusCode, resp.Header, body), nil
	})
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// Links returns the absolute http(s) links of an HTML page, without
// fragments, in document order. Links marked rel="nofollow" are skipped.
func Links(base *url.URL, body []byte) []*url.URL {
	z := html.NewTokenizer(strings.NewReader(string(body)))
	var out []*url.URL
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.A {
				continue
			}
			var href string
			nofollow := false
			for _, a := range tok.Attr {
				switch a.Key {
				case "href":
					href = strings.TrimSpace(a.Val)
				case "rel":
					nofollow = strings.Contains(strings.ToLower(a.Val), "nofollow")
				}
			}
			if href == "" || nofollow {
				continue
			}
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			abs := base.ResolveReference(ref)
			if abs.Scheme != "http" && abs.Scheme != "https" {
				continue
			}
			abs.Fragment = ""
			out = append(out, abs)
		}
	}
}
