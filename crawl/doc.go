// Package crawl walks a site breadth first and hands every response to the
// registered subscribers, e.g. the search index subscriber.
package crawl
