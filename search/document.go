package search

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a fetched page handed to the indexers.
type Document struct {
	URI        *url.URL
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewDocument builds a Document.
func NewDocument(uri *url.URL, status int, headers http.Header, body []byte) *Document {
	if headers == nil {
		headers = http.Header{}
	}
	return &Document{URI: uri, StatusCode: status, Headers: headers, Body: body}
}

// IsHTML reports whether the response is an HTML page.
func (d *Document) IsHTML() bool {
	ct := d.Headers.Get("Content-Type")
	return ct == "" || strings.HasPrefix(ct, "text/html")
}

// Content is the indexable part of an HTML page.
type Content struct {
	Title    string
	Text     string
	Language string
	NoIndex  bool
}

// Extract parses the body. Script and style contents are skipped; a robots
// meta tag containing "noindex" sets NoIndex.
func (d *Document) Extract() (Content, error) {
	root, err := html.Parse(bytes.NewReader(d.Body))
	if err != nil {
		return Content{}, err
	}

	var c Content
	var text strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Html:
				c.Language = attr(n, "lang")
			case atom.Title:
				if c.Title == "" && n.FirstChild != nil {
					c.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case atom.Meta:
				if strings.EqualFold(attr(n, "name"), "robots") &&
					strings.Contains(strings.ToLower(attr(n, "content")), "noindex") {
					c.NoIndex = true
				}
			}
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(strings.Join(strings.Fields(s), " "))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	c.Text = text.String()
	return c, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
