package element

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NewSanitizer returns the policy rich-text fields are cleaned with.
func NewSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target").OnElements("a")
	p.RequireNoFollowOnLinks(false)
	return p
}

var emailPattern = regexp.MustCompile(`(mailto:)?[\w.!#$%&'*+/=?^{|}~-]+@[\w-]+(?:\.[\w-]+)+`)

// EncodeEmail replaces e-mail addresses, including mailto: links, with HTML
// character references so simple harvesters do not pick them up.
func EncodeEmail(text string) string {
	if !strings.Contains(text, "@") {
		return text
	}
	return emailPattern.ReplaceAllStringFunc(text, func(addr string) string {
		var b strings.Builder
		for _, r := range addr {
			fmt.Fprintf(&b, "&#%d;", r)
		}
		return b.String()
	})
}
