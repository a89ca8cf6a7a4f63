package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Request describes one request sent through Do.
type Request struct {
	Method  string
	Path    string
	Form    url.Values
	Body    io.Reader
	Headers map[string]string
	Cookies []*http.Cookie
}

// NewEngine returns a gin engine in test mode with no middleware.
func NewEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// Do runs req against h and returns the recorded response. A non-nil Form
// is sent url-encoded as the body.
func Do(h http.Handler, req Request) *httptest.ResponseRecorder {
	body := req.Body
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := httptest.NewRequest(method, req.Path, body)
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}
	for _, c := range req.Cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// XHR returns the header marking a request as an XMLHttpRequest.
func XHR() map[string]string {
	return map[string]string{"X-Requested-With": "XMLHttpRequest"}
}
