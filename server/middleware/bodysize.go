package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/util"
)

const defaultMaxBodySize = 10 * 1024 * 1024

// BodySizeLimit caps the request body at maxSize ("10MB", "512KB").
// Unparsable sizes fall back to 10MB.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

// GinBodySizeLimit adapts BodySizeLimit for the gin engine.
func GinBodySizeLimit(maxSize string) gin.HandlerFunc {
	return GinWrap(BodySizeLimit(maxSize))
}
