package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err to the client and aborts the chain.
//
//   - *apperrors.RedirectError: redirect to its location.
//   - silent *apperrors.AppError: status only, empty text/html body.
//   - *apperrors.AppError: status and JSON error body.
//   - anything else: JSON 500.
func RespondWithError(c *gin.Context, err error) {
	if r, ok := apperrors.AsRedirect(err); ok {
		c.Redirect(r.Status, r.Location)
		c.Abort()
		return
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Get("server").WithContext(c.Request.Context()).Error("Request failed", map[string]interface{}{
			logger.FieldError: err.Error(),
			"path":            c.Request.URL.Path,
		})
	}
	_ = c.Error(err)

	if appErr.Silent {
		RespondEmpty(c, appErr.HTTPStatus)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondEmpty sends status with an empty text/html body.
func RespondEmpty(c *gin.Context, status int) {
	c.Data(status, "text/html; charset=utf-8", nil)
}

// RespondHTML sends a rendered HTML fragment.
func RespondHTML(c *gin.Context, status int, html string) {
	c.Data(status, "text/html; charset=utf-8", []byte(html))
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
