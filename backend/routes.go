package backend

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/server/middleware"
)

// Route paths.
const (
	PathBackend       = "/contao"
	PathLogin         = "/contao/login"
	PathLogout        = "/contao/logout"
	PathPicker        = "/contao/picker"
	PathPreviewSwitch = "/contao/preview_switch"
	PathFragment      = "/_fragment"
)

// Routes are the controllers Mount registers. Nil controllers are skipped.
type Routes struct {
	Backend       *BackendController
	PreviewSwitch *PreviewSwitchController
	Dashboard     *DashboardController
	Fragment      *FragmentController

	// Auth resolves the backend user of every /contao and /_fragment request.
	Auth gin.HandlerFunc
	// LoginLimit guards POST /contao/login.
	LoginLimit gin.HandlerFunc
}

// Mount registers the backend routes on r.
func Mount(r gin.IRouter, routes Routes) {
	if routes.Fragment != nil {
		var handlers []gin.HandlerFunc
		if routes.Auth != nil {
			handlers = append(handlers, routes.Auth)
		}
		handlers = append(handlers, middleware.RequireBackendUserOrNotFound(), routes.Fragment.Render)
		r.GET(PathFragment, handlers...)
	}

	contao := r.Group(PathBackend)
	if routes.Auth != nil {
		contao.Use(routes.Auth)
	}
	// Paths below are relative to the group.
	if routes.PreviewSwitch != nil {
		contao.Any("/preview_switch", routes.PreviewSwitch.Handle)
	}
	if b := routes.Backend; b != nil {
		login := []gin.HandlerFunc{b.Login}
		if routes.LoginLimit != nil {
			login = append([]gin.HandlerFunc{routes.LoginLimit}, login...)
		}
		contao.GET("/login", b.LoginForm)
		contao.POST("/login", login...)
		contao.GET("/logout", b.Logout)

		requireUser := middleware.RequireBackendUser(b.deps.Session.LoginPath)
		contao.GET("/picker", requireUser, b.Picker)
		if routes.Dashboard != nil {
			contao.GET("", requireUser, routes.Dashboard.Show)
		}
	}
}
