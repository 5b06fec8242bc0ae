package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thedevincicode/core/internal/middleware"
	"github.com/thedevincicode/core/internal/modules/auth"
	"github.com/thedevincicode/core/internal/modules/contact"
	"github.com/thedevincicode/core/internal/modules/health"
	"github.com/thedevincicode/core/internal/modules/subscribe"
	pkgmail "github.com/thedevincicode/core/internal/pkg/mail"
	pkgredis "github.com/thedevincicode/core/internal/pkg/redis"
	"github.com/thedevincicode/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "tdc-site-api",
		"homepage": "https://thedevincicode.com",
		"version":  "1.0.0",
	}

	// Rate limiting runs on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw(), db))

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	health.RegisterRoutes(api, db, a.cfg, authMW)

	mailer := pkgmail.New(pkgmail.BuildMailConfig(a.cfg))

	auth.NewHandler(auth.NewService(db), a.logger).RegisterRoutes(api)

	subscribe.NewHandler(subscribe.NewService(db), a.cfg, mailer, a.logger).
		RegisterRoutes(api, authMW)

	// Contact submissions additionally get duplicate-submit protection.
	contact.NewHandler(contact.NewService(db), a.cfg, mailer, a.logger).
		RegisterRoutes(api, authMW, middleware.Idempotence(rc.Raw()))
}
