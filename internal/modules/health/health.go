package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thedevincicode/core/internal/config"
	pkgmail "github.com/thedevincicode/core/internal/pkg/mail"
	"github.com/thedevincicode/core/internal/pkg/response"
	"gorm.io/gorm"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.AppConfig, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":  true,
			"now": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Deeper probe for the operator: includes a DB ping.
	rg.GET("/health/db", authMW, func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil

		code := http.StatusOK
		status := "ok"
		if !dbOK {
			code = http.StatusServiceUnavailable
			status = "degraded"
		}
		c.JSON(code, gin.H{"status": status, "database": dbOK})
	})

	rg.GET("/health/email/test", authMW, func(c *gin.Context) {
		if !cfg.Mail.Enable {
			response.UnprocessableEntity(c, "mail is not enabled")
			return
		}
		to := cfg.Mail.ContactTo
		if to == "" {
			response.UnprocessableEntity(c, "operator email not set")
			return
		}

		sender := pkgmail.New(pkgmail.BuildMailConfig(cfg))
		if err := sender.Send(pkgmail.Message{
			To:      []string{to},
			Subject: "The Devinci Code mail test",
			HTML:    "<h1>Mail configuration works.</h1><p>If you can read this, outbound delivery is set up correctly.</p>",
		}); err != nil {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.OK(c, gin.H{"ok": true})
	})
}
