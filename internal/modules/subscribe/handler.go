package subscribe

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevincicode/core/internal/config"
	pkgmail "github.com/thedevincicode/core/internal/pkg/mail"
	"github.com/thedevincicode/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Mailer is the slice of the mail sender this module needs.
type Mailer interface {
	SendSubscribeConfirm(to string, data pkgmail.SubscribeConfirmData) error
}

type Handler struct {
	svc    *Service
	cfg    *config.AppConfig
	mailer Mailer
	logger *zap.Logger
}

func NewHandler(svc *Service, cfg *config.AppConfig, mailer Mailer, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, mailer: mailer, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/subscribe", h.subscribe)
	rg.GET("/confirm", h.confirm) // ?token=...
	rg.GET("/subscribe/cancel", h.unsubscribe)
	rg.GET("/subscribers", authMW, h.list)
	rg.DELETE("/subscribers/batch", authMW, h.unsubscribeBatch)
}

// subscribe implements the double opt-in entry point. Mail dispatch is
// best-effort: a provider failure degrades the response to 202, it never
// fails the request.
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Subscribe(dto.Email, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.logger.Error("subscribe failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	if result.Outcome == OutcomeAlreadySubscribed {
		response.OK(c, gin.H{"message": "Already subscribed"})
		return
	}

	if err := h.sendConfirmEmail(dto.Email, result.Secret); err != nil {
		h.logger.Warn("confirmation email not sent",
			zap.String("email", dto.Email), zap.Error(err))
		response.Accepted(c, gin.H{
			"message": "Subscribed, but the confirmation email couldn't be sent yet. Please try again later.",
		})
		return
	}

	response.Created(c, gin.H{"message": "Check your email to confirm."})
}

func (h *Handler) sendConfirmEmail(to, secret string) error {
	confirmURL, err := buildConfirmURL(h.cfg.APIOrigin, secret)
	if err != nil {
		return err
	}
	return h.mailer.SendSubscribeConfirm(to, pkgmail.SubscribeConfirmData{
		ConfirmURL: confirmURL,
	})
}

func buildConfirmURL(apiOrigin, secret string) (string, error) {
	base := strings.TrimSpace(apiOrigin)
	if base == "" {
		return "", fmt.Errorf("confirm url origin is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid confirm url origin")
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/confirm"
	q := u.Query()
	q.Set("token", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// confirm finalizes a subscription. The outcome always travels back to the
// front end as a redirect query flag, never as a response body, so the site
// can render a toast and then strip the flag from the URL.
func (h *Handler) confirm(c *gin.Context) {
	secret := c.Query("token")
	if secret == "" {
		h.redirect(c, "confirm_error", "missing")
		return
	}

	switch err := h.svc.Confirm(secret); {
	case err == nil:
		h.redirect(c, "confirmed", "1")
	case errors.Is(err, errTokenInvalid):
		h.redirect(c, "confirm_error", "invalid")
	case errors.Is(err, errTokenExpired):
		h.redirect(c, "confirm_error", "expired")
	default:
		h.logger.Error("confirm failed", zap.Error(err))
		h.redirect(c, "confirm_error", "server")
	}
}

func (h *Handler) redirect(c *gin.Context, key, value string) {
	target := h.cfg.AppOrigin + "/?" + url.Values{key: {value}}.Encode()
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) unsubscribe(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "missing email")
		return
	}
	if err := h.svc.Unsubscribe(email); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"message": "unsubscribed"})
}

func (h *Handler) list(c *gin.Context) {
	subs, err := h.svc.List()
	if err != nil {
		h.logger.Error("list subscribers failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, subs)
}

func (h *Handler) unsubscribeBatch(c *gin.Context) {
	var dto BatchUnsubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	count, err := h.svc.BatchUnsubscribe(dto.Emails, dto.All)
	if err != nil {
		h.logger.Error("batch unsubscribe failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"deactivatedCount": count})
}
