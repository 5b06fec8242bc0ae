package contact

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thedevincicode/core/internal/config"
	pkgmail "github.com/thedevincicode/core/internal/pkg/mail"
	"github.com/thedevincicode/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Mailer is the slice of the mail sender this module needs.
type Mailer interface {
	SendContactNotify(to string, data pkgmail.ContactNotifyData) error
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, idemMW gin.HandlerFunc) {
	rg.POST("/contact", idemMW, h.create)
	rg.GET("/contacts", authMW, h.list)
	rg.PATCH("/contacts/:id/read", authMW, h.markRead)
}

// create persists the message first, then notifies the operator. Unlike the
// subscribe flow, a mail failure here is fatal to the request: the caller
// gets a 502 while the record stays persisted.
func (h *Handler) create(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.svc.Create(&dto)
	if err != nil {
		h.logger.Error("persist contact failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	label := subjectLabel(dto.Subject)
	if err := h.mailer.SendContactNotify(h.cfg.Mail.ContactTo, pkgmail.ContactNotifyData{
		SubjectLabel: label,
		Name:         dto.Name,
		Email:        dto.Email,
		Subject:      dto.Subject,
		Message:      pkgmail.NL2BR(dto.Message),
	}); err != nil {
		h.logger.Error("contact notification failed",
			zap.Uint("contact_id", msg.ID), zap.Error(err))
		response.BadGateway(c, "Email failed")
		return
	}

	response.Created(c, gin.H{"message": "Message sent successfully", "data": msg})
}

func (h *Handler) list(c *gin.Context) {
	msgs, err := h.svc.List()
	if err != nil {
		h.logger.Error("list contacts failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, msgs)
}

func (h *Handler) markRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	msg, err := h.svc.MarkRead(uint(id))
	if err != nil {
		h.logger.Error("mark contact read failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	if msg == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, msg)
}
