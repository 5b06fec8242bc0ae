package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thedevincicode/core/internal/models"
	"github.com/thedevincicode/core/internal/pkg/jwt"
	"github.com/thedevincicode/core/internal/pkg/response"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// LoginDTO is the request body for POST /api/auth/login.
type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

var errBadCredentials = errors.New("bad credentials")

// Login checks the password against the stored bcrypt hash and returns the
// matching user.
func (s *Service) Login(username, password string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	return &user, nil
}

// CreateUser registers an admin account with a bcrypt-hashed password.
func (s *Service) CreateUser(username, password string) (*models.UserModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.UserModel{Username: username, Password: string(hash)}
	return &user, s.db.Create(&user).Error
}

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, errBadCredentials) {
			response.Unauthorized(c)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	tok, err := jwt.Sign(user.ID, tokenTTL)
	if err != nil {
		h.logger.Error("sign token failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"token": tok, "username": user.Username})
}
