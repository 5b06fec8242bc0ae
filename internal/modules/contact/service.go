package contact

import (
	"errors"

	"github.com/thedevincicode/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Create persists one contact message, unread.
func (s *Service) Create(dto *ContactDTO) (*models.ContactModel, error) {
	msg := models.ContactModel{
		Name:    dto.Name,
		Email:   dto.Email,
		Subject: dto.Subject,
		Message: dto.Message,
		Read:    false,
	}
	return &msg, s.db.Create(&msg).Error
}

// List returns all contact messages, newest first.
func (s *Service) List() ([]models.ContactModel, error) {
	var msgs []models.ContactModel
	err := s.db.Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

// MarkRead flags a message as handled.
func (s *Service) MarkRead(id uint) (*models.ContactModel, error) {
	var msg models.ContactModel
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.db.Model(&msg).Update("read", true).Error; err != nil {
		return nil, err
	}
	msg.Read = true
	return &msg, nil
}
