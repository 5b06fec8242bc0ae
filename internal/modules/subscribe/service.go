package subscribe

import (
	"errors"
	"time"

	"github.com/thedevincicode/core/internal/models"
	"github.com/thedevincicode/core/internal/pkg/token"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tokenTTL is how long a confirmation link stays valid.
const tokenTTL = 7 * 24 * time.Hour

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// SubscribeResult carries the outcome of a subscribe call plus the plaintext
// secret the handler embeds in the confirmation link. The secret never
// touches the database.
type SubscribeResult struct {
	Outcome Outcome
	Secret  string
}

// Subscribe performs the create-or-refresh upsert for one email address.
// An already-confirmed address short-circuits with no new token; otherwise a
// fresh token pair replaces whatever was outstanding, which permanently
// invalidates the previous secret.
func (s *Service) Subscribe(email, ip, userAgent string) (SubscribeResult, error) {
	existing, err := s.GetByEmail(email)
	if err != nil {
		return SubscribeResult{}, err
	}
	if existing != nil && existing.Status == models.SubscriberConfirmed {
		return SubscribeResult{Outcome: OutcomeAlreadySubscribed}, nil
	}

	pair, err := token.New()
	if err != nil {
		return SubscribeResult{}, err
	}

	now := time.Now()
	expiresAt := now.Add(tokenTTL)
	sub := models.SubscriberModel{
		Email:            email,
		Status:           models.SubscriberPending,
		ConfirmTokenHash: &pair.Digest,
		TokenExpiresAt:   &expiresAt,
		SubscribedAt:     now,
		Active:           true,
	}
	if ip != "" {
		sub.IP = &ip
	}
	if userAgent != "" {
		sub.UserAgent = &userAgent
	}

	// Upsert keyed on the unique email index so two concurrent subscribe
	// calls for the same address can never create two rows.
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "confirm_token_hash", "token_expires_at",
			"subscribed_at", "ip", "user_agent", "active",
		}),
	}).Create(&sub).Error
	if err != nil {
		return SubscribeResult{}, err
	}

	return SubscribeResult{Outcome: OutcomePending, Secret: pair.Secret}, nil
}

// Confirm consumes a presented secret: hash it, find the subscriber, check
// expiry, flip pending to confirmed and clear the token columns. A consumed
// or unknown token both come back as errTokenInvalid; an expired one leaves
// the record pending with its stale token so a fresh subscribe can replace it.
func (s *Service) Confirm(secret string) error {
	digest := token.Digest(secret)

	var sub models.SubscriberModel
	if err := s.db.Where("confirm_token_hash = ?", digest).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errTokenInvalid
		}
		return err
	}

	if sub.TokenExpiresAt != nil && sub.TokenExpiresAt.Before(time.Now()) {
		return errTokenExpired
	}

	now := time.Now()
	return s.db.Model(&models.SubscriberModel{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"status":             models.SubscriberConfirmed,
			"confirmed_at":       now,
			"confirm_token_hash": nil,
			"token_expires_at":   nil,
			"active":             true,
		}).Error
}

// Unsubscribe flips active off; status is untouched, unsubscription is
// orthogonal to the opt-in state.
func (s *Service) Unsubscribe(email string) error {
	result := s.db.Model(&models.SubscriberModel{}).
		Where("email = ?", email).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("not found")
	}
	return nil
}

// BatchUnsubscribe deactivates the given emails, or every subscriber when all
// is set. Returns the number of rows touched.
func (s *Service) BatchUnsubscribe(emails []string, all bool) (int64, error) {
	query := s.db.Model(&models.SubscriberModel{})
	if !all {
		if len(emails) == 0 {
			return 0, nil
		}
		query = query.Where("email IN ?", emails)
	}
	result := query.Update("active", false)
	return result.RowsAffected, result.Error
}

func (s *Service) GetByEmail(email string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.Where("email = ?", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// List returns all subscribers, newest first.
func (s *Service) List() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}
