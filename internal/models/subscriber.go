package models

import "time"

// SubscriberStatus is the double opt-in state of a newsletter subscriber.
type SubscriberStatus string

const (
	SubscriberPending   SubscriberStatus = "pending"
	SubscriberConfirmed SubscriberStatus = "confirmed"
)

// SubscriberModel is one newsletter subscriber. The plaintext confirmation
// secret is never stored; only its SHA-256 digest lands in ConfirmTokenHash.
// The hash/expiry pair is non-null exactly while a confirmation is outstanding
// and both are cleared on confirm, so a consumed token is indistinguishable
// from an unknown one.
type SubscriberModel struct {
	Base
	Email            string           `json:"email"            gorm:"uniqueIndex;not null"`
	Status           SubscriberStatus `json:"status"           gorm:"type:varchar(16);not null;default:pending"`
	ConfirmTokenHash *string          `json:"-"                gorm:"uniqueIndex"`
	TokenExpiresAt   *time.Time       `json:"-"`
	SubscribedAt     time.Time        `json:"subscribedAt"`
	ConfirmedAt      *time.Time       `json:"confirmedAt"`
	IP               *string          `json:"-"`
	UserAgent        *string          `json:"-"`
	Active           bool             `json:"active"           gorm:"not null;default:true"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
