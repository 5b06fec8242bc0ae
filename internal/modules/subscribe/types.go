package subscribe

import "errors"

// SubscribeDTO is the request body for POST /api/subscribe.
type SubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// BatchUnsubscribeDTO is the request body for the admin batch deactivation.
type BatchUnsubscribeDTO struct {
	Emails []string `json:"emails"`
	All    bool     `json:"all"`
}

// Outcome classifies what a subscribe call did.
type Outcome int

const (
	// OutcomeAlreadySubscribed means the address is confirmed; no token was
	// issued and no email goes out.
	OutcomeAlreadySubscribed Outcome = iota
	// OutcomePending means a fresh token was issued (new or re-subscribe).
	OutcomePending
)

var (
	errTokenInvalid = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)
