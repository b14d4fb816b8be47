package entity

import (
	"time"
)

// VerificationToken is a single-use, time-bounded credential proving the
// submitter controls the email address on a review. At most one active
// (unused, unexpired) token exists per review; issuing a new one removes
// the prior unused tokens.
type VerificationToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ReviewID  string    `json:"reviewId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
	Attempts  int       `json:"attempts"`
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
