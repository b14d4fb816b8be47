package repository

import (
	"context"
	"time"

	"kudos/internal/domain/entity"
)

type TokenRepository interface {
	Create(ctx context.Context, token *entity.VerificationToken) error
	GetByToken(ctx context.Context, token string) (*entity.VerificationToken, error)
	Update(ctx context.Context, token *entity.VerificationToken) error

	// Mutate loads the token, applies fn and persists the result, all under
	// the per-token lock. fn returning an error abandons the write.
	Mutate(ctx context.Context, value string, fn func(*entity.VerificationToken) error) (*entity.VerificationToken, error)

	// DeleteUnusedByReviewID removes prior unused tokens so a newly issued
	// token is the only redeemable one for a review.
	DeleteUnusedByReviewID(ctx context.Context, reviewID string) (int, error)

	// DeleteExpired removes tokens whose expiry is before cutoff; used by
	// the background janitor.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
