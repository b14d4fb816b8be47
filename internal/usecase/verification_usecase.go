package usecase

import (
	"context"
	"time"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
	"kudos/pkg/utils"
)

type VerificationUseCase struct {
	reviewRepo repository.ReviewRepository
	tokenRepo  repository.TokenRepository
	mailer     Mailer
}

func NewVerificationUseCase(
	reviewRepo repository.ReviewRepository,
	tokenRepo repository.TokenRepository,
	mailer Mailer,
) *VerificationUseCase {
	return &VerificationUseCase{
		reviewRepo: reviewRepo,
		tokenRepo:  tokenRepo,
		mailer:     mailer,
	}
}

const (
	VerifyStatusSuccess         = "success"
	VerifyStatusAlreadyVerified = "already_verified"
)

type VerifyResult struct {
	Status   string `json:"status"`
	ReviewID string `json:"reviewId"`
}

// Redeem consumes a verification token for the given review. Checks run in
// a fixed order: the token must exist, must not be expired, must not be
// used. Expiry is checked before redemption state so an expired token
// reports expired even when it was already redeemed.
//
// The whole decision runs inside the token mutation, so a token redeems at
// most once however many callers race on it, and the review flips under its
// own lock before the token burns, so a failed redemption stays retryable.
// Lock order is always token before review; nothing takes them the other
// way around.
func (uc *VerificationUseCase) Redeem(ctx context.Context, reviewID, tokenValue string) (*VerifyResult, error) {
	if !utils.IsValidReviewID(reviewID) {
		return nil, errors.InvalidReviewID(reviewID)
	}

	now := time.Now().UTC()

	var review *entity.ReviewRecord
	var wasExpired, wasUsed bool

	_, err := uc.tokenRepo.Mutate(ctx, tokenValue, func(token *entity.VerificationToken) error {
		if token.ReviewID != reviewID {
			return errors.TokenNotFound("Verification token does not match this review")
		}

		token.Attempts++

		if token.Expired(now) {
			wasExpired = true
			return nil
		}
		if token.Used {
			wasUsed = true
			return nil
		}

		verified, err := uc.reviewRepo.Mutate(ctx, reviewID, func(r *entity.ReviewRecord) error {
			markVerified(r, now)
			return nil
		})
		if err != nil {
			return err
		}

		review = verified
		token.Used = true
		return nil
	})
	if err != nil {
		if !wasExpired && !wasUsed {
			return nil, err
		}
		// Recording the attempt is best-effort; the outcome stands.
		logger.Warn("Failed to record attempt on token for review %s: %v", reviewID, err)
	}

	if wasExpired {
		return nil, errors.TokenExpired("Verification token has expired")
	}
	if wasUsed {
		return &VerifyResult{Status: VerifyStatusAlreadyVerified, ReviewID: reviewID}, nil
	}

	go uc.alertAdmin(*review)

	return &VerifyResult{Status: VerifyStatusSuccess, ReviewID: reviewID}, nil
}

// markVerified flips a pending review to verified and stamps the reviewer.
// Reviews already moderated keep their status; only the verified flag and
// timestamp are backfilled.
func markVerified(review *entity.ReviewRecord, now time.Time) {
	if review.Status == entity.StatusPending {
		review.Status = entity.StatusVerified
	}
	if !review.Reviewer.Verified {
		review.Reviewer.Verified = true
	}
	if review.Metadata.VerifiedAt == nil {
		verifiedAt := now
		review.Metadata.VerifiedAt = &verifiedAt
	}
}

func (uc *VerificationUseCase) alertAdmin(review entity.ReviewRecord) {
	if err := uc.mailer.SendAdminAlert(context.Background(), &review); err != nil {
		logger.LogMailError("admin alert", review.ID, err)
	}
}
