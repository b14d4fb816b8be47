package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
	"kudos/pkg/utils"
)

type SubmissionUseCase struct {
	reviewRepo    repository.ReviewRepository
	tokenRepo     repository.TokenRepository
	mailer        Mailer
	clientLimiter RateLimiter
	emailLimiter  RateLimiter
	tokenTTL      time.Duration
}

func NewSubmissionUseCase(
	reviewRepo repository.ReviewRepository,
	tokenRepo repository.TokenRepository,
	mailer Mailer,
	clientLimiter RateLimiter,
	emailLimiter RateLimiter,
	tokenTTL time.Duration,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		reviewRepo:    reviewRepo,
		tokenRepo:     tokenRepo,
		mailer:        mailer,
		clientLimiter: clientLimiter,
		emailLimiter:  emailLimiter,
		tokenTTL:      tokenTTL,
	}
}

type SubmitReviewInput struct {
	Name               string
	Email              string
	Title              string
	Organization       string
	Relationship       string
	LinkedinURL        string
	Rating             int
	Testimonial        string
	ProjectAssociation string
	Skills             []string
	Recommendation     bool
	WorkPeriod         *entity.WorkPeriod

	// Honeypot form field, empty for humans
	Website string

	IPAddress string
	UserAgent string
	Language  string
	Timezone  string
	Source    string
}

type SubmitResult struct {
	ReviewID         string
	VerificationSent bool
}

func (uc *SubmissionUseCase) Submit(ctx context.Context, input SubmitReviewInput) (*SubmitResult, error) {
	// Bots fill the hidden field; answer with a plausible success and
	// persist nothing
	if input.Website != "" {
		logger.Warn("Honeypot tripped from %s, discarding submission", input.IPAddress)
		return &SubmitResult{ReviewID: utils.GenerateReviewID(), VerificationSent: true}, nil
	}

	if result := uc.clientLimiter.Check(input.IPAddress + ":submit"); !result.Allowed {
		return nil, errors.TooManyRequests("Too many submissions, please try again later", result.RetryAfter)
	}

	email := utils.NormalizeEmail(input.Email)
	if result := uc.emailLimiter.Check(email); !result.Allowed {
		return nil, errors.TooManyRequests("Too many submissions for this email address", result.RetryAfter)
	}

	review := &entity.ReviewRecord{
		Status: entity.StatusPending,
		Reviewer: entity.Reviewer{
			Name:         input.Name,
			Email:        email,
			Title:        input.Title,
			Organization: input.Organization,
			Relationship: input.Relationship,
			LinkedinURL:  input.LinkedinURL,
		},
		Content: entity.ReviewContent{
			Rating:             input.Rating,
			Testimonial:        input.Testimonial,
			ProjectAssociation: input.ProjectAssociation,
			Skills:             input.Skills,
			Recommendation:     input.Recommendation,
			WorkPeriod:         input.WorkPeriod,
		},
		Metadata: entity.ReviewMetadata{
			SubmittedAt: time.Now().UTC(),
			Source:      input.Source,
			IPAddress:   input.IPAddress,
			UserAgent:   input.UserAgent,
			Language:    input.Language,
			Timezone:    input.Timezone,
		},
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	token, err := uc.issueToken(ctx, review.ID, email)
	if err != nil {
		return nil, err
	}

	// Email failure must not roll back the stored review
	verificationSent := true
	if err := uc.mailer.SendVerification(ctx, email, input.Name, review.ID, token.Token); err != nil {
		logger.LogMailError("verification", email, err)
		verificationSent = false
	}

	return &SubmitResult{ReviewID: review.ID, VerificationSent: verificationSent}, nil
}

// issueToken mints a fresh verification token for the review. Any earlier
// unredeemed tokens are superseded so only the newest emailed link works.
func (uc *SubmissionUseCase) issueToken(ctx context.Context, reviewID, email string) (*entity.VerificationToken, error) {
	if _, err := uc.tokenRepo.DeleteUnusedByReviewID(ctx, reviewID); err != nil {
		logger.Warn("Failed to supersede old tokens for review %s: %v", reviewID, err)
	}

	now := time.Now().UTC()
	token := &entity.VerificationToken{
		Token:     uuid.New().String(),
		Email:     email,
		ReviewID:  reviewID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.tokenTTL),
	}

	if err := uc.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}
