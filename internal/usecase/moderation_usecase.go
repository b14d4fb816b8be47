package usecase

import (
	"context"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
	"kudos/pkg/utils"
)

const (
	ActionApproved = "approved"
	ActionRejected = "rejected"
	// Accepted as a legacy alias for approved
	ActionPublished = "published"
)

const statsCacheKey = "review-stats"

type ModerationUseCase struct {
	reviewRepo repository.ReviewRepository
	mailer     Mailer
	statsCache *cache.Cache
}

func NewModerationUseCase(reviewRepo repository.ReviewRepository, mailer Mailer) *ModerationUseCase {
	return &ModerationUseCase{
		reviewRepo: reviewRepo,
		mailer:     mailer,
		statsCache: cache.New(time.Minute, 5*time.Minute),
	}
}

type ModerateInput struct {
	ReviewID    string
	Action      string
	Notes       string
	ModeratedBy string
}

func (uc *ModerationUseCase) Moderate(ctx context.Context, input ModerateInput) (*entity.ReviewRecord, error) {
	if !utils.IsValidReviewID(input.ReviewID) {
		return nil, errors.InvalidReviewID(input.ReviewID)
	}

	var target entity.ReviewStatus
	switch input.Action {
	case ActionApproved, ActionPublished:
		target = entity.StatusApproved
	case ActionRejected:
		target = entity.StatusRejected
	default:
		return nil, errors.InvalidStatus("unsupported moderation action: " + input.Action)
	}

	now := time.Now().UTC()

	// The transition check and the stamps apply to the record as it is at
	// write time, not as it was when the request arrived, so racing
	// moderations and verifications cannot overwrite each other.
	review, err := uc.reviewRepo.Mutate(ctx, input.ReviewID, func(review *entity.ReviewRecord) error {
		if err := checkTransition(review.Status, target); err != nil {
			return err
		}

		review.Status = target
		review.Admin.Notes = input.Notes
		review.Admin.ModeratedBy = input.ModeratedBy
		review.Admin.ModeratedAt = &now
		if target == entity.StatusApproved && review.Metadata.ApprovedAt == nil {
			review.Metadata.ApprovedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.statsCache.Delete(statsCacheKey)

	go uc.notifyReviewer(*review)

	return review, nil
}

// checkTransition enforces the moderation state machine: pending and
// verified reviews can be approved or rejected, approved reviews can still
// be taken down, rejected and archived reviews are final.
func checkTransition(from, to entity.ReviewStatus) error {
	if from.Terminal() {
		return errors.InvalidStatus("review in status " + string(from) + " can no longer be moderated")
	}
	if from == entity.StatusApproved && to == entity.StatusApproved {
		return errors.InvalidStatus("review is already approved")
	}
	return nil
}

func (uc *ModerationUseCase) notifyReviewer(review entity.ReviewRecord) {
	ctx := context.Background()

	var err error
	switch review.Status {
	case entity.StatusApproved:
		err = uc.mailer.SendApproval(ctx, review.Reviewer.Email, review.Reviewer.Name)
	case entity.StatusRejected:
		err = uc.mailer.SendRejection(ctx, review.Reviewer.Email, review.Reviewer.Name, review.Admin.Notes)
	default:
		return
	}

	if err != nil {
		logger.LogMailError(string(review.Status), review.Reviewer.Email, err)
	}
}

func (uc *ModerationUseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.ReviewRecord, int64, error) {
	reviewStatus := entity.ReviewStatus(status)
	if status == "" {
		reviewStatus = entity.StatusPending
	}

	return uc.reviewRepo.ListByStatus(ctx, reviewStatus, limit, offset)
}

func (uc *ModerationUseCase) GetByID(ctx context.Context, reviewID string) (*entity.ReviewRecord, error) {
	if !utils.IsValidReviewID(reviewID) {
		return nil, errors.InvalidReviewID(reviewID)
	}
	return uc.reviewRepo.GetByID(ctx, reviewID)
}

type ReviewStats struct {
	Total         int                         `json:"total"`
	ByStatus      map[entity.ReviewStatus]int `json:"byStatus"`
	AverageRating float64                     `json:"averageRating"`
	GeneratedAt   time.Time                   `json:"generatedAt"`
}

// Stats aggregates per-status counts and the average rating across the
// published testimonials. The aggregate walks every status directory, so
// results are held in a short-lived cache; moderation actions invalidate it.
func (uc *ModerationUseCase) Stats(ctx context.Context) (*ReviewStats, error) {
	if cached, found := uc.statsCache.Get(statsCacheKey); found {
		return cached.(*ReviewStats), nil
	}

	counts, err := uc.reviewRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	approved, _, err := uc.reviewRepo.ListApproved(ctx, repository.ListFilter{})
	if err != nil {
		return nil, err
	}

	average := 0.0
	if len(approved) > 0 {
		sum := 0
		for _, review := range approved {
			sum += review.Content.Rating
		}
		average = math.Round(float64(sum)/float64(len(approved))*100) / 100
	}

	stats := &ReviewStats{
		Total:         total,
		ByStatus:      counts,
		AverageRating: average,
		GeneratedAt:   time.Now().UTC(),
	}
	uc.statsCache.Set(statsCacheKey, stats, cache.DefaultExpiration)

	return stats, nil
}
