package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
)

const (
	defaultDisplayLimit = 12
	maxDisplayLimit     = 50
	maxFeaturedReviews  = 6
)

type PublicReviewUseCase struct {
	reviewRepo repository.ReviewRepository
}

func NewPublicReviewUseCase(reviewRepo repository.ReviewRepository) *PublicReviewUseCase {
	return &PublicReviewUseCase{
		reviewRepo: reviewRepo,
	}
}

type DisplayQuery struct {
	Limit        int
	Offset       int
	SortBy       string
	SortOrder    string
	Featured     *bool
	MinRating    int
	Relationship string
	Search       string
}

type Pagination struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	HasMore     bool  `json:"hasMore"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

type DisplayFilters struct {
	SortBy       string `json:"sortBy"`
	SortOrder    string `json:"sortOrder"`
	Featured     *bool  `json:"featured,omitempty"`
	MinRating    int    `json:"minRating,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Search       string `json:"search,omitempty"`
}

type DisplayResult struct {
	Reviews    []*entity.PublicReview `json:"reviews"`
	Featured   []*entity.PublicReview `json:"featured"`
	Pagination Pagination             `json:"pagination"`
	Filters    DisplayFilters         `json:"filters"`
}

// ListPublic serves the public testimonial wall: one page of sanitized
// approved reviews plus the pinned featured subset.
func (uc *PublicReviewUseCase) ListPublic(ctx context.Context, query DisplayQuery) (*DisplayResult, error) {
	if query.Limit <= 0 {
		query.Limit = defaultDisplayLimit
	}
	if query.Limit > maxDisplayLimit {
		query.Limit = maxDisplayLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	if query.SortBy == "" {
		query.SortBy = repository.SortByApprovedAt
	}
	if query.SortOrder != "asc" {
		query.SortOrder = "desc"
	}

	reviews, total, err := uc.reviewRepo.ListApproved(ctx, repository.ListFilter{
		Featured:     query.Featured,
		MinRating:    query.MinRating,
		Relationship: query.Relationship,
		Search:       query.Search,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
		Limit:        query.Limit,
		Offset:       query.Offset,
	})
	if err != nil {
		return nil, err
	}

	featured, err := uc.featuredSubset(ctx)
	if err != nil {
		return nil, err
	}

	return &DisplayResult{
		Reviews:    sanitizeAll(reviews),
		Featured:   featured,
		Pagination: buildPagination(total, query.Limit, query.Offset),
		Filters: DisplayFilters{
			SortBy:       query.SortBy,
			SortOrder:    query.SortOrder,
			Featured:     query.Featured,
			MinRating:    query.MinRating,
			Relationship: query.Relationship,
			Search:       query.Search,
		},
	}, nil
}

// featuredSubset returns the pinned reviews ordered by displayOrder, ties
// broken by most recent approval, capped so the wall header stays small.
func (uc *PublicReviewUseCase) featuredSubset(ctx context.Context) ([]*entity.PublicReview, error) {
	featured := true
	records, _, err := uc.reviewRepo.ListApproved(ctx, repository.ListFilter{
		Featured:  &featured,
		SortBy:    repository.SortByApprovedAt,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		oi, oj := displayOrderOf(records[i]), displayOrderOf(records[j])
		if oi != oj {
			return oi < oj
		}
		return approvedTimeOf(records[i]).After(approvedTimeOf(records[j]))
	})

	if len(records) > maxFeaturedReviews {
		records = records[:maxFeaturedReviews]
	}

	return sanitizeAll(records), nil
}

func sanitizeAll(records []*entity.ReviewRecord) []*entity.PublicReview {
	public := make([]*entity.PublicReview, 0, len(records))
	for _, record := range records {
		public = append(public, record.Sanitize())
	}
	return public
}

func displayOrderOf(record *entity.ReviewRecord) int {
	if record.Admin.DisplayOrder != nil {
		return *record.Admin.DisplayOrder
	}
	return math.MaxInt
}

func approvedTimeOf(record *entity.ReviewRecord) time.Time {
	if record.Metadata.ApprovedAt != nil {
		return *record.Metadata.ApprovedAt
	}
	return time.Time{}
}

func buildPagination(total int64, limit, offset int) Pagination {
	return Pagination{
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     int64(offset+limit) < total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: offset/limit + 1,
	}
}
