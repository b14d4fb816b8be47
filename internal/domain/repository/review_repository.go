package repository

import (
	"context"

	"kudos/internal/domain/entity"
)

// Sort fields allowed on the approved listing. Anything else is rejected,
// never silently defaulted.
const (
	SortByApprovedAt   = "approvedAt"
	SortByRating       = "rating"
	SortByName         = "name"
	SortByOrganization = "organization"
)

func ValidSortField(field string) bool {
	switch field {
	case SortByApprovedAt, SortByRating, SortByName, SortByOrganization:
		return true
	}
	return false
}

// ListFilter narrows and orders the approved subset for public display.
type ListFilter struct {
	Featured     *bool
	MinRating    int
	Relationship string
	Search       string
	SortBy       string
	SortOrder    string // "asc" or "desc"
	Limit        int
	Offset       int
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.ReviewRecord) error
	GetByID(ctx context.Context, id string) (*entity.ReviewRecord, error)
	Update(ctx context.Context, review *entity.ReviewRecord) error

	// Mutate loads the current record, applies fn and persists the result,
	// all under the per-review lock, so concurrent read-modify-write cycles
	// never lose each other's changes. fn returning an error abandons the
	// write.
	Mutate(ctx context.Context, id string, fn func(*entity.ReviewRecord) error) (*entity.ReviewRecord, error)

	// ListApproved only ever traverses the approved subset; malformed
	// files are skipped, not fatal.
	ListApproved(ctx context.Context, filter ListFilter) ([]*entity.ReviewRecord, int64, error)

	// Admin methods
	ListByStatus(ctx context.Context, status entity.ReviewStatus, limit, offset int) ([]*entity.ReviewRecord, int64, error)
	CountByStatus(ctx context.Context) (map[entity.ReviewStatus]int, error)
}
