package repository

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/internal/infrastructure/filestore"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
	"kudos/pkg/utils"
)

const reviewsDir = "reviews"

type fileReviewRepository struct {
	store *filestore.Store
}

func NewFileReviewRepository(store *filestore.Store) repository.ReviewRepository {
	return &fileReviewRepository{
		store: store,
	}
}

func reviewPath(status entity.ReviewStatus, id string) string {
	return filepath.Join(reviewsDir, string(status), id+".json")
}

func (r *fileReviewRepository) Create(ctx context.Context, review *entity.ReviewRecord) error {
	if review.ID == "" {
		review.ID = utils.GenerateReviewID()
	}
	if review.Status == "" {
		review.Status = entity.StatusPending
	}
	if review.Metadata.SubmittedAt.IsZero() {
		review.Metadata.SubmittedAt = time.Now().UTC()
	}

	unlock := r.store.Lock("review:" + review.ID)
	defer unlock()

	if err := r.store.WriteJSON(reviewPath(review.Status, review.ID), review); err != nil {
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *fileReviewRepository) GetByID(ctx context.Context, id string) (*entity.ReviewRecord, error) {
	return r.read(id)
}

// Update rewrites the review under its current status directory and removes
// any copy left under the previous one, so each review lives in exactly one
// status directory at a time.
func (r *fileReviewRepository) Update(ctx context.Context, review *entity.ReviewRecord) error {
	unlock := r.store.Lock("review:" + review.ID)
	defer unlock()

	return r.write(review)
}

// Mutate holds the per-review lock across the whole read-modify-write
// cycle, so the state fn sees is the state the write lands on.
func (r *fileReviewRepository) Mutate(ctx context.Context, id string, fn func(*entity.ReviewRecord) error) (*entity.ReviewRecord, error) {
	unlock := r.store.Lock("review:" + id)
	defer unlock()

	review, err := r.read(id)
	if err != nil {
		return nil, err
	}

	if err := fn(review); err != nil {
		return nil, err
	}

	if err := r.write(review); err != nil {
		return nil, err
	}

	return review, nil
}

func (r *fileReviewRepository) read(id string) (*entity.ReviewRecord, error) {
	for _, status := range entity.AllStatuses() {
		var review entity.ReviewRecord
		err := r.store.ReadJSON(reviewPath(status, id), &review)
		if err == nil {
			return &review, nil
		}
		if !filestore.IsNotExist(err) {
			return nil, errors.Internal("Failed to read review", err)
		}
	}

	return nil, errors.NotFound("Review", nil)
}

func (r *fileReviewRepository) write(review *entity.ReviewRecord) error {
	if err := r.store.WriteJSON(reviewPath(review.Status, review.ID), review); err != nil {
		return errors.Internal("Failed to update review", err)
	}

	for _, status := range entity.AllStatuses() {
		if status == review.Status {
			continue
		}
		if err := r.store.Remove(reviewPath(status, review.ID)); err != nil {
			return errors.Internal("Failed to move review between statuses", err)
		}
	}

	return nil
}

func (r *fileReviewRepository) ListApproved(ctx context.Context, filter repository.ListFilter) ([]*entity.ReviewRecord, int64, error) {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = repository.SortByApprovedAt
	}
	if !repository.ValidSortField(sortBy) {
		return nil, 0, errors.InvalidSortField(sortBy)
	}

	reviews, err := r.loadStatus(entity.StatusApproved)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]*entity.ReviewRecord, 0, len(reviews))
	for _, review := range reviews {
		if !matchesFilter(review, filter) {
			continue
		}
		filtered = append(filtered, review)
	}

	sortReviews(filtered, sortBy, filter.SortOrder)

	total := int64(len(filtered))
	return paginate(filtered, filter.Limit, filter.Offset), total, nil
}

func (r *fileReviewRepository) ListByStatus(ctx context.Context, status entity.ReviewStatus, limit, offset int) ([]*entity.ReviewRecord, int64, error) {
	if !status.Valid() {
		return nil, 0, errors.InvalidStatus("unknown review status: " + string(status))
	}

	reviews, err := r.loadStatus(status)
	if err != nil {
		return nil, 0, err
	}

	// Newest submissions first for moderation queues
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Metadata.SubmittedAt.After(reviews[j].Metadata.SubmittedAt)
	})

	total := int64(len(reviews))
	return paginate(reviews, limit, offset), total, nil
}

func (r *fileReviewRepository) CountByStatus(ctx context.Context) (map[entity.ReviewStatus]int, error) {
	counts := make(map[entity.ReviewStatus]int, len(entity.AllStatuses()))
	for _, status := range entity.AllStatuses() {
		ids, err := r.store.ListDocuments(filepath.Join(reviewsDir, string(status)))
		if err != nil {
			return nil, errors.Internal("Failed to count reviews", err)
		}
		counts[status] = len(ids)
	}

	return counts, nil
}

func (r *fileReviewRepository) loadStatus(status entity.ReviewStatus) ([]*entity.ReviewRecord, error) {
	ids, err := r.store.ListDocuments(filepath.Join(reviewsDir, string(status)))
	if err != nil {
		return nil, errors.Internal("Failed to list reviews", err)
	}

	reviews := make([]*entity.ReviewRecord, 0, len(ids))
	for _, id := range ids {
		var review entity.ReviewRecord
		if err := r.store.ReadJSON(reviewPath(status, id), &review); err != nil {
			if filestore.IsNotExist(err) {
				// Removed between listing and read
				continue
			}
			// A corrupt document must not take the whole listing down
			logger.Warn("Skipping unreadable review file %s/%s: %v", status, id, err)
			continue
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func matchesFilter(review *entity.ReviewRecord, filter repository.ListFilter) bool {
	if filter.Featured != nil && review.Admin.Featured != *filter.Featured {
		return false
	}
	if filter.MinRating > 0 && review.Content.Rating < filter.MinRating {
		return false
	}
	if filter.Relationship != "" && review.Reviewer.Relationship != filter.Relationship {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(review.Content.Testimonial), q) &&
			!strings.Contains(strings.ToLower(review.Reviewer.Name), q) &&
			!strings.Contains(strings.ToLower(review.Reviewer.Organization), q) {
			return false
		}
	}
	return true
}

func sortReviews(reviews []*entity.ReviewRecord, sortBy, sortOrder string) {
	less := func(a, b *entity.ReviewRecord) bool {
		switch sortBy {
		case repository.SortByRating:
			return a.Content.Rating < b.Content.Rating
		case repository.SortByName:
			return strings.ToLower(a.Reviewer.Name) < strings.ToLower(b.Reviewer.Name)
		case repository.SortByOrganization:
			return strings.ToLower(a.Reviewer.Organization) < strings.ToLower(b.Reviewer.Organization)
		default:
			return approvedAtOf(a).Before(approvedAtOf(b))
		}
	}

	asc := sortOrder == "asc"

	// Descending swaps the arguments rather than negating: equal elements
	// compare false both ways, so ties keep their stable order.
	sort.SliceStable(reviews, func(i, j int) bool {
		if asc {
			return less(reviews[i], reviews[j])
		}
		return less(reviews[j], reviews[i])
	})
}

func approvedAtOf(review *entity.ReviewRecord) time.Time {
	if review.Metadata.ApprovedAt != nil {
		return *review.Metadata.ApprovedAt
	}
	return time.Time{}
}

func paginate(reviews []*entity.ReviewRecord, limit, offset int) []*entity.ReviewRecord {
	if offset > 0 {
		if offset >= len(reviews) {
			return []*entity.ReviewRecord{}
		}
		reviews = reviews[offset:]
	}
	if limit > 0 && limit < len(reviews) {
		reviews = reviews[:limit]
	}
	return reviews
}
