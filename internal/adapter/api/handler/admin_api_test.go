package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudos/internal/domain/entity"
)

func TestAdminEndpointsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	endpoints := []struct {
		method, path string
	}{
		{http.MethodPatch, "/v1/admin/reviews/abcdef123456"},
		{http.MethodGet, "/v1/admin/reviews"},
		{http.MethodGet, "/v1/admin/reviews/stats"},
		{http.MethodGet, "/v1/admin/reviews/abcdef123456"},
	}

	for _, ep := range endpoints {
		rec := srv.request(t, ep.method, ep.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without a token", ep.method, ep.path)

		rec = srv.request(t, ep.method, ep.path, nil, map[string]string{"Authorization": "Bearer not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with a garbage token", ep.method, ep.path)

		rec = srv.request(t, ep.method, ep.path, nil, map[string]string{"Authorization": "Bearer " + srv.mintToken(t, "user")})
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s without the admin role", ep.method, ep.path)
	}
}

type moderatedReview struct {
	ID       string              `json:"id"`
	Status   entity.ReviewStatus `json:"status"`
	Reviewer struct {
		Email string `json:"email"`
	} `json:"reviewer"`
	Admin struct {
		Notes       string  `json:"notes"`
		ModeratedBy string  `json:"moderatedBy"`
		ModeratedAt *string `json:"moderatedAt"`
	} `json:"admin"`
	Metadata struct {
		ApprovedAt *string `json:"approvedAt"`
	} `json:"metadata"`
}

func TestModerateEndpointApproves(t *testing.T) {
	srv := newTestServer(t)
	review := seedApprovedReview(t, srv, nil)

	// Start from a fresh pending record
	pending := seedApprovedReview(t, srv, func(r *entity.ReviewRecord) {
		r.Status = entity.StatusPending
		r.Metadata.ApprovedAt = nil
	})
	_ = review

	rec := srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+pending.ID, map[string]interface{}{
		"status":     "approved",
		"notes":      "verified employment dates",
		"reviewedBy": "site-owner",
	}, srv.adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var data moderatedReview
	decodeData(t, rec, &data)
	assert.Equal(t, entity.StatusApproved, data.Status)
	assert.Equal(t, "verified employment dates", data.Admin.Notes)
	assert.Equal(t, "site-owner", data.Admin.ModeratedBy)
	assert.NotNil(t, data.Admin.ModeratedAt)
	assert.NotNil(t, data.Metadata.ApprovedAt)
}

func TestModerateEndpointErrors(t *testing.T) {
	srv := newTestServer(t)
	headers := srv.adminHeaders(t)

	// Unknown action is rejected by the request schema
	pending := seedApprovedReview(t, srv, func(r *entity.ReviewRecord) {
		r.Status = entity.StatusPending
		r.Metadata.ApprovedAt = nil
	})
	rec := srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+pending.ID, map[string]string{"status": "vaporize"}, headers)
	requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Malformed id fails before lookup
	rec = srv.request(t, http.MethodPatch, "/v1/admin/reviews/shortid", map[string]string{"status": "approved"}, headers)
	requireErrorCode(t, rec, http.StatusBadRequest, "INVALID_REVIEW_ID")

	// Well-formed id with no record behind it
	rec = srv.request(t, http.MethodPatch, "/v1/admin/reviews/zzzzzz000000", map[string]string{"status": "approved"}, headers)
	requireErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")

	// Terminal records stay terminal
	rejected := seedApprovedReview(t, srv, nil)
	rec = srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+rejected.ID, map[string]string{"status": "rejected"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+rejected.ID, map[string]string{"status": "approved"}, headers)
	requireErrorCode(t, rec, http.StatusBadRequest, "INVALID_STATUS")
}

func TestModeratePublishedAliasEndpoint(t *testing.T) {
	srv := newTestServer(t)

	pending := seedApprovedReview(t, srv, func(r *entity.ReviewRecord) {
		r.Status = entity.StatusPending
		r.Metadata.ApprovedAt = nil
	})

	rec := srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+pending.ID, map[string]string{"status": "published"}, srv.adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var data moderatedReview
	decodeData(t, rec, &data)
	assert.Equal(t, entity.StatusApproved, data.Status)
}

type paginatedData struct {
	Items      []json.RawMessage `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

func TestAdminListReviews(t *testing.T) {
	srv := newTestServer(t)
	headers := srv.adminHeaders(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		review := &entity.ReviewRecord{
			Reviewer: entity.Reviewer{Name: "Pending Person", Email: "p@x.com", Relationship: "colleague"},
			Content:  entity.ReviewContent{Rating: 4, Testimonial: "Pending testimonial text.", Recommendation: true},
		}
		require.NoError(t, srv.reviewRepo.Create(ctx, review))
	}
	seedApprovedReview(t, srv, nil)

	// Defaults to the moderation queue (pending)
	rec := srv.request(t, http.MethodGet, "/v1/admin/reviews", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var data paginatedData
	decodeData(t, rec, &data)
	assert.EqualValues(t, 3, data.Total)
	assert.Len(t, data.Items, 3)
	assert.Equal(t, 1, data.Page)

	// Page-based slicing
	rec = srv.request(t, http.MethodGet, "/v1/admin/reviews?page=2&limit=2", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &data)
	assert.EqualValues(t, 3, data.Total)
	assert.Len(t, data.Items, 1)
	assert.Equal(t, 2, data.Page)
	assert.Equal(t, 2, data.TotalPages)

	// Explicit status filter, full records with PII for the admin surface
	rec = srv.request(t, http.MethodGet, "/v1/admin/reviews?status=approved", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &data)
	require.Len(t, data.Items, 1)
	assert.Contains(t, string(data.Items[0]), "jane@x.com")
}

func TestAdminStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	seedApprovedReview(t, srv, func(r *entity.ReviewRecord) { r.Content.Rating = 4 })
	seedApprovedReview(t, srv, func(r *entity.ReviewRecord) { r.Content.Rating = 5 })

	rec := srv.request(t, http.MethodGet, "/v1/admin/reviews/stats", nil, srv.adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total         int                         `json:"total"`
		ByStatus      map[entity.ReviewStatus]int `json:"byStatus"`
		AverageRating float64                     `json:"averageRating"`
	}
	decodeData(t, rec, &stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[entity.StatusApproved])
	assert.Equal(t, 4.5, stats.AverageRating)
}

// The full life of one testimonial: rejected payload, accepted payload,
// admin approval, public visibility.
func TestSubmissionToDisplayScenario(t *testing.T) {
	srv := newTestServer(t)

	bad := validSubmission()
	bad["rating"] = 6
	rec := srv.request(t, http.MethodPost, "/v1/reviews", bad, nil)
	errInfo := requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, errInfo.Message, "rating")

	good := map[string]interface{}{
		"name":           "Jane Doe",
		"email":          "jane@x.com",
		"relationship":   "colleague",
		"rating":         5,
		"testimonial":    "Great work! A dependable collaborator through the entire engagement.",
		"recommendation": true,
	}
	rec = srv.request(t, http.MethodPost, "/v1/reviews", good, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted submitResponse
	decodeData(t, rec, &submitted)

	review, err := srv.reviewRepo.GetByID(context.Background(), submitted.ReviewID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, review.Status)

	// Not visible while pending
	rec = srv.request(t, http.MethodGet, "/v1/reviews/display", nil, nil)
	var display displayResponse
	decodeData(t, rec, &display)
	assert.Empty(t, display.Reviews)

	rec = srv.request(t, http.MethodPatch, "/v1/admin/reviews/"+submitted.ReviewID, map[string]string{"status": "approved"}, srv.adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.request(t, http.MethodGet, "/v1/reviews/display", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &display)
	require.Len(t, display.Reviews, 1)
	assert.Equal(t, submitted.ReviewID, display.Reviews[0]["id"])
	assert.Equal(t, "Jane Doe", display.Reviews[0]["name"])
	assert.NotContains(t, display.Reviews[0], "email")
	assert.NotContains(t, rec.Body.String(), "jane@x.com")
}
