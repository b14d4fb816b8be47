package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	adapterrepo "kudos/internal/adapter/repository"
	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/internal/infrastructure/filestore"
	"kudos/internal/infrastructure/ratelimit"
)

type mailCall struct {
	kind     string
	to       string
	reviewID string
	token    string
	notes    string
}

// fakeMailer records outbound mail so tests can assert on triggers and
// capture issued tokens. Calls are also pushed to a channel because some
// sends happen on detached goroutines.
type fakeMailer struct {
	mu       sync.Mutex
	calls    []mailCall
	failWith error
	notified chan mailCall
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{notified: make(chan mailCall, 16)}
}

func (m *fakeMailer) record(call mailCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	m.calls = append(m.calls, call)
	m.notified <- call
	return nil
}

func (m *fakeMailer) SendVerification(ctx context.Context, toEmail, toName, reviewID, token string) error {
	return m.record(mailCall{kind: "verification", to: toEmail, reviewID: reviewID, token: token})
}

func (m *fakeMailer) SendApproval(ctx context.Context, toEmail, toName string) error {
	return m.record(mailCall{kind: "approval", to: toEmail})
}

func (m *fakeMailer) SendRejection(ctx context.Context, toEmail, toName, notes string) error {
	return m.record(mailCall{kind: "rejection", to: toEmail, notes: notes})
}

func (m *fakeMailer) SendAdminAlert(ctx context.Context, review *entity.ReviewRecord) error {
	return m.record(mailCall{kind: "admin_alert", reviewID: review.ID})
}

func (m *fakeMailer) callsOf(kind string) []mailCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []mailCall
	for _, call := range m.calls {
		if call.kind == kind {
			matched = append(matched, call)
		}
	}
	return matched
}

func (m *fakeMailer) wait(t *testing.T, kind string) mailCall {
	t.Helper()

	deadline := time.After(time.Second)
	for {
		select {
		case call := <-m.notified:
			if call.kind == kind {
				return call
			}
		case <-deadline:
			t.Fatalf("no %s mail arrived within 1s", kind)
		}
	}
}

type testEnv struct {
	store      *filestore.Store
	reviewRepo repository.ReviewRepository
	tokenRepo  repository.TokenRepository
	mailer     *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := filestore.NewStore(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		store:      store,
		reviewRepo: adapterrepo.NewFileReviewRepository(store),
		tokenRepo:  adapterrepo.NewFileTokenRepository(store),
		mailer:     newFakeMailer(),
	}
}

func (e *testEnv) submission(clientMax, emailMax int) *SubmissionUseCase {
	clientLimiter := ratelimit.NewLimiter(e.store, "client", clientMax, time.Hour)
	emailLimiter := ratelimit.NewLimiter(e.store, "email", emailMax, time.Hour)
	return NewSubmissionUseCase(e.reviewRepo, e.tokenRepo, e.mailer, clientLimiter, emailLimiter, 24*time.Hour)
}

func (e *testEnv) verification() *VerificationUseCase {
	return NewVerificationUseCase(e.reviewRepo, e.tokenRepo, e.mailer)
}

func (e *testEnv) moderation() *ModerationUseCase {
	return NewModerationUseCase(e.reviewRepo, e.mailer)
}

func (e *testEnv) publicReviews() *PublicReviewUseCase {
	return NewPublicReviewUseCase(e.reviewRepo)
}

func validInput() SubmitReviewInput {
	return SubmitReviewInput{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Relationship:   entity.RelationshipColleague,
		Rating:         5,
		Testimonial:    "Great work!",
		Recommendation: true,
		IPAddress:      "203.0.113.7",
		UserAgent:      "test-agent",
		Source:         "web",
	}
}

// seedPending writes a pending review plus a verification token straight
// through the repositories, bypassing the submission pipeline.
func (e *testEnv) seedPending(t *testing.T, ttl time.Duration) (string, string) {
	t.Helper()
	ctx := context.Background()

	review := &entity.ReviewRecord{
		Reviewer: entity.Reviewer{
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			Relationship: entity.RelationshipColleague,
		},
		Content: entity.ReviewContent{
			Rating:         5,
			Testimonial:    "Great work!",
			Recommendation: true,
		},
	}
	require.NoError(t, e.reviewRepo.Create(ctx, review))

	now := time.Now().UTC()
	token := &entity.VerificationToken{
		Token:     uuid.New().String(),
		Email:     "jane@example.com",
		ReviewID:  review.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	require.NoError(t, e.tokenRepo.Create(ctx, token))

	return review.ID, token.Token
}

// seedApproved creates an approved review ready for the public listing.
func (e *testEnv) seedApproved(t *testing.T, mutate func(*entity.ReviewRecord)) *entity.ReviewRecord {
	t.Helper()
	ctx := context.Background()

	review := &entity.ReviewRecord{
		Reviewer: entity.Reviewer{
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			Organization: "Acme",
			Relationship: entity.RelationshipColleague,
			Verified:     true,
		},
		Content: entity.ReviewContent{
			Rating:         5,
			Testimonial:    "Great work on the project!",
			Recommendation: true,
		},
	}
	require.NoError(t, e.reviewRepo.Create(ctx, review))

	approvedAt := time.Now().UTC()
	review.Status = entity.StatusApproved
	review.Metadata.ApprovedAt = &approvedAt
	if mutate != nil {
		mutate(review)
	}
	require.NoError(t, e.reviewRepo.Update(ctx, review))

	return review
}
