package mailer

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"kudos/internal/domain/entity"
)

func TestVerificationBodyCarriesLink(t *testing.T) {
	verifyURL := "http://localhost:8080/verify-review?reviewId=abcdef123456&token=tok"

	title, body, plain := verificationBody("Jane Doe", verifyURL)

	assert.Equal(t, "Confirm Your Testimonial", title)
	assert.Contains(t, body, verifyURL)
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, plain, verifyURL, "the plain text fallback works without HTML")
}

func TestBodiesEscapeUserContent(t *testing.T) {
	_, body, _ := verificationBody(`<script>alert("x")</script>`, "http://example.com")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")

	_, body, _ = rejectionBody("Jane", `<img src=x onerror=alert(1)>`)
	assert.NotContains(t, body, "<img")
}

func TestRejectionBodyNotes(t *testing.T) {
	_, body, plain := rejectionBody("Jane", "could not confirm the collaboration")
	assert.Contains(t, body, "could not confirm the collaboration")
	assert.Contains(t, plain, "could not confirm the collaboration")

	// No notes, no empty quote box
	_, body, _ = rejectionBody("Jane", "   ")
	assert.NotContains(t, body, "quote-box")
}

func TestAdminAlertTruncatesLongTestimonials(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}

	review := &entity.ReviewRecord{
		ID: "abcdef123456",
		Reviewer: entity.Reviewer{
			Name:         "Jane Doe",
			Relationship: entity.RelationshipColleague,
		},
		Content: entity.ReviewContent{
			Rating:      5,
			Testimonial: string(long),
		},
	}

	_, body, plain := adminAlertBody(review)
	assert.Contains(t, body, "abcdef123456")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, plain, "...")
	assert.NotContains(t, plain, string(long), "the excerpt stays short")
}

func TestAdminAlertExcerptKeepsRunesWhole(t *testing.T) {
	review := &entity.ReviewRecord{
		ID: "abcdef123456",
		Reviewer: entity.Reviewer{
			Name:         "Jane Doe",
			Relationship: entity.RelationshipColleague,
		},
		Content: entity.ReviewContent{
			Rating:      5,
			Testimonial: strings.Repeat("é", 300),
		},
	}

	_, body, plain := adminAlertBody(review)
	assert.True(t, utf8.ValidString(body))
	assert.Contains(t, plain, strings.Repeat("é", 280)+"...", "the cut falls on a rune boundary")
	assert.NotContains(t, plain, strings.Repeat("é", 281))
}

func TestAdminAlertShowsVerificationStamp(t *testing.T) {
	verifiedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	review := &entity.ReviewRecord{
		ID: "abcdef123456",
		Reviewer: entity.Reviewer{
			Name:         "Jane Doe",
			Relationship: entity.RelationshipColleague,
		},
		Content: entity.ReviewContent{
			Rating:      5,
			Testimonial: "Great work!",
		},
		Metadata: entity.ReviewMetadata{
			VerifiedAt: &verifiedAt,
		},
	}

	_, body, _ := adminAlertBody(review)
	assert.Contains(t, body, "2026-01-02T03:04:05Z", "the alert carries the record's stamp, not the send time")

	review.Metadata.VerifiedAt = nil
	_, body, _ = adminAlertBody(review)
	assert.Contains(t, body, "Verified:</strong> -")
}

func TestLayoutWrapsContent(t *testing.T) {
	out := renderLayout("Kudos Reviews", "A Title", "<p>inner</p>")

	assert.Contains(t, out, "Kudos Reviews")
	assert.Contains(t, out, "A Title")
	assert.Contains(t, out, "<p>inner</p>")
	assert.Contains(t, out, "safely ignore it")
}
