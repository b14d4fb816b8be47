package entity

import (
	"time"
)

// ReviewStatus tags where a review sits in its lifecycle. Records only move
// forward: pending -> verified -> approved, with rejected/archived terminal.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusVerified ReviewStatus = "verified"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
	StatusArchived ReviewStatus = "archived"
)

// AllStatuses lists every status directory the store may hold.
func AllStatuses() []ReviewStatus {
	return []ReviewStatus{StatusPending, StatusVerified, StatusApproved, StatusRejected, StatusArchived}
}

func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Terminal statuses accept no further moderation.
func (s ReviewStatus) Terminal() bool {
	return s == StatusRejected || s == StatusArchived
}

// Relationship values accepted from submitters
const (
	RelationshipProfessor    = "professor"
	RelationshipColleague    = "colleague"
	RelationshipSupervisor   = "supervisor"
	RelationshipCollaborator = "collaborator"
	RelationshipClient       = "client"
)

// Reviewer identifies who wrote the testimonial. Email is PII and never
// leaves the admin surface.
type Reviewer struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Relationship string `json:"relationship"`
	LinkedinURL  string `json:"linkedinUrl,omitempty"`
	Verified     bool   `json:"verified"`
}

type WorkPeriod struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type ReviewContent struct {
	Rating             int         `json:"rating"` // 1-5
	Testimonial        string      `json:"testimonial"`
	ProjectAssociation string      `json:"projectAssociation,omitempty"`
	Skills             []string    `json:"skills,omitempty"`
	Recommendation     bool        `json:"recommendation"`
	WorkPeriod         *WorkPeriod `json:"workPeriod,omitempty"`
}

// ReviewMetadata is write-once at submission except the two transition
// stamps, which are set exactly once by verification and moderation.
type ReviewMetadata struct {
	SubmittedAt time.Time  `json:"submittedAt"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	Source      string     `json:"source"`
	IPAddress   string     `json:"ipAddress"`
	UserAgent   string     `json:"userAgent"`
	Language    string     `json:"language"`
	Timezone    string     `json:"timezone"`
}

// ReviewAdmin is mutated only by the moderation pipeline.
type ReviewAdmin struct {
	Notes          string     `json:"notes,omitempty"`
	Featured       bool       `json:"featured"`
	DisplayOrder   *int       `json:"displayOrder,omitempty"`
	ModeratedBy    string     `json:"moderatedBy,omitempty"`
	ModeratedAt    *time.Time `json:"moderatedAt,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	InternalRating *int       `json:"internalRating,omitempty"`
}

// ReviewRecord is one testimonial submission and its full lifecycle state
type ReviewRecord struct {
	ID       string         `json:"id"`
	Status   ReviewStatus   `json:"status"`
	Reviewer Reviewer       `json:"reviewer"`
	Content  ReviewContent  `json:"content"`
	Metadata ReviewMetadata `json:"metadata"`
	Admin    ReviewAdmin    `json:"admin"`
}

// PublicReview is the sanitized projection served to anonymous readers:
// no email, no admin notes, nothing beyond what the public page renders.
type PublicReview struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Title              string      `json:"title,omitempty"`
	Organization       string      `json:"organization,omitempty"`
	Relationship       string      `json:"relationship"`
	LinkedinURL        string      `json:"linkedinUrl,omitempty"`
	Verified           bool        `json:"verified"`
	Rating             int         `json:"rating"`
	Testimonial        string      `json:"testimonial"`
	ProjectAssociation string      `json:"projectAssociation,omitempty"`
	Skills             []string    `json:"skills,omitempty"`
	Recommendation     bool        `json:"recommendation"`
	WorkPeriod         *WorkPeriod `json:"workPeriod,omitempty"`
	Featured           bool        `json:"featured"`
	ApprovedAt         *time.Time  `json:"approvedAt,omitempty"`
}

// Sanitize strips reviewer PII and internal moderation state for public display.
func (r *ReviewRecord) Sanitize() *PublicReview {
	return &PublicReview{
		ID:                 r.ID,
		Name:               r.Reviewer.Name,
		Title:              r.Reviewer.Title,
		Organization:       r.Reviewer.Organization,
		Relationship:       r.Reviewer.Relationship,
		LinkedinURL:        r.Reviewer.LinkedinURL,
		Verified:           r.Reviewer.Verified,
		Rating:             r.Content.Rating,
		Testimonial:        r.Content.Testimonial,
		ProjectAssociation: r.Content.ProjectAssociation,
		Skills:             r.Content.Skills,
		Recommendation:     r.Content.Recommendation,
		WorkPeriod:         r.Content.WorkPeriod,
		Featured:           r.Admin.Featured,
		ApprovedAt:         r.Metadata.ApprovedAt,
	}
}
