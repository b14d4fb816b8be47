package handler

import (
	"github.com/labstack/echo/v4"

	"kudos/internal/domain/entity"
	"kudos/internal/usecase"
	"kudos/pkg/response"
)

type ReviewHandler struct {
	submissionUseCase   *usecase.SubmissionUseCase
	verificationUseCase *usecase.VerificationUseCase
}

func NewReviewHandler(
	submissionUseCase *usecase.SubmissionUseCase,
	verificationUseCase *usecase.VerificationUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		submissionUseCase:   submissionUseCase,
		verificationUseCase: verificationUseCase,
	}
}

type workPeriodRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end,omitempty"`
}

type submitReviewRequest struct {
	Name               string             `json:"name" validate:"required,min=2,max=100"`
	Email              string             `json:"email" validate:"required,email"`
	Title              string             `json:"title,omitempty" validate:"omitempty,max=100"`
	Organization       string             `json:"organization,omitempty" validate:"omitempty,max=100"`
	Relationship       string             `json:"relationship" validate:"required,oneof=professor colleague supervisor collaborator client"`
	LinkedinURL        string             `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Rating             int                `json:"rating" validate:"required,min=1,max=5"`
	Testimonial        string             `json:"testimonial" validate:"required,min=10,max=2000"`
	ProjectAssociation string             `json:"projectAssociation,omitempty" validate:"omitempty,max=200"`
	Skills             []string           `json:"skills,omitempty" validate:"omitempty,max=10,dive,max=50"`
	Recommendation     *bool              `json:"recommendation" validate:"required"`
	WorkPeriod         *workPeriodRequest `json:"workPeriod,omitempty"`
	Timezone           string             `json:"timezone,omitempty"`
	Source             string             `json:"source,omitempty"`

	// Honeypot field, hidden on the form
	Website string `json:"website,omitempty"`
}

func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	var workPeriod *entity.WorkPeriod
	if req.WorkPeriod != nil {
		workPeriod = &entity.WorkPeriod{
			Start: req.WorkPeriod.Start,
			End:   req.WorkPeriod.End,
		}
	}

	recommendation := false
	if req.Recommendation != nil {
		recommendation = *req.Recommendation
	}

	source := req.Source
	if source == "" {
		source = "web"
	}

	result, err := h.submissionUseCase.Submit(c.Request().Context(), usecase.SubmitReviewInput{
		Name:               req.Name,
		Email:              req.Email,
		Title:              req.Title,
		Organization:       req.Organization,
		Relationship:       req.Relationship,
		LinkedinURL:        req.LinkedinURL,
		Rating:             req.Rating,
		Testimonial:        req.Testimonial,
		ProjectAssociation: req.ProjectAssociation,
		Skills:             req.Skills,
		Recommendation:     recommendation,
		WorkPeriod:         workPeriod,
		Website:            req.Website,
		IPAddress:          c.RealIP(),
		UserAgent:          c.Request().UserAgent(),
		Language:           c.Request().Header.Get("Accept-Language"),
		Timezone:           req.Timezone,
		Source:             source,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"reviewId":         result.ReviewID,
		"verificationSent": result.VerificationSent,
		"message":          "Thank you! Please check your email to verify your submission.",
	})
}

type verifyReviewRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *ReviewHandler) VerifyReview(c echo.Context) error {
	reviewID := c.Param("reviewId")

	var req verifyReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.verificationUseCase.Redeem(c.Request().Context(), reviewID, req.Token)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
