package handler

import (
	"github.com/labstack/echo/v4"

	"kudos/internal/usecase"
	"kudos/pkg/response"
	"kudos/pkg/utils"
)

type AdminHandler struct {
	moderationUseCase *usecase.ModerationUseCase
}

func NewAdminHandler(moderationUseCase *usecase.ModerationUseCase) *AdminHandler {
	return &AdminHandler{
		moderationUseCase: moderationUseCase,
	}
}

type moderateReviewRequest struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected published"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ReviewedBy string `json:"reviewedBy,omitempty" validate:"omitempty,max=100"`
}

func (h *AdminHandler) ModerateReview(c echo.Context) error {
	reviewID := c.Param("reviewId")

	var req moderateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	moderatedBy := req.ReviewedBy
	if moderatedBy == "" {
		moderatedBy, _ = c.Get("uid").(string)
	}

	review, err := h.moderationUseCase.Moderate(c.Request().Context(), usecase.ModerateInput{
		ReviewID:    reviewID,
		Action:      req.Status,
		Notes:       req.Notes,
		ModeratedBy: moderatedBy,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

func (h *AdminHandler) ListReviews(c echo.Context) error {
	status := c.QueryParam("status")
	pagination := utils.GetPaginationParams(c)

	reviews, total, err := h.moderationUseCase.ListByStatus(c.Request().Context(), status, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) GetReview(c echo.Context) error {
	review, err := h.moderationUseCase.GetByID(c.Request().Context(), c.Param("reviewId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.moderationUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
