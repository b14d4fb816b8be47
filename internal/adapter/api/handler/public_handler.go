package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kudos/internal/usecase"
	"kudos/pkg/response"
)

type PublicHandler struct {
	publicReviewUseCase *usecase.PublicReviewUseCase
}

func NewPublicHandler(publicReviewUseCase *usecase.PublicReviewUseCase) *PublicHandler {
	return &PublicHandler{
		publicReviewUseCase: publicReviewUseCase,
	}
}

func (h *PublicHandler) DisplayReviews(c echo.Context) error {
	query := usecase.DisplayQuery{
		Limit:        queryInt(c, "limit"),
		Offset:       queryInt(c, "offset"),
		SortBy:       c.QueryParam("sortBy"),
		SortOrder:    c.QueryParam("sortOrder"),
		MinRating:    queryInt(c, "minRating"),
		Relationship: c.QueryParam("relationship"),
		Search:       c.QueryParam("search"),
	}

	if featuredStr := c.QueryParam("featured"); featuredStr != "" {
		featured := featuredStr == "true"
		query.Featured = &featured
	}

	result, err := h.publicReviewUseCase.ListPublic(c.Request().Context(), query)
	if err != nil {
		return response.Error(c, err)
	}

	// Weak caching keyed on the page content; the envelope timestamp is
	// excluded so unchanged data keeps the same tag
	payload, err := json.Marshal(result)
	if err != nil {
		return response.Error(c, err)
	}

	sum := sha256.Sum256(payload)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Cache-Control", "public, max-age=60, must-revalidate")

	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return response.Success(c, result)
}

func queryInt(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
