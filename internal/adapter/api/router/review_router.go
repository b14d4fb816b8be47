package router

import (
	"kudos/internal/adapter/api/handler"
	"kudos/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupReviewRouter(e *echo.Echo, verifyLimiter middleware.Limiter) {
	reviewHandler := handler.GetReviewHandler()
	publicHandler := handler.GetPublicHandler()

	// Public routes, no authentication. Submission limits live in the
	// pipeline itself; verification gets a per-IP guard against token
	// guessing.
	reviews := e.Group("/v1/reviews")
	reviews.POST("", reviewHandler.SubmitReview)
	reviews.POST("/:reviewId/verify", reviewHandler.VerifyReview, middleware.RateLimit(verifyLimiter, "verify"))
	reviews.GET("/display", publicHandler.DisplayReviews)
}
