package router

import (
	"kudos/internal/adapter/api/handler"
	"kudos/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin/reviews")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", adminHandler.ListReviews)
	admin.GET("/stats", adminHandler.GetStats)
	admin.GET("/:reviewId", adminHandler.GetReview)
	admin.PATCH("/:reviewId", adminHandler.ModerateReview)
}
