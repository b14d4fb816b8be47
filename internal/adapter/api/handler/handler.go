package handler

import (
	"kudos/internal/usecase"
)

var (
	reviewHandler *ReviewHandler
	publicHandler *PublicHandler
	adminHandler  *AdminHandler
)

func Setup(
	submissionUseCase *usecase.SubmissionUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	moderationUseCase *usecase.ModerationUseCase,
	publicReviewUseCase *usecase.PublicReviewUseCase,
) {
	reviewHandler = NewReviewHandler(submissionUseCase, verificationUseCase)
	publicHandler = NewPublicHandler(publicReviewUseCase)
	adminHandler = NewAdminHandler(moderationUseCase)
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetPublicHandler() *PublicHandler {
	return publicHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}
