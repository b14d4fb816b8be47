package usecase

import (
	"context"

	"kudos/internal/domain/entity"
	"kudos/internal/infrastructure/ratelimit"
)

type Mailer interface {
	SendVerification(ctx context.Context, toEmail, toName, reviewID, token string) error
	SendApproval(ctx context.Context, toEmail, toName string) error
	SendRejection(ctx context.Context, toEmail, toName, notes string) error
	SendAdminAlert(ctx context.Context, review *entity.ReviewRecord) error
}

type RateLimiter interface {
	Check(key string) ratelimit.Result
}
