package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"kudos/internal/domain/entity"
	"kudos/pkg/config"
	"kudos/pkg/logger"
)

// SendgridMailer sends transactional email through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	cfg    *config.Config
}

func NewSendgridMailer(cfg *config.Config) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		cfg:    cfg,
	}
}

func (m *SendgridMailer) SendVerification(ctx context.Context, toEmail, toName, reviewID, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-review?reviewId=%s&token=%s",
		m.cfg.SiteBaseURL, url.QueryEscape(reviewID), url.QueryEscape(token))

	title, body, plain := verificationBody(toName, verifyURL)
	return m.send(ctx, toEmail, toName, "Please confirm your testimonial", title, body, plain)
}

func (m *SendgridMailer) SendApproval(ctx context.Context, toEmail, toName string) error {
	title, body, plain := approvalBody(toName, m.cfg.SiteBaseURL+"/testimonials")
	return m.send(ctx, toEmail, toName, "Your testimonial is live", title, body, plain)
}

func (m *SendgridMailer) SendRejection(ctx context.Context, toEmail, toName, notes string) error {
	title, body, plain := rejectionBody(toName, notes)
	return m.send(ctx, toEmail, toName, "About your testimonial", title, body, plain)
}

func (m *SendgridMailer) SendAdminAlert(ctx context.Context, review *entity.ReviewRecord) error {
	if m.cfg.AdminEmail == "" {
		logger.Debug("No admin email configured, skipping moderation alert for review %s", review.ID)
		return nil
	}

	title, body, plain := adminAlertBody(review)
	subject := fmt.Sprintf("New testimonial from %s awaiting moderation", review.Reviewer.Name)
	return m.send(ctx, m.cfg.AdminEmail, "", subject, title, body, plain)
}

func (m *SendgridMailer) send(ctx context.Context, toEmail, toName, subject, title, body, plain string) error {
	from := mail.NewEmail(m.cfg.EmailSenderName, m.cfg.EmailSender)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, subject, to, plain, renderLayout(m.cfg.EmailSenderName, title, body))
	if m.cfg.EmailReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", m.cfg.EmailReplyTo))
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message with status %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Debug("Email %q sent to %s (status %d)", subject, toEmail, resp.StatusCode)
	return nil
}
