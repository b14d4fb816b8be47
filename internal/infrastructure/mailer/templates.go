package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"kudos/internal/domain/entity"
)

// HTML wrapper shared by every outbound email
func renderLayout(brand, title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F5F5F4; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1C1917; padding: 28px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 36px 30px; color: #292524; line-height: 1.6; }
			.content h2 { color: #1C1917; margin-top: 0; }
			.footer { background-color: #F5F5F4; padding: 18px; text-align: center; font-size: 12px; color: #78716C; border-top: 1px solid #E7E5E4; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2563EB; color: #FFFFFF; text-decoration: none; border-radius: 6px; font-weight: bold; margin-top: 16px; }
			.quote-box { background: #FAFAF9; padding: 16px; border-radius: 6px; border-left: 4px solid #2563EB; margin: 20px 0; font-style: italic; }
			.meta { font-size: 13px; color: #57534E; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This message was sent because a testimonial was submitted with your email address.<br>
				If that wasn't you, you can safely ignore it.
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(brand), html.EscapeString(title), bodyContent)
}

// Triggers

func verificationBody(name, verifyURL string) (title, body, plain string) {
	title = "Confirm Your Testimonial"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for writing a testimonial! Before it reaches the moderation queue, please confirm that this email address is yours.</p>
		<p style="text-align:center;"><a class="btn" href="%s">Verify My Email</a></p>
		<p class="meta">The link expires in 24 hours. If the button does not work, copy this address into your browser:<br>%s</p>
	`, html.EscapeString(name), verifyURL, verifyURL)
	plain = fmt.Sprintf("Hi %s,\n\nThanks for writing a testimonial! Please confirm your email address by opening this link:\n\n%s\n\nThe link expires in 24 hours.", name, verifyURL)
	return title, body, plain
}

func approvalBody(name, displayURL string) (title, body, plain string) {
	title = "Your Testimonial Is Live"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Good news! Your testimonial has been approved and is now published.</p>
		<p style="text-align:center;"><a class="btn" href="%s">See It Live</a></p>
		<p>Thank you for taking the time to share your experience.</p>
	`, html.EscapeString(name), displayURL)
	plain = fmt.Sprintf("Hi %s,\n\nYour testimonial has been approved and is now published:\n\n%s\n\nThank you for taking the time to share your experience.", name, displayURL)
	return title, body, plain
}

func rejectionBody(name, notes string) (title, body, plain string) {
	title = "About Your Testimonial"
	reason := ""
	reasonPlain := ""
	if strings.TrimSpace(notes) != "" {
		reason = fmt.Sprintf(`<div class="quote-box">%s</div>`, html.EscapeString(notes))
		reasonPlain = "\n\nModerator note: " + notes
	}
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for submitting a testimonial. After review it was not published this time.</p>
		%s
		<p>You are welcome to submit a revised version whenever you like.</p>
	`, html.EscapeString(name), reason)
	plain = fmt.Sprintf("Hi %s,\n\nThank you for submitting a testimonial. After review it was not published this time.%s\n\nYou are welcome to submit a revised version whenever you like.", name, reasonPlain)
	return title, body, plain
}

func adminAlertBody(review *entity.ReviewRecord) (title, body, plain string) {
	title = "New Testimonial Awaiting Moderation"
	excerpt := review.Content.Testimonial
	// Truncate on runes so a multi-byte character never gets cut in half
	if runes := []rune(excerpt); len(runes) > 280 {
		excerpt = string(runes[:280]) + "..."
	}

	org := review.Reviewer.Organization
	if org == "" {
		org = "-"
	}

	verified := "-"
	if review.Metadata.VerifiedAt != nil {
		verified = review.Metadata.VerifiedAt.UTC().Format(time.RFC3339)
	}

	body = fmt.Sprintf(`
		<p>A reviewer just verified their email. The testimonial is ready for moderation.</p>
		<div class="quote-box">%s</div>
		<p class="meta">
			<strong>From:</strong> %s (%s)<br>
			<strong>Organization:</strong> %s<br>
			<strong>Rating:</strong> %d/5<br>
			<strong>Review ID:</strong> %s<br>
			<strong>Verified:</strong> %s
		</p>
	`,
		html.EscapeString(excerpt),
		html.EscapeString(review.Reviewer.Name),
		html.EscapeString(review.Reviewer.Relationship),
		html.EscapeString(org),
		review.Content.Rating,
		review.ID,
		verified,
	)
	plain = fmt.Sprintf("A reviewer just verified their email.\n\nFrom: %s (%s)\nOrganization: %s\nRating: %d/5\nReview ID: %s\n\n%s",
		review.Reviewer.Name, review.Reviewer.Relationship, org, review.Content.Rating, review.ID, excerpt)
	return title, body, plain
}
