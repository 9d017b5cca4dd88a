package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/keighl/postmark"

	"wms-backend/internal/models"
)

// Mailer sends transactional email through Postmark.
type Mailer struct {
	client    *postmark.Client
	sender    string
	publicURL string
}

func NewMailer(serverToken, sender, publicURL string) *Mailer {
	return &Mailer{
		client:    postmark.NewClient(serverToken, ""),
		sender:    sender,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SendStaffInvite tells someone an administrator created a profile for them
// and that signing up with this email activates it.
func (m *Mailer) SendStaffInvite(ctx context.Context, p *models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link := m.publicURL + "/"
	subject := "You have been added to WMS"
	htmlBody := fmt.Sprintf(
		"<strong>Hello %s,</strong><br><br>An administrator registered you as <strong>%s</strong>. "+
			"Create your password by signing up with this email address at <a href=\"%s\">%s</a>.",
		html.EscapeString(p.Name), html.EscapeString(p.Role), link, link,
	)
	textBody := fmt.Sprintf(
		"Hello %s,\n\nAn administrator registered you as %s. Create your password by signing up with this email address at %s.",
		p.Name, p.Role, link,
	)

	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       p.Email,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
		Tag:      "staff-invite",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 Invite sent to %s", p.Email)
	return nil
}
