// Package mail delivers password-reset email through Resend. When no API key
// is configured the reset link is surfaced through the operational log so the
// flow still works in development.
package mail

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type Mailer struct {
	resend    *resend.Client
	fromEmail string
	fromName  string
	lg        *zap.SugaredLogger
}

func New(lg *zap.SugaredLogger) *Mailer {
	m := &Mailer{
		fromEmail: os.Getenv("MAIL_FROM"),
		fromName:  os.Getenv("MAIL_FROM_NAME"),
		lg:        lg,
	}
	if m.fromEmail == "" {
		m.fromEmail = "noreply@talktracker.local"
	}
	if m.fromName == "" {
		m.fromName = "Talk Tracker"
	}
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		m.resend = resend.NewClient(key)
	}
	return m
}

// SendPasswordReset emails the reset link to addr. Errors are returned for
// logging only; callers must not surface them to the requester.
func (m *Mailer) SendPasswordReset(addr, username, resetURL string) error {
	if m.resend == nil {
		m.lg.Infow("mail transport not configured, logging reset link",
			"email", addr, "reset_url", resetURL)
		return nil
	}
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>A password reset was requested for your Talk Tracker account.</p>`+
			`<p><a href="%s">Reset your password</a></p>`+
			`<p>The link expires in one hour. If you did not ask for this, ignore this email.</p>`,
		username, resetURL)
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail),
		To:      []string{addr},
		Subject: "Reset your Talk Tracker password",
		Html:    html,
	}
	if _, err := m.resend.Emails.Send(req); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
