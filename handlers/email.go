package handlers

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// sendMail is swappable for tests.
var sendMail = smtp.SendMail

func (d Deps) sendEmail(ctx context.Context, params map[string]any) (string, error) {
	if d.Email.Address == "" || d.Email.Password == "" {
		return "", fmt.Errorf("email credentials not configured")
	}

	to := stringParam(params, "to")
	if to == "" || !strings.Contains(to, "@") {
		return "", fmt.Errorf("invalid recipient address: %q", to)
	}
	subject := stringParam(params, "subject")
	body := stringParam(params, "body")

	msg := strings.Join([]string{
		"From: " + d.Email.Address,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", d.Email.Host, d.Email.Port)
	auth := smtp.PlainAuth("", d.Email.Address, d.Email.Password, d.Email.Host)
	if err := sendMail(addr, auth, d.Email.Address, []string{to}, []byte(msg)); err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	d.logActivity("send_email", map[string]any{"to": to, "subject": subject})
	return fmt.Sprintf("Email sent to %s", to), nil
}
