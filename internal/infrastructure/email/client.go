// Package email provides the email client for delivering coach reports.
package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendCoachReport(toEmail, period, report string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
}

// NewService creates a new email service client, returning the Service interface.
func NewService(apiKey, fromEmail string) (Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}, nil
}

// reportHTML wraps the report in simple markup. Report lines carry
// event-derived strings, so each line is escaped before embedding.
func reportHTML(report string) string {
	var b strings.Builder
	b.WriteString("<div style=\"font-family: sans-serif; max-width: 600px;\">")
	for _, line := range strings.Split(report, "\n") {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	b.WriteString("</div>")
	return b.String()
}

// SendCoachReport delivers a generated coach report as a plain-and-HTML email.
func (c *ResendClient) SendCoachReport(toEmail, period, report string) error {
	subject := fmt.Sprintf("Coach Hep's %s recap", period)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Coach Hep <%s>", c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    reportHTML(report),
		Text:    report,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send coach report via Resend: %w", err)
	}

	return nil
}
