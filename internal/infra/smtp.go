package infra

import (
	"fmt"
	"net/smtp"

	"shalom/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer delivers invoice emails through the configured SMTP relay.
type Mailer struct {
	auth smtp.Auth
	from string
	addr string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		from: cfg.SMTPUser,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendInvoice emails the customer, attaching the invoice PDF when one was
// generated. An empty pdfPath sends a body-only message.
func (m *Mailer) SendInvoice(to, subject, body, pdfPath string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	if pdfPath != "" {
		if _, err := msg.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("adjuntar pdf: %w", err)
		}
	}
	return msg.Send(m.addr, m.auth)
}
