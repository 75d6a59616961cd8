package mail

import (
	"fmt"
	"net/smtp"

	"github.com/gofiber/fiber/v2/log"

	"github.com/prismify-app/prismify/internal/pkg/env"
)

// Sender delivers transactional mail. The payment pipeline treats delivery
// failures as non-fatal.
type Sender interface {
	SendOrderConfirmation(to, orderNo, productName string, credits int64) error
}

// SMTPSender implements Sender over a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender builds a sender from SMTP_* environment variables. An empty
// host disables delivery; sends become logged no-ops.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		host:     env.GetEnv("SMTP_HOST", ""),
		port:     env.GetEnv("SMTP_PORT", "587"),
		username: env.GetEnv("SMTP_USERNAME", ""),
		password: env.GetEnv("SMTP_PASSWORD", ""),
		from:     env.GetEnv("SMTP_FROM", "no-reply@prismify.app"),
	}
}

// SendOrderConfirmation mails a purchase receipt.
func (s *SMTPSender) SendOrderConfirmation(to, orderNo, productName string, credits int64) error {
	if s.host == "" {
		log.Debugf("[Mail] SMTP_HOST not set, skipping confirmation for order %s", orderNo)
		return nil
	}

	subject := "Your Prismify order is confirmed"
	body := fmt.Sprintf(
		"Thank you for your purchase!\r\n\r\n"+
			"Order number: %s\r\n"+
			"Product: %s\r\n"+
			"Credits added: %d\r\n\r\n"+
			"The credits are already available in your account.\r\n",
		orderNo, productName, credits,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body)

	addr := s.host + ":" + s.port
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation for order %s: %w", orderNo, err)
	}
	return nil
}
