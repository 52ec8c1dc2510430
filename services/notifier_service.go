package services

import (
	"fmt"
	"log"

	"shopguard/config"

	"gopkg.in/gomail.v2"
)

// Notifier is the one-shot outbound notification capability injected
// into the audit verifier. Keeping it an interface means the alerting
// side effect is testable without a real transport.
type Notifier interface {
	NotifyOwner(recipient, subject, message string) error
}

// ConsoleNotifier logs the message instead of sending it. Used in
// development and as the fallback when SMTP is not configured.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (n *ConsoleNotifier) NotifyOwner(recipient, subject, message string) error {
	log.Printf("[NOTIFY] to=%s subject=%q message=%q", recipient, subject, message)
	return nil
}

// MailNotifier delivers loss alerts over SMTP.
type MailNotifier struct {
	host     string
	port     int
	sender   string
	password string
}

func NewMailNotifier() *MailNotifier {
	return &MailNotifier{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		sender:   config.SMTPSender,
		password: config.SMTPPassword,
	}
}

func (n *MailNotifier) NotifyOwner(recipient, subject, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", message)

	dialer := gomail.NewDialer(n.host, n.port, n.sender, n.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}
	return nil
}

// NewNotifier picks the configured channel: SMTP when a host is set,
// console otherwise.
func NewNotifier() Notifier {
	if config.SMTPHost != "" {
		return NewMailNotifier()
	}
	return NewConsoleNotifier()
}
