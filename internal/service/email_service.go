package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/format"
	"github.com/agromate/agromate-api/internal/models"
)

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// OrderStatusEmailInput describes the order state being announced.
type OrderStatusEmailInput struct {
	OrderNo    string
	Status     string
	FarmerName string
	Amount     models.Money
	Currency   string
	ChangedAt  time.Time
}

// SendOrderStatusEmail mails the buyer about an order status change.
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput) error {
	subject, body := buildOrderStatusContent(input)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail sends an arbitrary plain-text mail (SMTP config checks).
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Agromate SMTP test"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "This is an SMTP test mail from Agromate. Your configuration works."
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func buildOrderStatusContent(input OrderStatusEmailInput) (string, string) {
	subject, body := orderStatusSubjectBody(input)
	if !input.ChangedAt.IsZero() {
		body += fmt.Sprintf("\n\nStatus changed on %s.", format.DateTime(input.ChangedAt))
	}
	return subject, body
}

func orderStatusSubjectBody(input OrderStatusEmailInput) (string, string) {
	total := format.Currency(input.Amount.Decimal)
	switch input.Status {
	case constants.OrderStatusPending:
		return fmt.Sprintf("Order %s placed", input.OrderNo),
			fmt.Sprintf("Your order %s from %s was placed and is waiting for the farmer to confirm.\n\nTotal: %s", input.OrderNo, input.FarmerName, total)
	case constants.OrderStatusConfirmed:
		return fmt.Sprintf("Order %s confirmed", input.OrderNo),
			fmt.Sprintf("Good news! %s confirmed your order %s and will start preparing it.\n\nTotal: %s", input.FarmerName, input.OrderNo, total)
	case constants.OrderStatusPreparing:
		return fmt.Sprintf("Order %s is being prepared", input.OrderNo),
			fmt.Sprintf("%s is preparing your order %s for delivery.", input.FarmerName, input.OrderNo)
	case constants.OrderStatusDelivering:
		return fmt.Sprintf("Order %s is on its way", input.OrderNo),
			fmt.Sprintf("Your order %s left the farm and is out for delivery.", input.OrderNo)
	case constants.OrderStatusDelivered:
		return fmt.Sprintf("Order %s delivered", input.OrderNo),
			fmt.Sprintf("Your order %s was delivered. Enjoy your fresh produce!", input.OrderNo)
	case constants.OrderStatusCancelled:
		return fmt.Sprintf("Order %s cancelled", input.OrderNo),
			fmt.Sprintf("Your order %s was cancelled. Reserved stock has been released.", input.OrderNo)
	default:
		return fmt.Sprintf("Order %s update", input.OrderNo),
			fmt.Sprintf("Your order %s is now %s.", input.OrderNo, input.Status)
	}
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func buildFromAddress(from, fromName string) string {
	name := strings.TrimSpace(fromName)
	if name == "" {
		return from
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), from)
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
