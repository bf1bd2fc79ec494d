package notify

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings for approval emails.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	From     string
	Username string
	Password string
	To       []string // approver recipients
}

// MailConfigFromEnv reads EMAIL_* variables. With EMAIL_ENABLED unset or
// false the mailer degrades to a no-op.
func MailConfigFromEnv() MailConfig {
	port, err := strconv.Atoi(os.Getenv("EMAIL_SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	var to []string
	for _, addr := range strings.Split(os.Getenv("EMAIL_TO"), ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			to = append(to, trimmed)
		}
	}

	host := os.Getenv("EMAIL_SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}

	return MailConfig{
		Enabled:  strings.EqualFold(os.Getenv("EMAIL_ENABLED"), "true"),
		Host:     host,
		Port:     port,
		From:     os.Getenv("EMAIL_FROM"),
		Username: os.Getenv("EMAIL_USERNAME"),
		Password: os.Getenv("EMAIL_PASSWORD"),
		To:       to,
	}
}

// Mailer sends HTML approval emails over SMTP.
type Mailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Notify(subject, body string) error {
	if !m.cfg.Enabled || len(m.cfg.To) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
