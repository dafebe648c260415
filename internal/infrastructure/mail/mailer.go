// Package mail delivers transactional email over SMTP.
package mail

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Config captures the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends OTP and booking-confirmation emails through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendOTP delivers a one-time code. The stated validity matches the stored
// key's actual TTL.
func (m *Mailer) SendOTP(email, code string, validity time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your OTP Code")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your OTP code is <strong>%s</strong>. It will expire in %d minutes.</p>",
		code, int(validity.Minutes()),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// SendConfirmation delivers the post-booking confirmation.
func (m *Mailer) SendConfirmation(email, patientName string, startTime time.Time, mode string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Appointment Confirmed")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s, your %s appointment on <strong>%s</strong> is confirmed.</p>",
		patientName, mode, startTime.Format("Mon, 2 Jan 2006 at 15:04 MST"),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}
