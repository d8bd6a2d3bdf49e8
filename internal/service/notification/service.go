package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medicarehq/booking-api/internal/model"
)

// Service delivers appointment notifications to patients. Failures are the
// caller's to log; they must never fail the triggering request.
type Service interface {
	AppointmentConfirmed(ctx context.Context, apt *model.AppointmentWithDetails) error
	AppointmentCancelled(ctx context.Context, apt *model.AppointmentWithDetails) error
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService sends notifications through the configured SMTP relay.
func NewEmailService(cfg SMTPConfig) Service {
	return &emailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *emailService) AppointmentConfirmed(ctx context.Context, apt *model.AppointmentWithDetails) error {
	subject := "Your appointment is confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s appointment with Dr. %s %s (%s) on %s at %s is confirmed.\n",
		apt.Patient.FirstName, apt.Type, apt.Doctor.User.FirstName,
		apt.Doctor.User.LastName, apt.Doctor.Specialization, apt.Date, apt.Time,
	)
	return s.send(apt.Patient.Email, subject, body)
}

func (s *emailService) AppointmentCancelled(ctx context.Context, apt *model.AppointmentWithDetails) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with Dr. %s %s on %s at %s has been cancelled.\n",
		apt.Patient.FirstName, apt.Doctor.User.FirstName,
		apt.Doctor.User.LastName, apt.Date, apt.Time,
	)
	return s.send(apt.Patient.Email, subject, body)
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

type noopService struct{}

// NewNoop returns a notification service that silently drops everything,
// used when SMTP is not configured.
func NewNoop() Service {
	return noopService{}
}

func (noopService) AppointmentConfirmed(context.Context, *model.AppointmentWithDetails) error {
	return nil
}

func (noopService) AppointmentCancelled(context.Context, *model.AppointmentWithDetails) error {
	return nil
}
