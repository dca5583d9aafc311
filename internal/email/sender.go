package email

import (
	"context"
	"errors"
	"time"
)

// MailData es el contenido que reciben las plantillas HTML.
type MailData struct {
	Recipient string
	Subject   string
	Message   string
	Link      string
	SentAt    time.Time
}

// Sender define la interfaz para envío de correos con plantilla.
type Sender interface {
	SendUserEmail(ctx context.Context, toEmail string, data MailData) error
	SendAdminEmail(ctx context.Context, toEmail string, data MailData) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendUserEmail(_ context.Context, _ string, _ MailData) error {
	return s.err()
}

func (s *disabledSender) SendAdminEmail(_ context.Context, _ string, _ MailData) error {
	return s.err()
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
