package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrdesk/internal/domain"
	"hrdesk/internal/email"
	"hrdesk/internal/repository"
)

var (
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmailSendFailure  = errors.New("email send failed")
	ErrRateLimited       = errors.New("rate limited")
	ErrEmptyMessage      = errors.New("empty message")
	// ErrMailMisconfigured indica que la dirección configurada del servicio no es usable.
	ErrMailMisconfigured = errors.New("mail misconfigured")
)

// MailService arma los correos de la aplicación sobre las plantillas configuradas.
type MailService struct {
	logger     *zap.Logger
	sender     email.Sender
	limiter    MailRateLimiter
	adminEmail string
	mailLog    repository.MailLogRepository
	now        func() time.Time
}

// NewMailService crea el servicio; adminEmail recibe los avisos administrativos.
// mailLog es opcional: con nil los envíos no se registran.
func NewMailService(logger *zap.Logger, sender email.Sender, limiter MailRateLimiter, adminEmail string, mailLog repository.MailLogRepository) *MailService {
	if limiter == nil {
		limiter = NewMemoryMailRateLimiter(10*time.Minute, 3)
	}
	return &MailService{
		logger:     logger,
		sender:     sender,
		limiter:    limiter,
		adminEmail: adminEmail,
		mailLog:    mailLog,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SendTestEmail envía la plantilla de usuario a una dirección arbitraria.
func (s *MailService) SendTestEmail(ctx context.Context, to string) error {
	addr, err := parseAddress(to)
	if err != nil {
		return err
	}
	if !s.limiter.Allow(ctx, addr) {
		return ErrRateLimited
	}
	data := email.MailData{
		Recipient: addr,
		Subject:   "Test Email",
		Message:   "Test Email Trial",
		SentAt:    s.now(),
	}
	err = s.sender.SendUserEmail(ctx, addr, data)
	s.record(ctx, domain.MailTemplateUser, data, err)
	if err != nil {
		s.logger.Error("send test email failed", zap.String("to", addr), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmailSendFailure, err)
	}
	s.logger.Info("test email sent", zap.String("to", addr))
	return nil
}

// NotifyAdmin envía la plantilla de administración a la cuenta remitente.
func (s *MailService) NotifyAdmin(ctx context.Context, subject, message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if strings.TrimSpace(subject) == "" {
		subject = "HR Desk notification"
	}
	addr, err := parseAddress(s.adminEmail)
	if err != nil {
		return fmt.Errorf("%w: admin address %q", ErrMailMisconfigured, s.adminEmail)
	}
	data := email.MailData{
		Recipient: addr,
		Subject:   subject,
		Message:   message,
		SentAt:    s.now(),
	}
	err = s.sender.SendAdminEmail(ctx, addr, data)
	s.record(ctx, domain.MailTemplateAdmin, data, err)
	if err != nil {
		s.logger.Error("send admin email failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmailSendFailure, err)
	}
	return nil
}

// RecentMail devuelve los últimos envíos registrados, del más nuevo al más viejo.
func (s *MailService) RecentMail(ctx context.Context, limit int) ([]domain.MailRecord, error) {
	if s.mailLog == nil {
		return []domain.MailRecord{}, nil
	}
	return s.mailLog.ListRecent(ctx, limit)
}

func (s *MailService) record(ctx context.Context, template string, data email.MailData, sendErr error) {
	if s.mailLog == nil {
		return
	}
	rec := domain.MailRecord{
		ID:        uuid.NewString(),
		To:        data.Recipient,
		Template:  template,
		Subject:   data.Subject,
		Status:    domain.MailStatusSent,
		CreatedAt: data.SentAt,
	}
	if sendErr != nil {
		rec.Status = domain.MailStatusFailed
		rec.Error = sendErr.Error()
	}
	// un fallo del registro no invalida un envío ya hecho
	if err := s.mailLog.Create(ctx, rec); err != nil {
		s.logger.Warn("mail log write failed", zap.String("to", rec.To), zap.Error(err))
	}
}

func parseAddress(raw string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return parsed.Address, nil
}
