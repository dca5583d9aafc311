package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"hrdesk/internal/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender envía correos HTML vía SMTP usando las plantillas configuradas.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool

	userTmpl  *template.Template
	adminTmpl *template.Template

	sendMail sendMailFunc
}

// NewSMTPSender parsea las plantillas al construir; una plantilla inválida es
// un error de arranque.
func NewSMTPSender(cfg config.RuntimeConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(cfg.SenderEmail) == "" {
		return nil, fmt.Errorf("sender email is required")
	}
	userTmpl, err := template.ParseFiles(cfg.EmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	adminTmpl, err := template.ParseFiles(cfg.AdminEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse admin email template: %w", err)
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:      cfg.SMTPHost,
		port:      port,
		username:  cfg.SenderEmail,
		password:  cfg.SenderPassword,
		from:      cfg.SenderEmail,
		fromName:  cfg.SMTPFromName,
		useTLS:    cfg.SMTPUseTLS,
		userTmpl:  userTmpl,
		adminTmpl: adminTmpl,
		sendMail:  smtp.SendMail,
	}, nil
}

func (s *SMTPSender) SendUserEmail(ctx context.Context, toEmail string, data MailData) error {
	return s.send(ctx, s.userTmpl, toEmail, data)
}

func (s *SMTPSender) SendAdminEmail(ctx context.Context, toEmail string, data MailData) error {
	return s.send(ctx, s.adminTmpl, toEmail, data)
}

func (s *SMTPSender) send(ctx context.Context, tmpl *template.Template, toEmail string, data MailData) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if data.Recipient == "" {
		data.Recipient = toEmail
	}
	if data.SentAt.IsZero() {
		data.SentAt = time.Now().UTC()
	}

	body, err := render(tmpl, data)
	if err != nil {
		return err
	}
	msg := buildMessage(s.from, s.fromName, toEmail, data.Subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.useTLS {
		return s.sendImplicitTLS(addr, auth, toEmail, []byte(msg))
	}
	return s.sendMail(addr, auth, s.from, []string{toEmail}, []byte(msg))
}

func (s *SMTPSender) sendImplicitTLS(addr string, auth smtp.Auth, toEmail string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: s.host,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func render(tmpl *template.Template, data MailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
