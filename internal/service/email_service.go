package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/inkpost/internal/config"
)

// Mailer 邮件投递接口，失败时返回错误，不做静默处理
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

// EmailService SMTP 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// DefaultFrom 默认发件人
func (s *EmailService) DefaultFrom() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return buildFromAddress(s.cfg.From, s.cfg.FromName)
}

// Send 发送纯文本邮件，from 为空时使用配置的发件人
func (s *EmailService) Send(subject, body, from string, to []string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if len(to) == 0 {
		return ErrInvalidEmail
	}
	for _, addr := range to {
		if _, err := mail.ParseAddress(addr); err != nil {
			return ErrInvalidEmail
		}
	}
	if strings.TrimSpace(from) == "" {
		from = s.DefaultFrom()
	}

	msg := buildEmailMessage(from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	switch {
	case s.cfg.UseSSL:
		err = sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, to, msg)
	case s.cfg.UseTLS:
		err = sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, to, msg)
	default:
		err = sendMailPlain(addr, auth, s.cfg.From, to, msg)
	}
	return normalizeEmailSendError(err)
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from string, to []string, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
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
	return authAndSend(client, auth, from, to, msg)
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
	return authAndSend(client, auth, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()
	return authAndSend(client, auth, from, to, msg)
}

func authAndSend(client *smtp.Client, auth smtp.Auth, from string, to []string, msg []byte) error {
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
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

// normalizeEmailSendError 将 SMTP 错误统一归入投递失败
func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
}

func isEmailRecipientRejected(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	for _, keyword := range []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	} {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "user", "mailbox", "address", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
