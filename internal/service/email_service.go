package service

import (
	"context"
	"crypto/tls"
	"errors"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/i18n"

	"github.com/jordan-wright/email"
)

// EmailNotifier 以纯文本邮件通知顾客订单进度
type EmailNotifier struct {
	cfg    config.EmailConfig
	locale string
	send   func(msg *email.Email) error
}

// NewEmailNotifier email.enabled=false 时返回 nil
func NewEmailNotifier(cfg config.EmailConfig, locale string) *EmailNotifier {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(locale) == "" {
		locale = i18n.DefaultLocale
	}
	n := &EmailNotifier{cfg: cfg, locale: locale}
	n.send = n.deliver
	return n
}

func (s *EmailNotifier) Name() string { return "email" }

// Notify 顾客未留邮箱时跳过
func (s *EmailNotifier) Notify(_ context.Context, n OrderNotification) error {
	to := strings.TrimSpace(n.CustomerEmail)
	if to == "" {
		return nil
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return ErrInvalidEmail
	}

	subject, body := buildOrderNotificationContent(n, s.locale)
	msg := email.NewEmail()
	msg.From = s.fromHeader()
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	return classifySMTPError(s.send(msg))
}

// deliver use_ssl 走隐式 TLS，use_tls 走 STARTTLS，否则明文
func (s *EmailNotifier) deliver(msg *email.Email) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	switch {
	case s.cfg.UseSSL:
		return msg.SendWithTLS(addr, auth, tlsCfg)
	case s.cfg.UseTLS:
		return msg.SendWithStartTLS(addr, auth, tlsCfg)
	default:
		return msg.Send(addr, auth)
	}
}

func (s *EmailNotifier) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return (&mail.Address{Name: mime.QEncoding.Encode("UTF-8", name), Address: s.cfg.From}).String()
}

// buildOrderNotificationContent 返回本地化的主题与正文
func buildOrderNotificationContent(n OrderNotification, locale string) (string, string) {
	labelKey := "order.status." + strings.ToLower(strings.TrimSpace(n.Status))
	if n.Event == constants.NotificationEventPaymentReceived {
		labelKey = "order.payment.paid"
	}
	label := i18n.T(locale, labelKey)
	if label == labelKey {
		label = n.Status
	}

	var lines []string
	if msg := strings.TrimSpace(n.Message); msg != "" {
		lines = append(lines, msg)
	}
	if tracking := strings.TrimSpace(n.TrackingNumber); tracking != "" {
		lines = append(lines, i18n.Sprintf(locale, "email.order_status.tracking", tracking))
	}
	greeting := strings.TrimSpace(n.CustomerName)
	if greeting == "" {
		greeting = n.CustomerEmail
	}

	subject := i18n.Sprintf(locale, "email.order_status.subject", n.OrderNo, label)
	body := i18n.Sprintf(locale, "email.order_status.body", greeting, n.OrderNo, label, strings.Join(lines, "\n"), n.Total.String())
	return subject, body
}

// classifySMTPError 收件人被拒（5xx 且与收件人相关）归为 ErrEmailRecipientRejected，不再重试
func classifySMTPError(err error) error {
	if err == nil {
		return nil
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 550, 551, 553:
			return errors.Join(ErrEmailRecipientRejected, err)
		}
	}
	text := strings.ToLower(err.Error())
	for _, hint := range []string{"no such user", "user unknown", "recipient address rejected", "mailbox unavailable", "invalid recipient"} {
		if strings.Contains(text, hint) {
			return errors.Join(ErrEmailRecipientRejected, err)
		}
	}
	return err
}
