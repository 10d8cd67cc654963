// Package mailer delivers password-reset links over SMTP, through a RabbitMQ
// outbox, or to the log in development.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strconv"
	"time"

	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
)

const resetSubject = "Reset Your TalentTrack Password"

// ResetBody renders the HTML body of a reset e-mail.
func ResetBody(link string) string {
	l := html.EscapeString(link)
	return "<p>Hello,</p>\r\n" +
		"<p>You requested a password reset. Click the link below to reset it:</p>\r\n" +
		`<a href="` + l + `">` + l + "</a>\r\n" +
		"<p>This link will expire in 1 hour.</p>\r\n"
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends reset e-mails through an authenticated SMTP relay.
// smtp.SendMail upgrades to STARTTLS when the server offers it.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	send sendFunc
	log  *logger.Logger
}

func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		addr: cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		from: from,
		send: smtp.SendMail,
		log:  log,
	}
}

func (m *SMTPMailer) SendResetEmail(ctx context.Context, to, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(m.from, to, resetSubject, ResetBody(link))
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		m.log.Error(logger.Entry{
			Action:     "reset_email_failed",
			Message:    err.Error(),
			Error:      &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{"to": to},
		})
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Info(logger.Entry{Action: "reset_email_sent", Message: "sent", Additional: map[string]any{"to": to}})
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.Bytes()
}

// Publisher is the slice of the RabbitMQ client the outbox needs.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// ResetMessage is the outbox payload consumed by the mail worker.
type ResetMessage struct {
	To          string    `json:"to"`
	Link        string    `json:"link"`
	RequestedAt time.Time `json:"requested_at"`
}

// AMQPMailer hands reset e-mails to an out-of-process worker over RabbitMQ.
type AMQPMailer struct {
	pub        Publisher
	routingKey string
	now        func() time.Time
	log        *logger.Logger
}

func NewAMQPMailer(pub Publisher, cfg config.AMQPConfig, log *logger.Logger) *AMQPMailer {
	return &AMQPMailer{pub: pub, routingKey: cfg.RoutingKey, now: time.Now, log: log}
}

func (m *AMQPMailer) SendResetEmail(ctx context.Context, to, link string) error {
	payload, err := json.Marshal(ResetMessage{To: to, Link: link, RequestedAt: m.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal reset message: %w", err)
	}
	if err := m.pub.Publish(ctx, m.routingKey, payload); err != nil {
		m.log.Error(logger.Entry{
			Action:     "publish_reset_email_failed",
			Message:    err.Error(),
			Error:      &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{"routing_key": m.routingKey},
		})
		return fmt.Errorf("publish reset message: %w", err)
	}
	m.log.Debug(logger.Entry{
		Action:     "reset_email_queued",
		Message:    "queued",
		Additional: map[string]any{"routing_key": m.routingKey, "to": to},
	})
	return nil
}

// LogMailer writes the link to the log instead of sending it.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendResetEmail(_ context.Context, to, link string) error {
	m.log.Info(logger.Entry{
		Action:     "reset_email_logged",
		Message:    resetSubject,
		Additional: map[string]any{"to": to, "link": link},
	})
	return nil
}
