package mail

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Message is a single HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender sends email through one SMTP relay.
type Sender struct {
	cfg  Config
	send sendFunc
}

func New(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

// Send delivers msg. Auth is skipped when no user is configured.
func (s *Sender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.from(), msg.To, buildMessage(s.from(), msg)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}

func buildMessage(from string, msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if msg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}
