package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// sendSMTP sends via net/smtp with PLAIN auth. The whole exchange, dial
// included, shares one deadline of cfg.Timeout.
func (s *Sender) sendSMTP(ctx context.Context, msg Message) error {
	if err := s.smtpExchange(ctx, msg); err != nil {
		return &DeliveryError{Provider: ProviderSMTP, Category: classifyMessage(err.Error()), Message: err.Error()}
	}
	return nil
}

func (s *Sender) smtpExchange(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.SMTPHost, strconv.Itoa(s.cfg.SMTPPort))
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	// Unblock reads and writes when ctx is cancelled before the deadline.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost}); err != nil {
			return err
		}
	}
	if s.cfg.SMTPUser != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(s.from()); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(s.smtpBody(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (s *Sender) smtpBody(msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "From: %s\r\n", s.from())
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		fmt.Fprintf(&body, "Reply-To: %s\r\n", s.cfg.ReplyTo)
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}
