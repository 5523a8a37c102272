package messaging

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"otp-registration/pkg/utils"
)

const (
	dialTimeout = 10 * time.Second
	sendTimeout = 30 * time.Second
)

// SMTPSender delivers OTP emails over implicit TLS (port 465 style).
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	validFor time.Duration

	sendTimeout time.Duration
	tlsConfig   *tls.Config
}

func NewSMTPSender(config utils.EmailConfig, validFor time.Duration) *SMTPSender {
	from := config.From
	if from == "" {
		from = config.User
	}
	return &SMTPSender{
		host:     config.Host,
		port:     config.Port,
		username: config.User,
		password: config.Password,
		from:     from,
		validFor: validFor,

		sendTimeout: sendTimeout,
	}
}

func (s *SMTPSender) SendEmailOTP(ctx context.Context, address, code string) error {
	minutes := int(s.validFor.Minutes())
	body := fmt.Sprintf("<b>Your OTP is %s</b>. It is valid for %d minutes.", code, minutes)
	if err := s.send(ctx, address, "Your OTP for Registration", body); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", address, err)
	}
	return nil
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", s.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	tlsConfig := &tls.Config{}
	if s.tlsConfig != nil {
		tlsConfig = s.tlsConfig.Clone()
	}
	tlsConfig.ServerName = s.host

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: dialTimeout},
		Config:    tlsConfig,
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(exchangeDeadline(ctx, time.Now(), s.sendTimeout)); err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

// exchangeDeadline bounds the whole SMTP exchange: the ctx deadline when it is
// sooner, otherwise now+timeout.
func exchangeDeadline(ctx context.Context, now time.Time, timeout time.Duration) time.Time {
	deadline := now.Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}
