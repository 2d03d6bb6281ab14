package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type SMTPSender struct {
	client *mail.Client
	from   string
	name   string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return &SMTPSender{client: c, from: cfg.From, name: cfg.FromName}, nil
}

func (s *SMTPSender) Send(ctx context.Context, job EmailJob) error {
	msg, err := buildMessage(s.name, s.from, job)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, msg)
}

func buildMessage(fromName, from string, job EmailJob) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.AddToFormat(job.Name, job.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	msg.Subject(job.Subject)
	msg.SetBodyString(mail.TypeTextPlain, job.Body)
	return msg, nil
}
