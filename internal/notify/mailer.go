package notify

import (
	"context"
	"fmt"
	"html/template"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
	"github.com/wneessen/go-mail"
)

const (
	changesSubject = "Firewall has been updated"
	errorSubject   = "Firewall update failed"

	// implicitTLSPort is the SMTPS port; any other port negotiates STARTTLS when offered.
	implicitTLSPort = 465
)

// Notifier delivers pass results to the operator.
type Notifier interface {
	NotifyChanges(ctx context.Context, changes domain.ChangeSet) error
	NotifyError(ctx context.Context, statusCode int) error
}

// MailerConfig holds the transport and addressing settings of a Mailer.
type MailerConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	ProxyURL  string
}

// Mailer sends notifications over authenticated SMTP.
// Every send opens and closes its own connection.
type Mailer struct {
	cfg       MailerConfig
	templates *Templates
	send      func(ctx context.Context, msg *mail.Msg) error
}

// Ensure Mailer implements Notifier.
var _ Notifier = (*Mailer)(nil)

// NewMailer creates a new Mailer with the embedded templates.
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	m := &Mailer{cfg: cfg, templates: templates}
	m.send = m.dialAndSend
	return m, nil
}

// NotifyChanges sends the change notification. An empty change set sends nothing.
func (m *Mailer) NotifyChanges(ctx context.Context, changes domain.ChangeSet) error {
	ok, list := Aggregate(changes)
	if !ok {
		return nil
	}

	body, err := m.templates.RenderChanges(ChangesData{
		ToName:             m.cfg.ToName,
		InboundRuleChanges: template.HTML(list),
		ProxyURL:           m.cfg.ProxyURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	return m.deliver(ctx, changesSubject, body)
}

// NotifyError sends the error notification for a non-success status code.
func (m *Mailer) NotifyError(ctx context.Context, statusCode int) error {
	body, err := m.templates.RenderError(ErrorData{ToName: m.cfg.ToName, StatusCode: statusCode})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	return m.deliver(ctx, errorSubject, body)
}

func (m *Mailer) deliver(ctx context.Context, subject, body string) error {
	msg, err := m.newMessage(subject, body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	return nil
}

func (m *Mailer) newMessage(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.AddToFormat(m.cfg.ToName, m.cfg.ToEmail); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
