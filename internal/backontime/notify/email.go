package notify

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

// Email sends the failure over SMTP.
type Email struct {
	cfg config.EmailConfig
}

// NewEmail validates cfg and returns an email notifier. Port defaults to 587 and
// the sender to the username.
func NewEmail(cfg config.EmailConfig) (*Email, error) {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: notify.email.from", errors.ErrMissingRequired)
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("%w: notify.email.to", errors.ErrMissingRequired)
	}
	return &Email{cfg: cfg}, nil
}

func (e *Email) Name() string { return "email" }

// Notify sends the message. gomail has no context support; ctx is only checked
// before dialing.
func (e *Email) Notify(ctx context.Context, f Failure) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(e.cfg.Host, e.cfg.Port, e.cfg.Username, e.cfg.Password)
	if err := d.DialAndSend(e.message(f)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (e *Email) message(f Failure) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", e.cfg.To...)
	m.SetHeader("Subject", "[backontime] "+f.title())
	m.SetBody("text/plain", f.summary())
	m.AddAlternative("text/html", emailHTML(f))
	return m
}

func emailHTML(f Failure) string {
	body := fmt.Sprintf("<h2>%s</h2><pre>%s</pre>", html.EscapeString(f.title()), html.EscapeString(f.summary()))
	if out := truncate(f.Stderr); out != "" {
		body += "<h3>stderr</h3><pre>" + html.EscapeString(out) + "</pre>"
	}
	if out := truncate(f.Stdout); out != "" {
		body += "<h3>stdout</h3><pre>" + html.EscapeString(out) + "</pre>"
	}
	return "<html><body>" + body + "</body></html>"
}
