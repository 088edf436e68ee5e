// Package mail envía el correo de bienvenida tras un registro por SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/domain/entity"
)

var _ ports.Notifier = (*Notifier)(nil)

// Sender lo que necesitamos de *gomail.Dialer (sustituible en tests).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config servidor SMTP y remitente.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Notifier implementación SMTP de ports.Notifier.
type Notifier struct {
	sender Sender
	from   string
}

// NewNotifier construye el notificador sobre un gomail.Dialer.
func NewNotifier(cfg Config) *Notifier {
	return NewNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From)
}

// NewNotifierWithSender permite inyectar el envío.
func NewNotifierWithSender(sender Sender, from string) *Notifier {
	return &Notifier{sender: sender, from: from}
}

const subject = "Ihre Registrierung beim Basar"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<h1>Willkommen beim Basar</h1>
<p>Hallo {{.FirstName}} {{.LastName}},</p>
<p>Ihre {{if .Employee}}Mitarbeiter{{else}}Verkäufer{{end}}-ID: <strong>{{.PublicID}}</strong></p>
<p>Bewahren Sie diese Informationen gut auf!</p>
`))

// NotifyRegistration envía el correo. gomail no acepta context: el envío sigue en segundo plano
// si ctx vence, pero el llamador deja de esperar.
func (n *Notifier) NotifyRegistration(ctx context.Context, notice ports.RegistrationNotice) error {
	msg, err := n.message(notice)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("enviar correo a %s: %w", notice.Email, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enviar correo a %s: %w", notice.Email, ctx.Err())
	}
}

func (n *Notifier) message(notice ports.RegistrationNotice) (*gomail.Message, error) {
	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, struct {
		ports.RegistrationNotice
		Employee bool
	}{notice, notice.Role == entity.RoleEmployee})
	if err != nil {
		return nil, fmt.Errorf("plantilla de correo: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notice.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())
	return m, nil
}
