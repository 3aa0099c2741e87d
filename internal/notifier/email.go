package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig contém as credenciais e o servidor SMTP, lidos do ambiente
type EmailConfig struct {
	SenderEmail    string
	SenderPassword string
	Recipient      string
	SMTPServer     string
	SMTPPort       string
}

// port valida a configuração e devolve a porta numérica.
// Apenas 465 (SSL) e 587 (STARTTLS) são aceitas.
func (c EmailConfig) port() (int, error) {
	if c.SenderEmail == "" || c.SenderPassword == "" || c.Recipient == "" || c.SMTPServer == "" || c.SMTPPort == "" {
		return 0, fmt.Errorf("%w: faltam variáveis de e-mail", ErrNotConfigured)
	}
	port, err := strconv.Atoi(c.SMTPPort)
	if err != nil {
		return 0, fmt.Errorf("porta SMTP inválida %q: %w", c.SMTPPort, err)
	}
	if port != 465 && port != 587 {
		return 0, fmt.Errorf("%w: %d (use 465 ou 587)", ErrUnsupportedPort, port)
	}
	return port, nil
}

// EmailNotifier envia avisos em HTML via SMTP
type EmailNotifier struct {
	cfg    EmailConfig
	send   func(d *gomail.Dialer, m *gomail.Message) error
	logger *slog.Logger
}

// NewEmail cria um EmailNotifier. A configuração só é validada no envio,
// para que a falta de credenciais não impeça a execução.
func NewEmail(cfg EmailConfig, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{
		cfg:    cfg,
		send:   func(d *gomail.Dialer, m *gomail.Message) error { return d.DialAndSend(m) },
		logger: logger,
	}
}

// Notify implementa Notifier
func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	port, err := e.cfg.port()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := HTMLBody(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.SenderEmail)
	m.SetHeader("To", e.cfg.Recipient)
	m.SetHeader("Subject", Subject(n))
	m.SetBody("text/html", body)

	// NewDialer já liga SSL para a porta 465; na 587 o gomail faz STARTTLS
	d := gomail.NewDialer(e.cfg.SMTPServer, port, e.cfg.SenderEmail, e.cfg.SenderPassword)
	if port == 587 {
		d.TLSConfig = &tls.Config{ServerName: e.cfg.SMTPServer}
	}

	e.logger.Info("enviando e-mail", "to", e.cfg.Recipient, "server", e.cfg.SMTPServer, "port", port)
	if err := e.send(d, m); err != nil {
		return fmt.Errorf("erro ao enviar e-mail: %w", err)
	}
	return nil
}
