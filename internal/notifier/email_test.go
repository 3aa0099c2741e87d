package notifier

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func validConfig(port string) EmailConfig {
	return EmailConfig{
		SenderEmail:    "alertas@example.com",
		SenderPassword: "app-password",
		Recipient:      "eu@example.com",
		SMTPServer:     "smtp.example.com",
		SMTPPort:       port,
	}
}

type capture struct {
	dialer  *gomail.Dialer
	message *gomail.Message
	err     error
	calls   int
}

func newCapturing(cfg EmailConfig, c *capture) *EmailNotifier {
	e := NewEmail(cfg, nil)
	e.send = func(d *gomail.Dialer, m *gomail.Message) error {
		c.calls++
		c.dialer = d
		c.message = m
		return c.err
	}
	return e
}

func TestEmail_MissingConfig(t *testing.T) {
	for name, cfg := range map[string]EmailConfig{
		"empty":        {},
		"no password":  {SenderEmail: "a@b.c", Recipient: "c@d.e", SMTPServer: "smtp", SMTPPort: "465"},
		"no recipient": {SenderEmail: "a@b.c", SenderPassword: "x", SMTPServer: "smtp", SMTPPort: "465"},
		"no port":      {SenderEmail: "a@b.c", SenderPassword: "x", Recipient: "c@d.e", SMTPServer: "smtp"},
	} {
		t.Run(name, func(t *testing.T) {
			c := &capture{}
			err := newCapturing(cfg, c).Notify(context.Background(), sampleNotification())
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.Zero(t, c.calls)
		})
	}
}

func TestEmail_BadPort(t *testing.T) {
	c := &capture{}

	err := newCapturing(validConfig("25"), c).Notify(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, ErrUnsupportedPort)

	err = newCapturing(validConfig("smtp"), c).Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedPort)

	assert.Zero(t, c.calls)
}

func TestEmail_SSL(t *testing.T) {
	c := &capture{}
	require.NoError(t, newCapturing(validConfig("465"), c).Notify(context.Background(), sampleNotification()))

	require.Equal(t, 1, c.calls)
	assert.True(t, c.dialer.SSL)
	assert.Equal(t, 465, c.dialer.Port)
	assert.Equal(t, "smtp.example.com", c.dialer.Host)
	assert.Equal(t, "alertas@example.com", c.dialer.Username)

	assert.Equal(t, []string{"alertas@example.com"}, c.message.GetHeader("From"))
	assert.Equal(t, []string{"eu@example.com"}, c.message.GetHeader("To"))
	// O assunto é codificado (RFC 2047) pelo gomail
	assert.Len(t, c.message.GetHeader("Subject"), 1)
	assert.Equal(t, "¡Alerta de Promoción: Magnesol <Naranja>!", Subject(sampleNotification()))

	var buf bytes.Buffer
	_, err := c.message.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestEmail_StartTLS(t *testing.T) {
	c := &capture{}
	require.NoError(t, newCapturing(validConfig("587"), c).Notify(context.Background(), sampleNotification()))

	assert.False(t, c.dialer.SSL)
	require.NotNil(t, c.dialer.TLSConfig)
	assert.Equal(t, "smtp.example.com", c.dialer.TLSConfig.ServerName)
}

func TestEmail_SendError(t *testing.T) {
	c := &capture{err: errors.New("535 authentication failed")}
	err := newCapturing(validConfig("587"), c).Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestEmail_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &capture{}
	err := newCapturing(validConfig("465"), c).Notify(ctx, sampleNotification())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.calls)
}
