// Package notifier entrega os avisos de promoção por e-mail e Telegram.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"promo-checker/internal/models"
	"promo-checker/internal/offer"
)

var (
	// ErrNotConfigured indica que faltam credenciais ou destinatário
	ErrNotConfigured = errors.New("notificador não configurado")
	// ErrUnsupportedPort indica porta SMTP sem envio seguro suportado
	ErrUnsupportedPort = errors.New("porta SMTP não suportada")
)

// Notification reúne o que é preciso para montar um aviso
type Notification struct {
	Product       models.ProductSnapshot
	Decision      models.OfferDecision
	Reason        offer.Reason
	PreviousPrice decimal.NullDecimal
	CheckedAt     time.Time
}

// Notifier entrega um aviso. Falhas são devolvidas, nunca repetidas.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type channel struct {
	name     string
	notifier Notifier
}

// Multi envia o aviso para todos os canais configurados.
// Basta um canal entregar para o aviso ser considerado enviado.
type Multi struct {
	channels []channel
	logger   *slog.Logger
}

// NewMulti cria um Multi sem canais
func NewMulti(logger *slog.Logger) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{logger: logger}
}

// Add registra um canal
func (m *Multi) Add(name string, n Notifier) *Multi {
	m.channels = append(m.channels, channel{name: name, notifier: n})
	return m
}

// Len retorna o número de canais
func (m *Multi) Len() int {
	return len(m.channels)
}

// Notify implementa Notifier
func (m *Multi) Notify(ctx context.Context, n Notification) error {
	if len(m.channels) == 0 {
		return ErrNotConfigured
	}

	var errs []error
	delivered := 0
	for _, ch := range m.channels {
		if err := ch.notifier.Notify(ctx, n); err != nil {
			m.logger.Warn("falha ao enviar aviso", "channel", ch.name, "url", n.Product.URL, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			continue
		}
		m.logger.Info("aviso enviado", "channel", ch.name, "url", n.Product.URL)
		delivered++
	}

	if delivered > 0 {
		return nil
	}
	return errors.Join(errs...)
}
