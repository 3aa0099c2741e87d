package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-checker/internal/models"
	"promo-checker/internal/offer"
)

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) Notify(_ context.Context, _ Notification) error {
	f.calls++
	return f.err
}

func sampleNotification() Notification {
	return Notification{
		Product: models.ProductSnapshot{
			Name:             "Magnesol <Naranja>",
			URL:              "https://inkafarma.pe/producto/magnesol/009570",
			RegularPrice:     &models.Price{Text: "S/ 28.90", Value: decimal.NewNullDecimal(decimal.RequireFromString("28.90"))},
			PromoPrice:       &models.Price{Text: "S/ 19.90", Value: decimal.NewNullDecimal(decimal.RequireFromString("19.90"))},
			IsRegularStriked: true,
		},
		Decision: models.OfferDecision{
			Type:      models.OfferPromotional,
			Price:     decimal.NewNullDecimal(decimal.RequireFromString("19.90")),
			PriceText: "S/ 19.90",
		},
		Reason:    offer.ReasonPriceChanged,
		CheckedAt: time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC),
	}
}

func TestMulti_NoChannels(t *testing.T) {
	err := NewMulti(nil).Notify(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMulti_AnyChannelDelivers(t *testing.T) {
	failing := &fakeNotifier{err: errors.New("smtp down")}
	ok := &fakeNotifier{}
	m := NewMulti(nil).Add("email", failing).Add("telegram", ok)

	require.NoError(t, m.Notify(context.Background(), sampleNotification()))
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 2, m.Len())
}

func TestMulti_AllFail(t *testing.T) {
	m := NewMulti(nil).
		Add("email", NewEmail(EmailConfig{}, nil)).
		Add("telegram", &fakeNotifier{err: errors.New("boom")})

	err := m.Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "telegram: boom")
}
