package notifier

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegram_Notify(t *testing.T) {
	bot := &fakeBot{}
	tg := &TelegramNotifier{bot: bot, chatID: 1234}

	require.NoError(t, tg.Notify(context.Background(), sampleNotification()))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(1234), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Magnesol &lt;Naranja&gt;")
	assert.Contains(t, msg.Text, "<b>S/ 19.90</b>")
}

func TestTelegram_SendError(t *testing.T) {
	tg := &TelegramNotifier{bot: &fakeBot{err: errors.New("Forbidden")}, chatID: 1}
	assert.Error(t, tg.Notify(context.Background(), sampleNotification()))
}

func TestNewTelegram_NotConfigured(t *testing.T) {
	_, err := NewTelegram("", 1, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewTelegram("token", 0, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
