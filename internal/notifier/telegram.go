package notifier

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender é a parte do BotAPI que usamos
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier envia avisos para um chat do Telegram
type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegram inicializa o bot do Telegram
func NewTelegram(token string, chatID int64, logger *slog.Logger) (*TelegramNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN e TELEGRAM_CHAT_ID são obrigatórios", ErrNotConfigured)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("token do Telegram inválido ou expirado: %w", err)
		}
		return nil, fmt.Errorf("erro ao conectar com Telegram: %w", err)
	}

	bot.Debug = false
	logger.Info("bot do Telegram autorizado", "user", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Notify implementa Notifier
func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, TelegramText(n))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("erro ao enviar mensagem: %w", err)
	}
	return nil
}
