package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// chatRecipient addresses a chat either by numeric id or by @username.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// Telegram sends messages to one chat through the Bot API.
type Telegram struct {
	bot   *tele.Bot
	chat  chatRecipient
	token string
}

// NewTelegram builds the bot in offline mode, so no request is made until the
// first message is sent. apiURL may be empty for the public Bot API.
func NewTelegram(token, chatID, apiURL string, timeout time.Duration) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, errors.New("telegram chat id is empty")
	}

	b, err := tele.NewBot(tele.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}

	return &Telegram{bot: b, chat: chatRecipient(strings.TrimSpace(chatID)), token: token}, nil
}

// Notify sends message as plain text. The Bot API call is not cancellable, so
// ctx is only checked before sending.
func (t *Telegram) Notify(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		slog.Error("message was not sent", slog.String("error", err.Error()))
		return
	}

	msg, err := t.bot.Send(t.chat, message)
	if err != nil {
		slog.Error("message was not sent", slog.String("chat", t.chat.Recipient()),
			slog.String("error", t.redact(err)))
		return
	}

	if msg == nil {
		slog.Info("message sent", slog.String("chat", t.chat.Recipient()))
		return
	}
	slog.Info("message sent", slog.String("chat", t.chat.Recipient()), slog.Int("message_id", msg.ID))
}

// redact hides the bot token, which telebot errors carry inside the request URL.
func (t *Telegram) redact(err error) string {
	if t.token == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), t.token, "<redacted>")
}
