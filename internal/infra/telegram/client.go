package telegram

import (
	"strings"

	"gopkg.in/telebot.v3"
)

// maxMessageRunes is Telegram's limit for one text message.
const maxMessageRunes = 4096

// sender is the part of *telebot.Bot the adapter uses.
type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements telegram.Client. Texts over the Telegram limit are
// sent as several messages split on line boundaries.
type TelebotAdapter struct {
	bot sender
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

func (a *TelebotAdapter) SendMessage(recipientChatID int64, text string) error {
	opts := &telebot.SendOptions{DisableWebPagePreview: true}
	for _, part := range splitMessage(text, maxMessageRunes) {
		if _, err := a.bot.Send(telebot.ChatID(recipientChatID), part, opts); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into parts of at most limit runes, preferring to cut
// after a newline. A single line longer than limit is cut mid-line.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = len([]rune(string(runes[:limit])[:i])) + 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
