package telegram

// Client sends plain text to a Telegram chat.
type Client interface {
	SendMessage(recipientChatID int64, text string) error
}
