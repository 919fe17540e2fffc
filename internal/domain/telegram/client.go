package telegram

// Client sends plain-text operator messages to a Telegram chat.
type Client interface {
	SendText(chatID int64, text string) error
}
