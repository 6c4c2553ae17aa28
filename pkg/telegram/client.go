package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client delivers plain-text messages to linked chats.
type Client struct {
	Bot *tgbotapi.BotAPI
}

func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	bot.Debug = debug

	return &Client{Bot: bot}, nil
}

func (c *Client) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := c.Bot.Send(msg)
	return err
}

// Username is the bot account name, for start-up logs.
func (c *Client) Username() string {
	return c.Bot.Self.UserName
}
