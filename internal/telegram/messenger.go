package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kamran134/fortuna-telegram-bot/internal/repository"
)

// Sender is the outbound surface the bot talks through. Messenger is the
// production implementation.
type Sender interface {
	Send(chatID int64, threadID int, text string)
	SendKeyboard(chatID int64, threadID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup)
	SendPrivate(accountID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) bool
	AnswerCallback(callbackID string)
}

// Messenger wraps outbound sends. Failures are logged, never propagated: a
// message that cannot be delivered must not fail the operation that produced
// it. A send into a dead forum topic is retried exactly once without the
// thread id.
type Messenger struct {
	api    *tgbotapi.BotAPI
	logger repository.Logger
}

func NewMessenger(api *tgbotapi.BotAPI, logger repository.Logger) *Messenger {
	return &Messenger{api: api, logger: logger}
}

func (m *Messenger) Send(chatID int64, threadID int, text string) {
	m.SendKeyboard(chatID, threadID, text, nil)
}

func (m *Messenger) SendKeyboard(chatID int64, threadID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if err := m.send(chatID, threadID, text, keyboard); err != nil {
		if threadID != 0 && isTopicError(err) {
			if err := m.send(chatID, 0, text, keyboard); err == nil {
				return
			}
		}
		m.logger.Error(err, "send_message", "chat", chatID, 0)
	}
}

// SendPrivate reports whether delivery succeeded; recipients who never opened
// a private chat with the bot are a normal outcome.
func (m *Messenger) SendPrivate(accountID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) bool {
	if err := m.send(accountID, 0, text, keyboard); err != nil {
		m.logger.Info("send_private", "user", accountID, 0, "undeliverable")
		return false
	}
	return true
}

func (m *Messenger) AnswerCallback(callbackID string) {
	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		m.logger.Error(err, "answer_callback", "callback", 0, 0)
	}
}

func (m *Messenger) send(chatID int64, threadID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonEmpty("text", text)
	params.AddNonZero("message_thread_id", threadID)
	if keyboard != nil {
		if err := params.AddInterface("reply_markup", keyboard); err != nil {
			return err
		}
	}
	_, err := m.api.MakeRequest("sendMessage", params)
	return err
}

func isTopicError(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "thread") || strings.Contains(text, "topic")
}
