package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleJoin(msg *tgbotapi.Message) {
	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}
		b.send.Send(msg.Chat.ID, 0, fmt.Sprintf(msgWelcome, mention(member.FirstName, member.LastName, member.UserName)))
	}
}

func (b *Bot) handleLeave(ctx context.Context, msg *tgbotapi.Message) {
	member := msg.LeftChatMember
	if member.IsBot {
		return
	}
	if err := b.svc.Users.Deactivate(ctx, member.ID, msg.Chat.ID); err != nil {
		b.logger.Error(err, "deactivate_user", "user", member.ID, msg.Chat.ID)
	}
	b.send.Send(msg.Chat.ID, 0, fmt.Sprintf(msgFarewell, mention(member.FirstName, member.LastName, member.UserName)))
}
