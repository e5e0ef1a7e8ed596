package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kamran134/fortuna-telegram-bot/internal/declension"
	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/service"
)

// handleCallback dispatches button payloads by prefix. Handler errors are
// logged here and never crash the dispatch loop or reach the notifier.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.send.AnswerCallback(cb.ID)
	if cb.Message == nil || cb.From == nil {
		return nil
	}
	if err := b.routeCallback(ctx, cb); err != nil {
		b.logger.Error(err, "callback", cb.Data, cb.Message.Chat.ID, cb.From.ID)
	}
	return nil
}

func (b *Bot) routeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID
	data := cb.Data
	from := cb.From

	switch {
	case data == "showgames":
		return b.cmdShowGames(ctx, b.callbackContext(cb))
	case data == "list":
		return b.cmdList(ctx, b.callbackContext(cb))
	case data == "register":
		return b.cmdRegister(ctx, b.callbackContext(cb))
	case data == "agilliol":
		return b.cmdAgilliol(ctx, b.callbackContext(cb))

	case strings.HasPrefix(data, "appointment_"):
		gameID := parseInt64(strings.TrimPrefix(data, "appointment_"))
		return b.onAttend(ctx, from, gameID, chatID)
	case strings.HasPrefix(data, "notconfirmed_"):
		gameID := parseInt64(strings.TrimPrefix(data, "notconfirmed_"))
		return b.onMaybe(ctx, from, gameID, chatID)
	case strings.HasPrefix(data, "decline_"):
		gameID := parseInt64(strings.TrimPrefix(data, "decline_"))
		return b.onDecline(ctx, from, gameID, chatID)

	case strings.HasPrefix(data, "privateAppointment_"):
		targetChatID, gameID := parsePair(strings.TrimPrefix(data, "privateAppointment_"))
		return b.onAttend(ctx, from, gameID, targetChatID)
	case strings.HasPrefix(data, "privateNotconfirmed_"):
		targetChatID, gameID := parsePair(strings.TrimPrefix(data, "privateNotconfirmed_"))
		return b.onMaybe(ctx, from, gameID, targetChatID)
	case strings.HasPrefix(data, "privateDecline_"):
		targetChatID, gameID := parsePair(strings.TrimPrefix(data, "privateDecline_"))
		return b.onDecline(ctx, from, gameID, targetChatID)

	case strings.HasPrefix(data, "deactivegame_"):
		return b.onDeactivateGame(ctx, chatID, parseInt64(strings.TrimPrefix(data, "deactivegame_")))

	case strings.HasPrefix(data, "confirmplayer_"):
		gameID, userDBID := parsePair(strings.TrimPrefix(data, "confirmplayer_"))
		return b.onSetConfirmed(ctx, chatID, gameID, userDBID, true)
	case strings.HasPrefix(data, "unconfirmplayer_"):
		gameID, userDBID := parsePair(strings.TrimPrefix(data, "unconfirmplayer_"))
		return b.onSetConfirmed(ctx, chatID, gameID, userDBID, false)
	case strings.HasPrefix(data, "deleteguest_"):
		gameID, userDBID := parsePair(strings.TrimPrefix(data, "deleteguest_"))
		return b.onDeleteGuest(ctx, chatID, gameID, userDBID)

	case strings.HasPrefix(data, "selectedGroupForStartGame_"):
		return b.onGroupSelected(ctx, cb, parseInt64(strings.TrimPrefix(data, "selectedGroupForStartGame_")), "startgame")
	case strings.HasPrefix(data, "selectedGroupForDeactiveGame_"):
		return b.onGroupSelected(ctx, cb, parseInt64(strings.TrimPrefix(data, "selectedGroupForDeactiveGame_")), "deactivegame")
	case strings.HasPrefix(data, "selectedGroupForShowUsers_"):
		return b.onGroupSelected(ctx, cb, parseInt64(strings.TrimPrefix(data, "selectedGroupForShowUsers_")), "showusers")
	case strings.HasPrefix(data, "selectedGroupForTagGamers_"):
		return b.onGroupSelected(ctx, cb, parseInt64(strings.TrimPrefix(data, "selectedGroupForTagGamers_")), "taggamers")

	case strings.HasPrefix(data, "showPrivate_"):
		return b.onShowPrivate(ctx, cb, strings.TrimPrefix(data, "showPrivate_"))
	}

	b.logger.Info("callback", data, chatID, from.ID, "unmatched")
	return nil
}

// parsePair splits an underscore-delimited two-field suffix. Missing or
// malformed fields come back as 0.
func parsePair(suffix string) (int64, int64) {
	parts := strings.SplitN(suffix, "_", 2)
	if len(parts) != 2 {
		return parseInt64(suffix), 0
	}
	return parseInt64(parts[0]), parseInt64(parts[1])
}

func (b *Bot) callbackContext(cb *tgbotapi.CallbackQuery) *Context {
	return &Context{
		ChatID:    cb.Message.Chat.ID,
		AccountID: cb.From.ID,
		FirstName: cb.From.FirstName,
		LastName:  cb.From.LastName,
		UserName:  cb.From.UserName,
		IsPrivate: cb.Message.Chat.IsPrivate(),
		IsCreator: b.isCreator(cb.From.ID),
	}
}

// Attendance ------------------------------------------------------------------

// onAttend announces into the game's chat. The closed-game rejection goes
// there too, also when the press came from a private keyboard.
func (b *Bot) onAttend(ctx context.Context, from *tgbotapi.User, gameID, announceChatID int64) error {
	game, err := b.svc.Games.Attend(ctx, service.AttendanceInput{
		ChatID:    announceChatID,
		GameID:    gameID,
		AccountID: from.ID,
		UserName:  optional(from.UserName),
	})
	if err != nil {
		if errors.Is(err, service.ErrGameClosed) {
			b.send.Send(announceChatID, 0, fmt.Sprintf(msgGameClosedPress, mention(from.FirstName, from.LastName, from.UserName)))
			return nil
		}
		return err
	}
	b.send.Send(announceChatID, 0, fmt.Sprintf(msgAttended,
		mention(from.FirstName, from.LastName, from.UserName),
		declension.Decline(gameLabel(game), declension.Accusative)))
	return nil
}

func (b *Bot) onMaybe(ctx context.Context, from *tgbotapi.User, gameID, announceChatID int64) error {
	game, err := b.svc.Games.Maybe(ctx, service.AttendanceInput{
		ChatID:    announceChatID,
		GameID:    gameID,
		AccountID: from.ID,
		UserName:  optional(from.UserName),
	})
	if err != nil {
		return err
	}
	b.send.Send(announceChatID, 0, fmt.Sprintf(msgMaybeAttended,
		mention(from.FirstName, from.LastName, from.UserName),
		declension.Decline(gameLabel(game), declension.Accusative)))
	return nil
}

func (b *Bot) onDecline(ctx context.Context, from *tgbotapi.User, gameID, announceChatID int64) error {
	removed, err := b.svc.Games.Decline(ctx, service.AttendanceInput{
		ChatID:    announceChatID,
		GameID:    gameID,
		AccountID: from.ID,
	})
	if err != nil {
		return err
	}
	who := mention(from.FirstName, from.LastName, from.UserName)
	if !removed {
		// Never joined: neutral acknowledgment, no joke fetched.
		b.send.Send(announceChatID, 0, fmt.Sprintf(msgDeclineNeutral, who))
		return nil
	}
	label := "игру"
	if game, err := b.svc.Games.Get(ctx, gameID); err == nil {
		label = declension.Decline(gameLabel(game), declension.Accusative)
	}
	text := fmt.Sprintf(msgDeclineJoke, who, label, b.jokeText(ctx, models.JokeLeftGame))
	b.send.Send(announceChatID, 0, strings.TrimSpace(text))
	return nil
}

// Admin roster buttons --------------------------------------------------------

func (b *Bot) onDeactivateGame(ctx context.Context, chatID, gameID int64) error {
	game, err := b.svc.Games.Deactivate(ctx, gameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(chatID, 0, msgGameNotFound)
			return nil
		}
		return err
	}
	text := fmt.Sprintf(msgGameDeactivated, declension.Decline(gameLabel(game), declension.Accusative))
	if joke := b.jokeText(ctx, models.JokeDeactivateGame); joke != "" {
		text += " " + joke
	}
	b.send.Send(chatID, 0, text)
	return nil
}

func (b *Bot) onSetConfirmed(ctx context.Context, chatID, gameID, userDBID int64, confirmed bool) error {
	if err := b.svc.Games.SetConfirmed(ctx, gameID, userDBID, confirmed); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(chatID, 0, msgGameNotFound)
			return nil
		}
		return err
	}
	b.send.Send(chatID, 0, msgPlayerConfirmed)
	return nil
}

func (b *Bot) onDeleteGuest(ctx context.Context, chatID, gameID, userDBID int64) error {
	if err := b.svc.Games.DeleteGuest(ctx, gameID, userDBID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(chatID, 0, msgGuestNotFound)
			return nil
		}
		return err
	}
	text := msgGuestDeleted
	if joke := b.jokeText(ctx, models.JokeDeletePlayer); joke != "" {
		text += ". " + joke
	}
	b.send.Send(chatID, 0, text)
	return nil
}

// Cross-group selection -------------------------------------------------------

// offerGroupSelection lists the chats linked to this admin chat as buttons.
func (b *Bot) offerGroupSelection(ctx context.Context, c *Context, action, fallback string) error {
	groups, err := b.svc.AdminGroups.Groups(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, fallback)
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(g.GroupName, fmt.Sprintf("%s_%d", action, g.ChatID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send.SendKeyboard(c.ChatID, c.ThreadID, msgChooseGroup, &kb)
	return nil
}

// onGroupSelected re-verifies both the chat link and the presser's live
// admin role in the target chat before any cross-chat action.
func (b *Bot) onGroupSelected(ctx context.Context, cb *tgbotapi.CallbackQuery, targetChatID int64, action string) error {
	adminChatID := cb.Message.Chat.ID
	linked, err := b.svc.AdminGroups.IsLinked(ctx, targetChatID, adminChatID)
	if err != nil {
		return err
	}
	if !linked {
		b.send.Send(adminChatID, 0, msgGroupNotLinked)
		return nil
	}
	if !b.isChatAdmin(targetChatID, cb.From.ID) {
		b.send.Send(adminChatID, 0, msgNotGroupAdmin)
		return nil
	}

	switch action {
	case "startgame":
		b.svc.Sessions.SelectChat(adminChatID, targetChatID)
		b.send.Send(adminChatID, 0, msgGroupSelected)
		return nil
	case "deactivegame":
		return b.offerGameDeactivation(ctx, targetChatID, adminChatID, 0)
	case "showusers":
		return b.listRegistered(ctx, targetChatID, adminChatID, 0)
	case "taggamers":
		return b.tagGamers(ctx, targetChatID, targetChatID, 0)
	}
	return nil
}

// One-shot private delivery ---------------------------------------------------

func (b *Bot) onShowPrivate(ctx context.Context, cb *tgbotapi.CallbackQuery, username string) error {
	chatID := cb.Message.Chat.ID
	if cb.From.UserName != username {
		b.send.Send(chatID, 0, msgPrivateWrong)
		return nil
	}
	text, ok := b.svc.Sessions.ConsumePrivate(username)
	if !ok {
		b.send.Send(chatID, 0, msgPrivateExpired)
		return nil
	}
	if !b.send.SendPrivate(cb.From.ID, text, nil) {
		b.send.Send(chatID, 0, msgWriteMeFirst)
	}
	return nil
}
