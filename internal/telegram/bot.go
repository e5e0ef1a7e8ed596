package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"

	"github.com/kamran134/fortuna-telegram-bot/internal/format"
	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/repository"
	"github.com/kamran134/fortuna-telegram-bot/internal/service"
	"github.com/kamran134/fortuna-telegram-bot/internal/session"
)

type Services struct {
	Users       service.UserService
	Games       service.GameService
	AdminGroups service.AdminGroupService
	Jokes       service.JokeService
	Sessions    *session.Store
}

type Bot struct {
	api       *tgbotapi.BotAPI
	svc       Services
	logger    repository.Logger
	send      Sender
	notify    *Notifier
	registry  *Registry
	creators  map[int64]struct{}
	username  string
	nudgeCron string
	loc       *time.Location
}

func NewBot(api *tgbotapi.BotAPI, creatorIDs []int64, loc *time.Location, nudgeCron string, svc Services, logger repository.Logger) *Bot {
	creators := make(map[int64]struct{}, len(creatorIDs))
	for _, id := range creatorIDs {
		creators[id] = struct{}{}
	}
	b := &Bot{
		api:       api,
		svc:       svc,
		logger:    logger,
		creators:  creators,
		username:  api.Self.UserName,
		nudgeCron: nudgeCron,
		loc:       loc,
	}
	b.send = NewMessenger(api, logger)
	b.notify = NewNotifier(b.send, creatorIDs[0])
	b.registry = NewRegistry(logger)
	b.registerCommands()
	return b
}

func (b *Bot) Run(ctx context.Context) error {
	go b.notify.Run(ctx)
	if b.nudgeCron != "" {
		if err := b.startNudge(ctx); err != nil {
			return fmt.Errorf("nudge schedule: %w", err)
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if err := b.handleUpdate(ctx, update); err != nil {
				b.logger.Error(err, "handle_update", "update", int64(update.UpdateID), 0)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message != nil {
		return b.handleMessage(ctx, update.Message)
	}
	if update.CallbackQuery != nil {
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if len(msg.NewChatMembers) > 0 {
		b.handleJoin(msg)
		return nil
	}
	if msg.LeftChatMember != nil {
		b.handleLeave(ctx, msg)
		return nil
	}
	if msg.From == nil || msg.Text == "" {
		return nil
	}

	// Rows created just-in-time by a button press carry a placeholder name
	// until the presser writes an ordinary message.
	if err := b.svc.Users.FillPlaceholder(ctx, msg.From.ID, msg.Chat.ID,
		msg.From.FirstName, optional(msg.From.LastName), optional(msg.From.UserName)); err != nil {
		b.logger.Error(err, "fill_placeholder", "user", msg.From.ID, msg.Chat.ID)
	}

	c := b.buildContext(msg)
	if _, err := b.registry.Execute(ctx, c); err != nil {
		b.notify.Notify(fmt.Sprintf("Ошибка в чате %d от %d: %v", c.ChatID, c.AccountID, err))
		b.send.Send(c.ChatID, c.ThreadID, msgGenericError)
	}
	return nil
}

func (b *Bot) buildContext(msg *tgbotapi.Message) *Context {
	text := strings.ToLower(strings.TrimSpace(msg.Text))
	text = strings.ReplaceAll(text, "@"+strings.ToLower(b.username), "")
	c := &Context{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		AccountID: msg.From.ID,
		Text:      text,
		Raw:       strings.TrimSpace(msg.Text),
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		UserName:  msg.From.UserName,
		IsPrivate: msg.Chat.IsPrivate(),
		IsCreator: b.isCreator(msg.From.ID),
	}
	// Role is read live so a promotion takes effect on the next message.
	// Only commands need it, natural-language triggers are not gated.
	if strings.HasPrefix(text, "/") {
		c.IsAdmin = c.IsPrivate || b.isChatAdmin(msg.Chat.ID, msg.From.ID)
	}
	return c
}

func (b *Bot) isCreator(accountID int64) bool {
	_, ok := b.creators[accountID]
	return ok
}

func (b *Bot) isChatAdmin(chatID, accountID int64) bool {
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: accountID,
		},
	})
	if err != nil {
		b.logger.Error(err, "get_chat_member", "chat", chatID, accountID)
		return false
	}
	return member.Status == "administrator" || member.Status == "creator"
}

// checkAdmin is the in-command permission check. Unlike the registry gate it
// answers with a denial message.
func (b *Bot) checkAdmin(c *Context) bool {
	if !c.IsAdmin {
		b.send.Send(c.ChatID, c.ThreadID, msgPermissionDenied)
		return false
	}
	return true
}

func (b *Bot) checkCreator(c *Context) bool {
	if !c.IsCreator {
		b.send.Send(c.ChatID, c.ThreadID, msgCreatorOnly)
		return false
	}
	return true
}

// Inactivity nudge ------------------------------------------------------------

func (b *Bot) startNudge(ctx context.Context) error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(b.nudgeCron, func() {
		b.runNudge(ctx)
	}); err != nil {
		return err
	}
	scheduler.Start()
	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()
	return nil
}

func (b *Bot) runNudge(ctx context.Context) {
	chats, err := b.svc.Users.Chats(ctx)
	if err != nil {
		b.logger.Error(err, "nudge", "chats", 0, 0)
		return
	}
	for _, chatID := range chats {
		inactive, err := b.svc.Users.Inactive(ctx, chatID)
		if err != nil {
			b.logger.Error(err, "nudge", "chat", chatID, 0)
			continue
		}
		if len(inactive) == 0 {
			continue
		}
		b.send.Send(chatID, 0, fmt.Sprintf(msgInactiveNudge,
			format.TagUsers(inactive), b.jokeText(ctx, models.JokeInactiveNudge)))
		b.logger.Info("nudge", "chat", chatID, 0, "sent")
	}
}

// jokeText returns a random joke of a category, or an empty string when the
// category has none.
func (b *Bot) jokeText(ctx context.Context, jokeType int) string {
	joke, err := b.svc.Jokes.Random(ctx, jokeType)
	if err != nil {
		return ""
	}
	return joke.Text
}

// Helpers ---------------------------------------------------------------------

// parseInt64 coerces malformed numbers to 0 instead of failing; callback
// payload ids rely on this.
func parseInt64(s string) int64 {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mention(firstName, lastName, username string) string {
	if username != "" {
		return "@" + username
	}
	if lastName != "" {
		return firstName + " " + lastName
	}
	return firstName
}

func gameLabel(game *models.Game) string {
	if game == nil || game.Label == nil || *game.Label == "" {
		return "игру"
	}
	return *game.Label
}

func (b *Bot) gameHeader(game models.Game) string {
	return fmt.Sprintf("🏐 %s, %s, %s–%s, %s\nМест: %d",
		gameLabel(&game),
		game.GameDate.In(b.loc).Format("02.01.2006"),
		game.GameStarts,
		game.GameEnds,
		game.Place,
		game.UsersLimit,
	)
}

func gameKeyboard(gameID int64) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnAttend, fmt.Sprintf("appointment_%d", gameID)),
			tgbotapi.NewInlineKeyboardButtonData(btnMaybe, fmt.Sprintf("notconfirmed_%d", gameID)),
			tgbotapi.NewInlineKeyboardButtonData(btnDecline, fmt.Sprintf("decline_%d", gameID)),
		),
	)
	return &kb
}

func privateGameKeyboard(chatID, gameID int64) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnAttend, fmt.Sprintf("privateAppointment_%d_%d", chatID, gameID)),
			tgbotapi.NewInlineKeyboardButtonData(btnMaybe, fmt.Sprintf("privateNotconfirmed_%d_%d", chatID, gameID)),
			tgbotapi.NewInlineKeyboardButtonData(btnDecline, fmt.Sprintf("privateDecline_%d_%d", chatID, gameID)),
		),
	)
	return &kb
}

func menuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnShowGames, "showgames"),
			tgbotapi.NewInlineKeyboardButtonData(btnList, "list"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnRegister, "register"),
			tgbotapi.NewInlineKeyboardButtonData(btnAgilliol, "agilliol"),
		),
	)
	return &kb
}
