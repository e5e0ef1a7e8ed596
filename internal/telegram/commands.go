package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kamran134/fortuna-telegram-bot/internal/declension"
	"github.com/kamran134/fortuna-telegram-bot/internal/format"
	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/service"
)

// registerCommands wires the whole vocabulary. Order matters for the prefix
// and contains matchers: first registered wins.
func (b *Bot) registerCommands() {
	r := b.registry

	r.RegisterExact("/register", &command{name: "register", run: b.cmdRegister})
	r.RegisterExact("/menu", &command{name: "menu", run: b.cmdMenu})
	r.RegisterExact("/showgames", &command{name: "showgames", run: b.cmdShowGames})
	r.RegisterExact("/list", &command{name: "list", run: b.cmdList})
	r.RegisterExact("/deactivegame", &command{name: "deactivegame", adminOnly: true, run: b.cmdDeactivateGame})
	r.RegisterExact("/activategame", &command{name: "activategame", adminOnly: true, run: b.cmdActivateGame})
	r.RegisterExact("/showregistered", &command{name: "showregistered", adminOnly: true, run: b.cmdShowRegistered})
	r.RegisterExact("/tagregistered", &command{name: "tagregistered", adminOnly: true, run: b.cmdTagRegistered})
	r.RegisterExact("/taggamers", &command{name: "taggamers", adminOnly: true, run: b.cmdTagGamers})
	r.RegisterExact("/tagundecided", &command{name: "tagundecided", adminOnly: true, run: b.cmdTagUndecided})
	r.RegisterExact("/getgroupid", &command{name: "getgroupid", adminOnly: true, run: b.cmdGetGroupID})
	r.RegisterExact("/showgroups", &command{name: "showgroups", creatorOnly: true, run: b.cmdShowGroups})
	r.RegisterExact("/adminlistjokes", &command{name: "adminlistjokes", creatorOnly: true, run: b.cmdAdminListJokes})
	r.RegisterExact("/agilliol", &command{name: "agilliol", run: b.cmdAgilliol})

	r.RegisterPrefix("/startgame", &command{name: "startgame", adminOnly: true, run: b.cmdStartGame})
	r.RegisterPrefix("/addguest", &command{name: "addguest", adminOnly: true, run: b.cmdAddGuest})
	r.RegisterPrefix("/changelimit", &command{name: "changelimit", adminOnly: true, run: b.cmdChangeLimit})
	r.RegisterPrefix("/confirmguest", &command{name: "confirmguest", adminOnly: true, run: b.cmdConfirmGuest})
	r.RegisterPrefix("/deleteguest", &command{name: "deleteguest", adminOnly: true, run: b.cmdDeleteGuest})
	r.RegisterPrefix("/unconfirmplayer", &command{name: "unconfirmplayer", adminOnly: true, run: b.cmdUnconfirmPlayer})
	r.RegisterPrefix("/adminedituser", &command{name: "adminedituser", adminOnly: true, run: b.cmdAdminEditUser})
	r.RegisterPrefix("/connectto", &command{name: "connectto", creatorOnly: true, run: b.cmdConnectTo})
	r.RegisterPrefix("/adminstartgame", &command{name: "adminstartgame", creatorOnly: true, run: b.cmdAdminStartGame})
	r.RegisterPrefix("/sayprivate", &command{name: "sayprivate", creatorOnly: true, run: b.cmdSayPrivate})
	r.RegisterPrefix("/adminaddjoke", &command{name: "adminaddjoke", creatorOnly: true, run: b.cmdAdminAddJoke})
	r.RegisterPrefix("/admindeletejoke", &command{name: "admindeletejoke", creatorOnly: true, run: b.cmdAdminDeleteJoke})
	r.RegisterPrefix("/admineditjoke", &command{name: "admineditjoke", creatorOnly: true, run: b.cmdAdminEditJoke})
	r.RegisterPrefix("/admindeletegame", &command{name: "admindeletegame", creatorOnly: true, run: b.cmdAdminDeleteGame})

	r.RegisterContains("во сколько", &command{name: "whattime", run: b.cmdWhatTime})
	r.RegisterContains("приффки", &command{name: "hello", run: b.cmdHello})
	r.RegisterContains("привет", &command{name: "hello", run: b.cmdHello})
	r.RegisterContains("пока", &command{name: "bye", run: b.cmdBye})
	r.RegisterContains("алохамора", &command{name: "alohomora", run: b.cmdAlohomora})
	r.RegisterContains("авада кедавра", &command{name: "avada", run: b.cmdAvada})
	r.RegisterContains("твой бот", &command{name: "yourbot", run: b.cmdYourBot})
	r.RegisterContains("заткнись", &command{name: "shutup", run: b.cmdShutUp})
}

// Public commands -------------------------------------------------------------

func (b *Bot) cmdRegister(ctx context.Context, c *Context) error {
	role := "member"
	if c.IsAdmin {
		role = "admin"
	}
	created, err := b.svc.Users.Register(ctx, service.RegisterInput{
		AccountID: c.AccountID,
		ChatID:    c.ChatID,
		FirstName: c.FirstName,
		LastName:  optional(c.LastName),
		UserName:  optional(c.UserName),
		Role:      role,
	})
	if err != nil {
		return err
	}
	if created {
		b.send.Send(c.ChatID, c.ThreadID, msgRegistered)
	} else {
		b.send.Send(c.ChatID, c.ThreadID, msgAlreadyRegistered)
	}
	return nil
}

func (b *Bot) cmdMenu(ctx context.Context, c *Context) error {
	b.send.SendKeyboard(c.ChatID, c.ThreadID, msgMenu, menuKeyboard())
	return nil
}

func (b *Bot) cmdShowGames(ctx context.Context, c *Context) error {
	games, err := b.svc.Games.ActiveGames(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoGames)
		return nil
	}
	for _, game := range games {
		_, players, err := b.svc.Games.Roster(ctx, game.ID)
		if err != nil {
			return err
		}
		text := b.gameHeader(game) + "\n\n" + format.Roster(players, game.UsersLimit)
		b.send.SendKeyboard(c.ChatID, c.ThreadID, text, gameKeyboard(game.ID))
	}
	return nil
}

const digestSeparator = "\n\n🔸🔸🔸🔸🔸🔸🔸🔸🔸🔸🔸\n\n"

// cmdList renders the participants digest: one bilingual block per active
// game that has at least one attendee, joined into a single message.
func (b *Bot) cmdList(ctx context.Context, c *Context) error {
	games, err := b.svc.Games.ActiveGames(ctx, c.ChatID)
	if err != nil {
		return err
	}
	var blocks []string
	for _, game := range games {
		_, players, err := b.svc.Games.Roster(ctx, game.ID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			continue
		}
		blocks = append(blocks, b.gameDigest(game, players))
	}
	if len(blocks) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoPlayers)
		return nil
	}
	b.send.Send(c.ChatID, c.ThreadID, strings.Join(blocks, digestSeparator))
	return nil
}

func (b *Bot) gameDigest(game models.Game, players []models.GamePlayer) string {
	label := gameLabel(&game)
	remaining := game.UsersLimit - len(players)
	if remaining < 0 {
		remaining = 0
	}
	var sb strings.Builder
	sb.WriteString(capitalizeFirst(declension.AzerbaijaniFull(label)) + " oyunu\n")
	sb.WriteString("Игра на " + declension.Decline(label, declension.Accusative) + "\n")
	sb.WriteString("🗓 Tarix / Дата: " + game.GameDate.In(b.loc).Format("02.01.2006") + "\n")
	sb.WriteString("⏳ Vaxt / Время: " + game.GameStarts + " - " + game.GameEnds + "\n")
	sb.WriteString("📍 Məkan / Место: " + game.Place + "\n\n")
	sb.WriteString("👤 İştirakçılar / Участники:\n")
	sb.WriteString(format.PlayersDigest(players, game.UsersLimit))
	sb.WriteString(fmt.Sprintf("\n\n⚠️ Qalan yer sayı / Осталось мест: %d", remaining))
	return sb.String()
}

func (b *Bot) cmdAgilliol(ctx context.Context, c *Context) error {
	user, err := b.svc.Users.Random(ctx, c.ChatID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgNoRegistered)
			return nil
		}
		return err
	}
	text := fmt.Sprintf("Ağıllı ol, %s! %s", format.Mention(*user), b.jokeText(ctx, models.JokeRandomFact))
	b.send.Send(c.ChatID, c.ThreadID, strings.TrimSpace(text))
	return nil
}

// Admin commands --------------------------------------------------------------

func (b *Bot) cmdShowRegistered(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	groups, err := b.svc.AdminGroups.Groups(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		return b.offerGroupSelection(ctx, c, "selectedGroupForShowUsers", msgNoRegistered)
	}
	return b.listRegistered(ctx, c.ChatID, c.ChatID, c.ThreadID)
}

func (b *Bot) listRegistered(ctx context.Context, targetChatID, destChatID int64, threadID int) error {
	users, err := b.svc.Users.Registered(ctx, targetChatID)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		b.send.Send(destChatID, threadID, msgNoRegistered)
		return nil
	}
	b.send.Send(destChatID, threadID, format.ListUsers(users))
	return nil
}

func (b *Bot) cmdTagRegistered(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	users, err := b.svc.Users.Registered(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoRegistered)
		return nil
	}
	text := format.TagUsers(users)
	if joke := b.jokeText(ctx, models.JokeTagRegistered); joke != "" {
		text += "\n" + joke
	}
	b.send.Send(c.ChatID, c.ThreadID, text)
	return nil
}

func (b *Bot) cmdTagGamers(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	groups, err := b.svc.AdminGroups.Groups(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		return b.offerGroupSelection(ctx, c, "selectedGroupForTagGamers", msgNoGames)
	}
	return b.tagGamers(ctx, c.ChatID, c.ChatID, c.ThreadID)
}

// tagGamers pings the rosters of every active game of targetChatID into
// destChatID.
func (b *Bot) tagGamers(ctx context.Context, targetChatID, destChatID int64, threadID int) error {
	games, err := b.svc.Games.ActiveGames(ctx, targetChatID)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.send.Send(destChatID, threadID, msgNoGames)
		return nil
	}
	for _, game := range games {
		_, players, err := b.svc.Games.Roster(ctx, game.ID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			continue
		}
		b.send.Send(destChatID, threadID, fmt.Sprintf("%s: %s", gameLabel(&game), format.TagPlayers(players)))
	}
	return nil
}

func (b *Bot) cmdTagUndecided(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	games, err := b.svc.Games.ActiveGames(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoGames)
		return nil
	}
	for _, game := range games {
		_, players, err := b.svc.Games.Roster(ctx, game.ID)
		if err != nil {
			return err
		}
		undecided := filterPlayers(players, false)
		if len(undecided) == 0 {
			continue
		}
		text := fmt.Sprintf("%s: %s", gameLabel(&game), format.TagPlayers(undecided))
		if joke := b.jokeText(ctx, models.JokeTagUndecided); joke != "" {
			text += "\n" + joke
		}
		b.send.Send(c.ChatID, c.ThreadID, text)
	}
	return nil
}

func (b *Bot) cmdStartGame(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	args := argsAfter(c.Raw)
	if args == "" {
		return b.offerGroupSelection(ctx, c, "selectedGroupForStartGame", msgInvalidGameFormat)
	}
	target := c.ChatID
	if selected, ok := b.svc.Sessions.ConsumeChat(c.ChatID); ok {
		target = selected
	}
	input, err := parseGameArgs(args, b.loc)
	if err != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidGameFormat)
		return nil
	}
	input.ChatID = target
	return b.createAndAnnounce(ctx, c, input)
}

func (b *Bot) createAndAnnounce(ctx context.Context, c *Context, input service.CreateGameInput) error {
	game, registered, err := b.svc.Games.Create(ctx, input)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgNoRegistered)
			return nil
		}
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidGameFormat)
			return nil
		}
		return err
	}
	announcement := b.gameHeader(*game)
	if joke := b.jokeText(ctx, models.JokeStartGame); joke != "" {
		announcement += "\n\n" + joke
	}
	b.send.SendKeyboard(input.ChatID, 0, announcement, gameKeyboard(game.ID))
	// Fan-out: each recipient can fail independently without aborting the
	// rest or rolling back the game.
	for _, user := range registered {
		b.send.SendPrivate(user.UserID, b.gameHeader(*game), privateGameKeyboard(input.ChatID, game.ID))
	}
	b.logger.Info("start_game", "game", game.ID, c.AccountID, "announced")
	return nil
}

func (b *Bot) cmdDeactivateGame(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	groups, err := b.svc.AdminGroups.Groups(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		return b.offerGroupSelection(ctx, c, "selectedGroupForDeactiveGame", msgNoGames)
	}
	return b.offerGameDeactivation(ctx, c.ChatID, c.ChatID, c.ThreadID)
}

func (b *Bot) offerGameDeactivation(ctx context.Context, targetChatID, destChatID int64, threadID int) error {
	games, err := b.svc.Games.ActiveGames(ctx, targetChatID)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.send.Send(destChatID, threadID, msgNoGames)
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(games))
	for _, game := range games {
		title := fmt.Sprintf("%s %s", gameLabel(&game), game.GameDate.In(b.loc).Format("02.01"))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("deactivegame_%d", game.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send.SendKeyboard(destChatID, threadID, "Какую игру закрыть?", &kb)
	return nil
}

func (b *Bot) cmdActivateGame(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	game, err := b.svc.Games.ActivateLatest(ctx, c.ChatID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgNoClosedGames)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, fmt.Sprintf(msgGameActivated, declension.Decline(gameLabel(game), declension.Accusative)))
	return nil
}

func (b *Bot) cmdChangeLimit(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	parts := strings.Split(argsAfter(c.Raw), "/")
	if len(parts) != 2 {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidLimitFormat)
		return nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidLimitFormat)
		return nil
	}
	game, err := b.svc.Games.ChangeLimit(ctx, c.ChatID, strings.TrimSpace(parts[0]), limit)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
			return nil
		}
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidLimitFormat)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, fmt.Sprintf(msgLimitChanged, declension.Decline(gameLabel(game), declension.Accusative), limit))
	return nil
}

func (b *Bot) cmdAddGuest(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	parts := strings.Split(argsAfter(c.Raw), "/")
	if len(parts) < 2 {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidGuestFormat)
		return nil
	}
	maybe := len(parts) > 2 && strings.TrimSpace(parts[2]) == "*"
	game, guestName, err := b.svc.Games.AddGuest(ctx, c.ChatID, strings.TrimSpace(parts[0]), parts[1], maybe)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
			return nil
		}
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidGuestFormat)
			return nil
		}
		return err
	}
	text := fmt.Sprintf(msgGuestAdded, guestName,
		declension.Decline(gameLabel(game), declension.Accusative), b.jokeText(ctx, models.JokeAddGuest))
	b.send.Send(c.ChatID, c.ThreadID, strings.TrimSpace(text))
	return nil
}

func (b *Bot) cmdConfirmGuest(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	return b.offerPlayerSelection(ctx, c, "confirmplayer", false, msgNobodyToConfirm)
}

func (b *Bot) cmdUnconfirmPlayer(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	return b.offerPlayerSelection(ctx, c, "unconfirmplayer", true, msgNobodyToConfirm)
}

func (b *Bot) cmdDeleteGuest(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	label := argsAfter(c.Raw)
	if label == "" {
		b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
		return nil
	}
	game, players, err := b.svc.Games.RosterByLabel(ctx, c.ChatID, label)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
			return nil
		}
		return err
	}
	guests := make([]models.GamePlayer, 0, len(players))
	for _, p := range players {
		if p.IsGuest {
			guests = append(guests, p)
		}
	}
	if len(guests) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgGuestNotFound)
		return nil
	}
	kb := playerKeyboard(guests, "deleteguest", game.ID)
	b.send.SendKeyboard(c.ChatID, c.ThreadID, "Какого гостя удалить?", kb)
	return nil
}

// offerPlayerSelection renders one button per roster row in the requested
// confirmed state; pressing a button flips exactly that row.
func (b *Bot) offerPlayerSelection(ctx context.Context, c *Context, action string, confirmed bool, emptyMsg string) error {
	label := argsAfter(c.Raw)
	if label == "" {
		b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
		return nil
	}
	game, players, err := b.svc.Games.RosterByLabel(ctx, c.ChatID, label)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
			return nil
		}
		return err
	}
	matching := filterPlayers(players, confirmed)
	if len(matching) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, emptyMsg)
		return nil
	}
	kb := playerKeyboard(matching, action, game.ID)
	b.send.SendKeyboard(c.ChatID, c.ThreadID, "Кого отметить?", kb)
	return nil
}

func filterPlayers(players []models.GamePlayer, confirmed bool) []models.GamePlayer {
	out := make([]models.GamePlayer, 0, len(players))
	for _, p := range players {
		if p.Confirmed == confirmed {
			out = append(out, p)
		}
	}
	return out
}

func playerKeyboard(players []models.GamePlayer, action string, gameID int64) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(players))
	for _, p := range players {
		name := p.FirstName
		if p.LastName != nil && *p.LastName != "" {
			name += " " + *p.LastName
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, fmt.Sprintf("%s_%d_%d", action, gameID, p.UserDBID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (b *Bot) cmdAdminEditUser(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	parts := strings.Split(argsAfter(c.Raw), "/")
	if len(parts) != 4 {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidUserFormat)
		return nil
	}
	id := parseInt64(strings.TrimSpace(parts[0]))
	err := b.svc.Users.UpdateInfo(ctx, id, strings.TrimSpace(parts[1]),
		optional(strings.TrimSpace(parts[2])), optional(strings.TrimSpace(parts[3])))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGuestNotFound)
			return nil
		}
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidUserFormat)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, msgUserUpdated)
	return nil
}

func (b *Bot) cmdGetGroupID(ctx context.Context, c *Context) error {
	if !b.checkAdmin(c) {
		return nil
	}
	if !b.send.SendPrivate(c.AccountID, fmt.Sprintf("ID этой группы: %d", c.ChatID), nil) {
		b.send.Send(c.ChatID, c.ThreadID, msgWriteMeFirst)
	}
	return nil
}

// Creator commands ------------------------------------------------------------

func (b *Bot) cmdConnectTo(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	fields := strings.SplitN(argsAfter(c.Raw), " ", 2)
	if len(fields) != 2 || strings.TrimSpace(fields[1]) == "" {
		b.send.Send(c.ChatID, c.ThreadID, "Пример: /connectto -1001234567890 Фортуна")
		return nil
	}
	target := parseInt64(fields[0])
	if target == 0 {
		b.send.Send(c.ChatID, c.ThreadID, "Пример: /connectto -1001234567890 Фортуна")
		return nil
	}
	// The link only grants remote control to someone who actually holds the
	// admin role in the target chat right now.
	if !b.isChatAdmin(target, c.AccountID) {
		b.send.Send(c.ChatID, c.ThreadID, msgNotGroupAdmin)
		return nil
	}
	name := strings.TrimSpace(fields[1])
	if err := b.svc.AdminGroups.Link(ctx, target, c.ChatID, name); err != nil {
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, fmt.Sprintf(msgGroupConnected, name))
	return nil
}

func (b *Bot) cmdShowGroups(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	groups, err := b.svc.AdminGroups.Groups(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoGroups)
		return nil
	}
	var sb strings.Builder
	for i, g := range groups {
		sb.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, g.GroupName, g.ChatID))
	}
	b.send.Send(c.ChatID, c.ThreadID, sb.String())
	return nil
}

func (b *Bot) cmdAdminStartGame(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	fields := strings.SplitN(argsAfter(c.Raw), " ", 2)
	if len(fields) != 2 {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidGameFormat)
		return nil
	}
	group, err := b.svc.AdminGroups.Group(ctx, parseInt64(fields[0]))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGroupNotLinked)
			return nil
		}
		return err
	}
	if group.AdminChatID != c.ChatID {
		b.send.Send(c.ChatID, c.ThreadID, msgGroupNotLinked)
		return nil
	}
	input, err := parseGameArgs(strings.TrimSpace(fields[1]), b.loc)
	if err != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidGameFormat)
		return nil
	}
	input.ChatID = group.ChatID
	return b.createAndAnnounce(ctx, c, input)
}

func (b *Bot) cmdSayPrivate(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	fields := strings.SplitN(argsAfter(c.Raw), " ", 2)
	if len(fields) != 2 || strings.TrimSpace(fields[1]) == "" {
		b.send.Send(c.ChatID, c.ThreadID, "Пример: /sayprivate @username текст")
		return nil
	}
	username := strings.TrimPrefix(strings.TrimSpace(fields[0]), "@")
	b.svc.Sessions.PutPrivate(username, strings.TrimSpace(fields[1]))
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnShowHidden, "showPrivate_"+username),
		),
	)
	b.send.SendKeyboard(c.ChatID, c.ThreadID, fmt.Sprintf(msgPrivateOffer, username), &kb)
	return nil
}

func (b *Bot) cmdAdminAddJoke(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	parts, err := parseJokeArgs(argsAfter(c.Raw), 2)
	if err != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
		return nil
	}
	jokeType, convErr := strconv.Atoi(parts[0])
	if convErr != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
		return nil
	}
	id, err := b.svc.Jokes.Add(ctx, jokeType, parts[1])
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, fmt.Sprintf(msgJokeAdded, id))
	return nil
}

func (b *Bot) cmdAdminDeleteJoke(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	if err := b.svc.Jokes.Delete(ctx, parseInt64(argsAfter(c.Raw))); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgJokeNotFound)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, msgJokeDeleted)
	return nil
}

// cmdAdminDeleteGame removes a game row outright, attendance included. Unlike
// deactivation this is not reversible.
func (b *Bot) cmdAdminDeleteGame(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	id := parseInt64(argsAfter(c.Raw))
	if id == 0 {
		b.send.Send(c.ChatID, c.ThreadID, "Пример: /admindeletegame 12")
		return nil
	}
	if err := b.svc.Games.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgGameNotFound)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, msgGameDeleted)
	return nil
}

func (b *Bot) cmdAdminListJokes(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	jokes, err := b.svc.Jokes.List(ctx)
	if err != nil {
		return err
	}
	if len(jokes) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoJokes)
		return nil
	}
	var sb strings.Builder
	for _, joke := range jokes {
		sb.WriteString(fmt.Sprintf("№%d [%d] %s\n", joke.ID, joke.Type, joke.Text))
	}
	b.send.Send(c.ChatID, c.ThreadID, sb.String())
	return nil
}

func (b *Bot) cmdAdminEditJoke(ctx context.Context, c *Context) error {
	if !b.checkCreator(c) {
		return nil
	}
	parts, err := parseJokeArgs(argsAfter(c.Raw), 3)
	if err != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
		return nil
	}
	jokeType, convErr := strconv.Atoi(parts[1])
	if convErr != nil {
		b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
		return nil
	}
	if err := b.svc.Jokes.Update(ctx, parseInt64(parts[0]), jokeType, parts[2]); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.send.Send(c.ChatID, c.ThreadID, msgJokeNotFound)
			return nil
		}
		if errors.Is(err, models.ErrValidation) {
			b.send.Send(c.ChatID, c.ThreadID, msgInvalidJokeFormat)
			return nil
		}
		return err
	}
	b.send.Send(c.ChatID, c.ThreadID, msgJokeUpdated)
	return nil
}

// Natural-language triggers ---------------------------------------------------

func (b *Bot) cmdWhatTime(ctx context.Context, c *Context) error {
	games, err := b.svc.Games.ActiveGames(ctx, c.ChatID)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		b.send.Send(c.ChatID, c.ThreadID, msgNoGames)
		return nil
	}
	var sb strings.Builder
	sb.WriteString("Играем:\n")
	for _, game := range games {
		sb.WriteString(fmt.Sprintf("%s (%s) с %s до %s\n",
			gameLabel(&game), declension.Azerbaijani(gameLabel(&game)), game.GameStarts, game.GameEnds))
	}
	b.send.Send(c.ChatID, c.ThreadID, sb.String())
	return nil
}

func (b *Bot) cmdHello(ctx context.Context, c *Context) error {
	b.send.Send(c.ChatID, c.ThreadID, msgHello)
	return nil
}

func (b *Bot) cmdBye(ctx context.Context, c *Context) error {
	b.send.Send(c.ChatID, c.ThreadID, msgBye)
	return nil
}

func (b *Bot) cmdAlohomora(ctx context.Context, c *Context) error {
	b.send.Send(c.ChatID, c.ThreadID, msgAlohomora)
	return nil
}

// cmdAvada bans the sender for a moment and immediately unbans them.
func (b *Bot) cmdAvada(ctx context.Context, c *Context) error {
	member := tgbotapi.ChatMemberConfig{ChatID: c.ChatID, UserID: c.AccountID}
	if _, err := b.api.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: member,
		UntilDate:        time.Now().Add(time.Minute).Unix(),
	}); err != nil {
		b.logger.Error(err, "avada_ban", "chat", c.ChatID, c.AccountID)
	}
	if _, err := b.api.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: member,
		OnlyIfBanned:     true,
	}); err != nil {
		b.logger.Error(err, "avada_unban", "chat", c.ChatID, c.AccountID)
	}
	b.send.Send(c.ChatID, c.ThreadID, fmt.Sprintf(msgAvada, mention(c.FirstName, c.LastName, c.UserName)))
	return nil
}

func (b *Bot) cmdYourBot(ctx context.Context, c *Context) error {
	b.send.Send(c.ChatID, c.ThreadID, msgYourBot)
	return nil
}

func (b *Bot) cmdShutUp(ctx context.Context, c *Context) error {
	b.send.Send(c.ChatID, c.ThreadID, msgShutUpBack)
	return nil
}
