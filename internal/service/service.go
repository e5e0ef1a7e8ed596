package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/repository"
)

// ErrGameClosed is returned by attendance operations on a deactivated game.
var ErrGameClosed = errors.New("game is closed")

// Users -----------------------------------------------------------------------

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (bool, error)
	Registered(ctx context.Context, chatID int64) ([]models.User, error)
	Random(ctx context.Context, chatID int64) (*models.User, error)
	Inactive(ctx context.Context, chatID int64) ([]models.User, error)
	Chats(ctx context.Context) ([]int64, error)
	UpdateInfo(ctx context.Context, id int64, firstName string, lastName, fullNameAZ *string) error
	FillPlaceholder(ctx context.Context, accountID, chatID int64, firstName string, lastName, username *string) error
	Deactivate(ctx context.Context, accountID, chatID int64) error
}

type RegisterInput struct {
	AccountID int64
	ChatID    int64
	FirstName string
	LastName  *string
	UserName  *string
	Role      string
}

type userService struct {
	users repository.UsersRepository
}

func NewUserService(users repository.UsersRepository) UserService {
	return &userService{users: users}
}

// Register creates the user row on first call and is a membership no-op on
// repeats. A row soft-deactivated by a chat departure is reactivated, so a
// returning member gets back into rosters and the fan-out. Returns true when
// the caller became a registered member by this call.
func (s *userService) Register(ctx context.Context, input RegisterInput) (bool, error) {
	if input.FirstName == "" {
		return false, fmt.Errorf("first_name: %w", models.ErrValidation)
	}
	existing, err := s.users.GetByAccount(ctx, input.AccountID, input.ChatID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		if err := s.users.AddToGroup(ctx, existing.ID, input.ChatID, input.Role); err != nil {
			return false, err
		}
		if !existing.Active {
			if err := s.users.Reactivate(ctx, existing.ID); err != nil {
				return false, err
			}
			return true, nil
		}
		return false, nil
	}
	id, err := s.users.Create(ctx, models.User{
		UserID:    input.AccountID,
		ChatID:    input.ChatID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserName:  input.UserName,
	})
	if err != nil {
		return false, err
	}
	if err := s.users.AddToGroup(ctx, id, input.ChatID, input.Role); err != nil {
		return false, err
	}
	return true, nil
}

func (s *userService) Registered(ctx context.Context, chatID int64) ([]models.User, error) {
	return s.users.ListRegistered(ctx, chatID)
}

func (s *userService) Random(ctx context.Context, chatID int64) (*models.User, error) {
	return s.users.Random(ctx, chatID)
}

// Inactive lists users with fewer than two attendances over the last two
// months.
func (s *userService) Inactive(ctx context.Context, chatID int64) ([]models.User, error) {
	since := time.Now().AddDate(0, -2, 0)
	return s.users.ListInactive(ctx, chatID, since, 2)
}

func (s *userService) Chats(ctx context.Context) ([]int64, error) {
	return s.users.ListChats(ctx)
}

func (s *userService) UpdateInfo(ctx context.Context, id int64, firstName string, lastName, fullNameAZ *string) error {
	if firstName == "" {
		return fmt.Errorf("first_name: %w", models.ErrValidation)
	}
	return s.users.UpdateInfo(ctx, id, firstName, lastName, fullNameAZ)
}

func (s *userService) FillPlaceholder(ctx context.Context, accountID, chatID int64, firstName string, lastName, username *string) error {
	return s.users.FillPlaceholder(ctx, accountID, chatID, firstName, lastName, username)
}

func (s *userService) Deactivate(ctx context.Context, accountID, chatID int64) error {
	return s.users.Deactivate(ctx, accountID, chatID)
}

// Games -----------------------------------------------------------------------

type GameService interface {
	Create(ctx context.Context, input CreateGameInput) (*models.Game, []models.User, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	ActiveGames(ctx context.Context, chatID int64) ([]models.Game, error)
	Roster(ctx context.Context, gameID int64) (*models.Game, []models.GamePlayer, error)
	RosterByLabel(ctx context.Context, chatID int64, label string) (*models.Game, []models.GamePlayer, error)
	Attend(ctx context.Context, input AttendanceInput) (*models.Game, error)
	Maybe(ctx context.Context, input AttendanceInput) (*models.Game, error)
	Decline(ctx context.Context, input AttendanceInput) (bool, error)
	Deactivate(ctx context.Context, gameID int64) (*models.Game, error)
	ActivateLatest(ctx context.Context, chatID int64) (*models.Game, error)
	ChangeLimit(ctx context.Context, chatID int64, label string, limit int) (*models.Game, error)
	AddGuest(ctx context.Context, chatID int64, label, fullName string, maybe bool) (*models.Game, string, error)
	DeleteGuest(ctx context.Context, gameID, userDBID int64) error
	SetConfirmed(ctx context.Context, gameID, userDBID int64, confirmed bool) error
	Delete(ctx context.Context, gameID int64) error
}

type CreateGameInput struct {
	ChatID     int64
	GameDate   time.Time
	GameStarts string
	GameEnds   string
	Place      string
	UsersLimit int
	Label      string
}

type AttendanceInput struct {
	ChatID    int64
	GameID    int64
	AccountID int64
	UserName  *string
}

type gameService struct {
	games   repository.GamesRepository
	players repository.GamePlayersRepository
	users   repository.UsersRepository
}

func NewGameService(games repository.GamesRepository, players repository.GamePlayersRepository, users repository.UsersRepository) GameService {
	return &gameService{games: games, players: players, users: users}
}

// Create upserts by the natural key and returns the registered users of the
// chat for the private announcement fan-out.
func (s *gameService) Create(ctx context.Context, input CreateGameInput) (*models.Game, []models.User, error) {
	if input.UsersLimit <= 0 {
		return nil, nil, fmt.Errorf("users_limit: %w", models.ErrValidation)
	}
	if input.Place == "" {
		return nil, nil, fmt.Errorf("place: %w", models.ErrValidation)
	}
	registered, err := s.users.ListRegistered(ctx, input.ChatID)
	if err != nil {
		return nil, nil, err
	}
	if len(registered) == 0 {
		return nil, nil, fmt.Errorf("registered users: %w", models.ErrNotFound)
	}
	label := input.Label
	id, err := s.games.Upsert(ctx, models.Game{
		ChatID:     input.ChatID,
		GameDate:   input.GameDate,
		GameStarts: input.GameStarts,
		GameEnds:   input.GameEnds,
		Place:      input.Place,
		UsersLimit: input.UsersLimit,
		Label:      &label,
	})
	if err != nil {
		return nil, nil, err
	}
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return game, registered, nil
}

func (s *gameService) Get(ctx context.Context, id int64) (*models.Game, error) {
	return s.games.Get(ctx, id)
}

func (s *gameService) ActiveGames(ctx context.Context, chatID int64) ([]models.Game, error) {
	return s.games.ListActive(ctx, chatID)
}

func (s *gameService) Roster(ctx context.Context, gameID int64) (*models.Game, []models.GamePlayer, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return game, SortRoster(players), nil
}

func (s *gameService) RosterByLabel(ctx context.Context, chatID int64, label string) (*models.Game, []models.GamePlayer, error) {
	game, err := s.games.FindActiveByLabel(ctx, chatID, label)
	if err != nil {
		return nil, nil, err
	}
	players, err := s.players.ListByGame(ctx, game.ID)
	if err != nil {
		return nil, nil, err
	}
	return game, SortRoster(players), nil
}

// SortRoster keeps confirmed attendees first and preserves participation
// order within each group.
func SortRoster(players []models.GamePlayer) []models.GamePlayer {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Confirmed && !players[j].Confirmed
	})
	return players
}

// Attend rejects closed (or unknown) games, then records the presser as
// confirmed, creating the user row on the fly when needed.
func (s *gameService) Attend(ctx context.Context, input AttendanceInput) (*models.Game, error) {
	game, err := s.games.Get(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrGameClosed
		}
		return nil, err
	}
	if !game.Status {
		return nil, ErrGameClosed
	}
	userDBID, err := s.ensureUser(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.players.UpsertAttendance(ctx, userDBID, input.GameID, true); err != nil {
		return nil, err
	}
	return game, nil
}

// Maybe records an undecided mark. It deliberately skips the game-open check
// that Attend performs.
func (s *gameService) Maybe(ctx context.Context, input AttendanceInput) (*models.Game, error) {
	userDBID, err := s.ensureUser(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.players.UpsertAttendance(ctx, userDBID, input.GameID, false); err != nil {
		return nil, err
	}
	return s.games.Get(ctx, input.GameID)
}

// Decline removes the attendance row if one exists. Returns true when a row
// was actually deleted.
func (s *gameService) Decline(ctx context.Context, input AttendanceInput) (bool, error) {
	user, err := s.users.GetByAccount(ctx, input.AccountID, input.ChatID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.players.RemoveAttendance(ctx, user.ID, input.GameID)
}

func (s *gameService) ensureUser(ctx context.Context, input AttendanceInput) (int64, error) {
	user, err := s.users.GetByAccount(ctx, input.AccountID, input.ChatID)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return 0, err
	}
	// Placeholder row; the name is backfilled from the presser's next
	// ordinary message.
	return s.users.Create(ctx, models.User{
		UserID:    input.AccountID,
		ChatID:    input.ChatID,
		FirstName: "Unknown",
		UserName:  input.UserName,
	})
}

func (s *gameService) Deactivate(ctx context.Context, gameID int64) (*models.Game, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.games.SetStatus(ctx, gameID, false); err != nil {
		return nil, err
	}
	game.Status = false
	return game, nil
}

func (s *gameService) ActivateLatest(ctx context.Context, chatID int64) (*models.Game, error) {
	return s.games.ActivateLatestClosed(ctx, chatID)
}

func (s *gameService) ChangeLimit(ctx context.Context, chatID int64, label string, limit int) (*models.Game, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("users_limit: %w", models.ErrValidation)
	}
	game, err := s.games.FindActiveByLabel(ctx, chatID, label)
	if err != nil {
		return nil, err
	}
	if err := s.games.ChangeLimit(ctx, game.ID, limit); err != nil {
		return nil, err
	}
	game.UsersLimit = limit
	return game, nil
}

// AddGuest creates a disposable guest row and attaches it to the labelled
// game, confirmed unless the maybe marker was given.
func (s *gameService) AddGuest(ctx context.Context, chatID int64, label, fullName string, maybe bool) (*models.Game, string, error) {
	firstName, lastName := SplitGuestName(fullName)
	if firstName == "" {
		return nil, "", fmt.Errorf("guest name: %w", models.ErrValidation)
	}
	game, err := s.games.FindActiveByLabel(ctx, chatID, label)
	if err != nil {
		return nil, "", err
	}
	guestID, err := s.users.CreateGuest(ctx, chatID, firstName, lastName)
	if err != nil {
		return nil, "", err
	}
	if err := s.players.UpsertAttendance(ctx, guestID, game.ID, !maybe); err != nil {
		return nil, "", err
	}
	display := firstName
	if lastName != nil {
		display = firstName + " " + *lastName
	}
	return game, display, nil
}

// SplitGuestName splits a free-text name on the first whitespace run and
// capitalizes each part.
func SplitGuestName(fullName string) (string, *string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", nil
	}
	first := capitalize(fields[0])
	if len(fields) == 1 {
		return first, nil
	}
	rest := capitalize(strings.Join(fields[1:], " "))
	return first, &rest
}

func capitalize(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if i == 0 || unicode.IsSpace(runes[i-1]) {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

// DeleteGuest removes both the attendance row and the guest's user row.
// Non-guest rows are reported as not found and left untouched.
func (s *gameService) DeleteGuest(ctx context.Context, gameID, userDBID int64) error {
	user, err := s.users.GetByID(ctx, userDBID)
	if err != nil {
		return err
	}
	if !user.IsGuest {
		return fmt.Errorf("not a guest: %w", models.ErrNotFound)
	}
	if _, err := s.players.RemoveAttendance(ctx, userDBID, gameID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userDBID)
}

func (s *gameService) SetConfirmed(ctx context.Context, gameID, userDBID int64, confirmed bool) error {
	return s.players.SetConfirmed(ctx, userDBID, gameID, confirmed)
}

func (s *gameService) Delete(ctx context.Context, gameID int64) error {
	return s.games.Delete(ctx, gameID)
}

// Jokes -----------------------------------------------------------------------

type JokeService interface {
	Random(ctx context.Context, jokeType int) (*models.Joke, error)
	List(ctx context.Context) ([]models.Joke, error)
	Add(ctx context.Context, jokeType int, text string) (int64, error)
	Update(ctx context.Context, id int64, jokeType int, text string) error
	Delete(ctx context.Context, id int64) error
}

type jokeService struct {
	jokes repository.JokesRepository
}

func NewJokeService(jokes repository.JokesRepository) JokeService {
	return &jokeService{jokes: jokes}
}

func (s *jokeService) Random(ctx context.Context, jokeType int) (*models.Joke, error) {
	return s.jokes.Random(ctx, jokeType)
}

func (s *jokeService) List(ctx context.Context) ([]models.Joke, error) {
	return s.jokes.List(ctx)
}

func (s *jokeService) Add(ctx context.Context, jokeType int, text string) (int64, error) {
	if !models.ValidJokeType(jokeType) {
		return 0, fmt.Errorf("joke type: %w", models.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("joke text: %w", models.ErrValidation)
	}
	return s.jokes.Create(ctx, text, jokeType)
}

func (s *jokeService) Update(ctx context.Context, id int64, jokeType int, text string) error {
	if !models.ValidJokeType(jokeType) {
		return fmt.Errorf("joke type: %w", models.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("joke text: %w", models.ErrValidation)
	}
	return s.jokes.Update(ctx, id, text, jokeType)
}

func (s *jokeService) Delete(ctx context.Context, id int64) error {
	return s.jokes.Delete(ctx, id)
}

// Admin groups ----------------------------------------------------------------

type AdminGroupService interface {
	Link(ctx context.Context, chatID, adminChatID int64, groupName string) error
	Groups(ctx context.Context, adminChatID int64) ([]models.AdminGroup, error)
	Group(ctx context.Context, id int64) (*models.AdminGroup, error)
	IsLinked(ctx context.Context, chatID, adminChatID int64) (bool, error)
}

type adminGroupService struct {
	groups repository.AdminGroupsRepository
}

func NewAdminGroupService(groups repository.AdminGroupsRepository) AdminGroupService {
	return &adminGroupService{groups: groups}
}

func (s *adminGroupService) Link(ctx context.Context, chatID, adminChatID int64, groupName string) error {
	if strings.TrimSpace(groupName) == "" {
		return fmt.Errorf("group name: %w", models.ErrValidation)
	}
	return s.groups.Link(ctx, chatID, adminChatID, groupName)
}

func (s *adminGroupService) Groups(ctx context.Context, adminChatID int64) ([]models.AdminGroup, error) {
	return s.groups.ListByAdminChat(ctx, adminChatID)
}

func (s *adminGroupService) Group(ctx context.Context, id int64) (*models.AdminGroup, error) {
	return s.groups.Get(ctx, id)
}

func (s *adminGroupService) IsLinked(ctx context.Context, chatID, adminChatID int64) (bool, error) {
	return s.groups.IsLinked(ctx, chatID, adminChatID)
}
