package repository

import (
	"context"
	"time"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
)

type UsersRepository interface {
	GetByAccount(ctx context.Context, accountID, chatID int64) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListRegistered(ctx context.Context, chatID int64) ([]models.User, error)
	ListChats(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, user models.User) (int64, error)
	CreateGuest(ctx context.Context, chatID int64, firstName string, lastName *string) (int64, error)
	AddToGroup(ctx context.Context, userDBID, chatID int64, role string) error
	FillPlaceholder(ctx context.Context, accountID, chatID int64, firstName string, lastName, username *string) error
	UpdateInfo(ctx context.Context, id int64, firstName string, lastName, fullNameAZ *string) error
	Deactivate(ctx context.Context, accountID, chatID int64) error
	Reactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Random(ctx context.Context, chatID int64) (*models.User, error)
	ListInactive(ctx context.Context, chatID int64, since time.Time, minGames int) ([]models.User, error)
}

type GamesRepository interface {
	Upsert(ctx context.Context, game models.Game) (int64, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	ListActive(ctx context.Context, chatID int64) ([]models.Game, error)
	FindActiveByLabel(ctx context.Context, chatID int64, label string) (*models.Game, error)
	SetStatus(ctx context.Context, id int64, active bool) error
	ActivateLatestClosed(ctx context.Context, chatID int64) (*models.Game, error)
	ChangeLimit(ctx context.Context, id int64, limit int) error
	Delete(ctx context.Context, id int64) error
}

type GamePlayersRepository interface {
	UpsertAttendance(ctx context.Context, userDBID, gameID int64, confirmed bool) error
	RemoveAttendance(ctx context.Context, userDBID, gameID int64) (bool, error)
	ListByGame(ctx context.Context, gameID int64) ([]models.GamePlayer, error)
	SetConfirmed(ctx context.Context, userDBID, gameID int64, confirmed bool) error
}

type JokesRepository interface {
	Random(ctx context.Context, jokeType int) (*models.Joke, error)
	List(ctx context.Context) ([]models.Joke, error)
	Create(ctx context.Context, text string, jokeType int) (int64, error)
	Update(ctx context.Context, id int64, text string, jokeType int) error
	Delete(ctx context.Context, id int64) error
}

type AdminGroupsRepository interface {
	Link(ctx context.Context, chatID, adminChatID int64, groupName string) error
	ListByAdminChat(ctx context.Context, adminChatID int64) ([]models.AdminGroup, error)
	Get(ctx context.Context, id int64) (*models.AdminGroup, error)
	IsLinked(ctx context.Context, chatID, adminChatID int64) (bool, error)
}

type Logger interface {
	Info(action string, entity string, entityID int64, actorID int64, status string)
	Error(err error, action string, entity string, entityID int64, actorID int64)
}
