package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates absence of a record.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates business rule violation.
	ErrValidation = errors.New("validation error")
)

// User is a chat-scoped participant. Guests carry a synthetic UserID and are
// deleted together with their single game attendance row.
type User struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	ChatID     int64   `json:"chat_id"`
	FirstName  string  `json:"first_name"`
	LastName   *string `json:"last_name,omitempty"`
	UserName   *string `json:"username,omitempty"`
	FullNameAZ *string `json:"fullname_az,omitempty"`
	IsGuest    bool    `json:"is_guest"`
	Active     bool    `json:"active"`
}

// Game is one scheduled session. (ChatID, GameDate, GameStarts, GameEnds,
// Place) is a natural key: re-announcing identical parameters updates the
// existing row instead of duplicating it.
type Game struct {
	ID         int64     `json:"id"`
	ChatID     int64     `json:"chat_id"`
	GameDate   time.Time `json:"game_date"`
	GameStarts string    `json:"game_starts"`
	GameEnds   string    `json:"game_ends"`
	Place      string    `json:"place"`
	UsersLimit int       `json:"users_limit"`
	Status     bool      `json:"status"`
	Label      *string   `json:"label,omitempty"`
}

// GamePlayer is one attendance row joined with its user. Confirmed=false
// means "maybe"; declining deletes the row, no declined state is stored.
type GamePlayer struct {
	UserDBID        int64     `json:"user_db_id"`
	GameID          int64     `json:"game_id"`
	Confirmed       bool      `json:"confirmed_attendance"`
	ParticipateTime time.Time `json:"participate_time"`
	FirstName       string    `json:"first_name"`
	LastName        *string   `json:"last_name,omitempty"`
	UserName        *string   `json:"username,omitempty"`
	IsGuest         bool      `json:"is_guest"`
}

type Joke struct {
	ID   int64  `json:"id"`
	Text string `json:"joke"`
	Type int    `json:"type"`
}

// Joke categories. The ids are stored in curated rows and typed into the
// admin joke commands, so they are fixed.
const (
	JokeLeftGame       = 1
	JokeTagRegistered  = 2
	JokeStartGame      = 3
	JokeDeactivateGame = 4
	JokeAddGuest       = 5
	JokeInactiveNudge  = 6
	JokeDeletePlayer   = 7
	JokeTagUndecided   = 8
	JokeRandomFact     = 9
)

func ValidJokeType(t int) bool {
	return t >= JokeLeftGame && t <= JokeRandomFact
}

// AdminGroup links an admin chat to a managed chat it may remote-control.
type AdminGroup struct {
	ID          int64  `json:"id"`
	ChatID      int64  `json:"chat_id"`
	AdminChatID int64  `json:"admin_chat_id"`
	GroupName   string `json:"group_name"`
}
