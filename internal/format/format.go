// Package format renders user lists and game rosters as message text.
package format

import (
	"fmt"
	"strings"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
)

const waitListMarker = "––––– Лист ожидания –––––"

// Mention returns "@handle" when the user has one, the display name
// otherwise.
func Mention(u models.User) string {
	if u.UserName != nil && *u.UserName != "" {
		return "@" + *u.UserName
	}
	return DisplayName(u)
}

func DisplayName(u models.User) string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

// TagUsers joins mentions for a broadcast ping.
func TagUsers(users []models.User) string {
	parts := make([]string, 0, len(users))
	for _, u := range users {
		parts = append(parts, Mention(u))
	}
	return strings.Join(parts, ", ")
}

// ListUsers renders a numbered list with handles in parentheses.
func ListUsers(users []models.User) string {
	var sb strings.Builder
	for i, u := range users {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, DisplayName(u)))
		if u.UserName != nil && *u.UserName != "" {
			sb.WriteString(" (@" + *u.UserName + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func playerName(p models.GamePlayer) string {
	name := p.FirstName
	if p.LastName != nil && *p.LastName != "" {
		name += " " + *p.LastName
	}
	if p.UserName != nil && *p.UserName != "" {
		name += " (@" + *p.UserName + ")"
	}
	if p.IsGuest {
		name += " 🏐 гость"
	}
	return name
}

func playerMention(p models.GamePlayer) string {
	if p.UserName != nil && *p.UserName != "" {
		return "@" + *p.UserName
	}
	name := p.FirstName
	if p.LastName != nil && *p.LastName != "" {
		name += " " + *p.LastName
	}
	return name
}

// TagPlayers joins mentions of roster rows.
func TagPlayers(players []models.GamePlayer) string {
	parts := make([]string, 0, len(players))
	for _, p := range players {
		parts = append(parts, playerMention(p))
	}
	return strings.Join(parts, ", ")
}

// Roster renders the player list of a game. Players must already be sorted
// confirmed-first; the wait-list marker goes exactly at the index equal to
// the game limit. Capacity is informational only, the list can run past it.
func Roster(players []models.GamePlayer, limit int) string {
	var sb strings.Builder
	for i, p := range players {
		if i == limit {
			sb.WriteString(waitListMarker + "\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, playerName(p)))
		if !p.Confirmed {
			sb.WriteString(" ❓")
		}
		sb.WriteString("\n")
	}
	remaining := limit - len(players)
	if remaining < 0 {
		remaining = 0
	}
	sb.WriteString(fmt.Sprintf("\nСвободных мест: %d", remaining))
	return sb.String()
}

// PlayersDigest renders the participants block of the per-game digest: one
// line per player with the confirmation icon and the guest marker, the
// wait-list separator at the index equal to the limit. Players must already
// be sorted confirmed-first.
func PlayersDigest(players []models.GamePlayer, limit int) string {
	var sb strings.Builder
	for i, p := range players {
		if i == limit {
			sb.WriteString("--------------Wait list--------------\n")
		}
		icon := "✅"
		if !p.Confirmed {
			icon = "❓"
		}
		name := p.FirstName
		if p.LastName != nil && *p.LastName != "" {
			name += " " + *p.LastName
		}
		if p.IsGuest {
			name += " (гость)"
		}
		sb.WriteString("\t" + icon + " " + name + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NumberedPlayers renders a bare numbered list for the admin selection flows.
func NumberedPlayers(players []models.GamePlayer) string {
	var sb strings.Builder
	for i, p := range players {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, playerName(p)))
	}
	return sb.String()
}
