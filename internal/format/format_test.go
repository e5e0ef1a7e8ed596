package format

import (
	"strings"
	"testing"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
)

func str(s string) *string { return &s }

func TestMention(t *testing.T) {
	withHandle := models.User{FirstName: "Камран", UserName: str("kamran")}
	if got := Mention(withHandle); got != "@kamran" {
		t.Errorf("got %q", got)
	}
	noHandle := models.User{FirstName: "Камран", LastName: str("Алиев")}
	if got := Mention(noHandle); got != "Камран Алиев" {
		t.Errorf("got %q", got)
	}
}

func TestTagUsers(t *testing.T) {
	users := []models.User{
		{FirstName: "А", UserName: str("a")},
		{FirstName: "Б"},
		{FirstName: "В", UserName: str("v")},
	}
	if got := TagUsers(users); got != "@a, Б, @v" {
		t.Errorf("got %q", got)
	}
}

func TestListUsers(t *testing.T) {
	users := []models.User{
		{FirstName: "Анар", UserName: str("anar")},
		{FirstName: "Борис", LastName: str("Петров")},
	}
	got := ListUsers(users)
	if !strings.Contains(got, "1. Анар (@anar)") || !strings.Contains(got, "2. Борис Петров") {
		t.Errorf("got %q", got)
	}
}

func roster(n int, confirmed ...bool) []models.GamePlayer {
	players := make([]models.GamePlayer, n)
	for i := range players {
		players[i].FirstName = string(rune('A' + i))
		players[i].Confirmed = confirmed[i]
	}
	return players
}

// The wait-list marker sits exactly at the index equal to the limit; nothing
// rejects attendees past it.
func TestRosterWaitListMarker(t *testing.T) {
	players := roster(4, true, true, true, false)
	got := Roster(players, 2)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if lines[2] != waitListMarker {
		t.Errorf("marker at wrong line: %q", lines)
	}
	if !strings.HasPrefix(lines[3], "3. ") {
		t.Errorf("numbering broken after marker: %q", lines[3])
	}
}

func TestRosterNoMarkerUnderLimit(t *testing.T) {
	players := roster(2, true, false)
	got := Roster(players, 5)
	if strings.Contains(got, waitListMarker) {
		t.Errorf("marker shown under the limit: %q", got)
	}
	if !strings.Contains(got, "Свободных мест: 3") {
		t.Errorf("remaining count wrong: %q", got)
	}
}

func TestRosterRemainingFlooredAtZero(t *testing.T) {
	players := roster(3, true, true, true)
	got := Roster(players, 2)
	if !strings.Contains(got, "Свободных мест: 0") {
		t.Errorf("remaining not floored: %q", got)
	}
}

func TestPlayersDigest(t *testing.T) {
	last := "Алиев"
	players := []models.GamePlayer{
		{FirstName: "Анар", LastName: &last, Confirmed: true},
		{FirstName: "Борис", Confirmed: false},
		{FirstName: "Гость", Confirmed: true, IsGuest: true},
	}
	got := PlayersDigest(players, 2)
	lines := strings.Split(got, "\n")
	want := []string{
		"\t✅ Анар Алиев",
		"\t❓ Борис",
		"--------------Wait list--------------",
		"\t✅ Гость (гость)",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPlayersDigestNoMarkerUnderLimit(t *testing.T) {
	got := PlayersDigest(roster(2, true, true), 5)
	if strings.Contains(got, "Wait list") {
		t.Errorf("marker shown under the limit: %q", got)
	}
}

func TestRosterMarksUndecidedAndGuests(t *testing.T) {
	players := []models.GamePlayer{
		{FirstName: "Анар", Confirmed: true},
		{FirstName: "Гость", IsGuest: true, Confirmed: true},
		{FirstName: "Борис", Confirmed: false},
	}
	got := Roster(players, 10)
	if !strings.Contains(got, "гость") {
		t.Errorf("guest not marked: %q", got)
	}
	if !strings.Contains(got, "Борис") || !strings.Contains(got, "❓") {
		t.Errorf("undecided not marked: %q", got)
	}
}
