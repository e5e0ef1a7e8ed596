package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
)

func TestParseGameArgs(t *testing.T) {
	input, err := parseGameArgs("01.01.2025/18:00/20:00/12/Зал №1/понедельник", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.GameDate.Format("02.01.2006") != "01.01.2025" {
		t.Errorf("date = %v", input.GameDate)
	}
	if input.GameStarts != "18:00" || input.GameEnds != "20:00" {
		t.Errorf("times = %q–%q", input.GameStarts, input.GameEnds)
	}
	if input.UsersLimit != 12 || input.Place != "Зал №1" || input.Label != "понедельник" {
		t.Errorf("limit=%d place=%q label=%q", input.UsersLimit, input.Place, input.Label)
	}
}

func TestParseGameArgsRejects(t *testing.T) {
	cases := []struct {
		name string
		args string
	}{
		{"too few fields", "01.01.2025/18:00/20:00/12/Зал"},
		{"too many fields", "01.01.2025/18:00/20:00/12/Зал/понедельник/лишнее"},
		{"bad date", "2025-01-01/18:00/20:00/12/Зал/понедельник"},
		{"bad time", "01.01.2025/18.00/20:00/12/Зал/понедельник"},
		{"bad limit", "01.01.2025/18:00/20:00/двенадцать/Зал/понедельник"},
		{"zero limit", "01.01.2025/18:00/20:00/0/Зал/понедельник"},
		{"empty label", "01.01.2025/18:00/20:00/12/Зал/"},
	}
	for _, tc := range cases {
		if _, err := parseGameArgs(tc.args, time.UTC); !errors.Is(err, models.ErrValidation) {
			t.Errorf("%s: err=%v, want validation error", tc.name, err)
		}
	}
}

func TestParseJokeArgs(t *testing.T) {
	parts, err := parseJokeArgs("1///текст шутки", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts[0] != "1" || parts[1] != "текст шутки" {
		t.Errorf("parts = %v", parts)
	}
	if _, err := parseJokeArgs("1///", 2); err == nil {
		t.Errorf("empty field accepted")
	}
	if _, err := parseJokeArgs("только текст", 2); err == nil {
		t.Errorf("missing delimiter accepted")
	}
}

func TestArgsAfter(t *testing.T) {
	if got := argsAfter("/startgame 01.01.2025/18:00"); got != "01.01.2025/18:00" {
		t.Errorf("got %q", got)
	}
	if got := argsAfter("/showgames"); got != "" {
		t.Errorf("got %q, want empty for bare command", got)
	}
}

// Malformed numeric payload suffixes coerce to 0 and proceed, they never
// fail the parse.
func TestParseInt64Coercion(t *testing.T) {
	cases := map[string]int64{
		"42":       42,
		"-100500":  -100500,
		"":         0,
		"abc":      0,
		"12abc":    0,
		"1_2":      0,
	}
	for in, want := range cases {
		if got := parseInt64(in); got != want {
			t.Errorf("parseInt64(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePair(t *testing.T) {
	chatID, gameID := parsePair("-100123_45")
	if chatID != -100123 || gameID != 45 {
		t.Errorf("got (%d, %d)", chatID, gameID)
	}
	chatID, gameID = parsePair("garbage")
	if chatID != 0 || gameID != 0 {
		t.Errorf("malformed pair = (%d, %d), want zeros", chatID, gameID)
	}
}

func TestIsTopicError(t *testing.T) {
	if !isTopicError(errors.New("Bad Request: message thread not found")) {
		t.Errorf("thread error not recognized")
	}
	if isTopicError(errors.New("Forbidden: bot was blocked by the user")) {
		t.Errorf("unrelated error treated as topic failure")
	}
}
