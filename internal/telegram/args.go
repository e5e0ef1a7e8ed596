package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kamran134/fortuna-telegram-bot/internal/models"
	"github.com/kamran134/fortuna-telegram-bot/internal/service"
)

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// argsAfter returns everything after the command token.
func argsAfter(raw string) string {
	idx := strings.IndexAny(raw, " \n")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(raw[idx+1:])
}

// parseGameArgs parses the six slash-delimited fields of a game
// announcement: DD.MM.YYYY/HH:MM/HH:MM/limit/place/label.
func parseGameArgs(args string, loc *time.Location) (service.CreateGameInput, error) {
	var input service.CreateGameInput
	parts := strings.Split(args, "/")
	if len(parts) != 6 {
		return input, fmt.Errorf("expected 6 fields: %w", models.ErrValidation)
	}
	date, err := time.ParseInLocation("02.01.2006", strings.TrimSpace(parts[0]), loc)
	if err != nil {
		return input, fmt.Errorf("game_date: %w", models.ErrValidation)
	}
	starts := strings.TrimSpace(parts[1])
	ends := strings.TrimSpace(parts[2])
	if !timePattern.MatchString(starts) || !timePattern.MatchString(ends) {
		return input, fmt.Errorf("game time: %w", models.ErrValidation)
	}
	limit, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil || limit <= 0 {
		return input, fmt.Errorf("users_limit: %w", models.ErrValidation)
	}
	place := strings.TrimSpace(parts[4])
	label := strings.TrimSpace(parts[5])
	if place == "" || label == "" {
		return input, fmt.Errorf("place/label: %w", models.ErrValidation)
	}
	input.GameDate = date
	input.GameStarts = starts
	input.GameEnds = ends
	input.UsersLimit = limit
	input.Place = place
	input.Label = label
	return input, nil
}

// parseJokeArgs splits the triple-slash joke syntax: type///text or
// id///type///text for edits.
func parseJokeArgs(args string, wantFields int) ([]string, error) {
	parts := strings.Split(args, "///")
	if len(parts) != wantFields {
		return nil, fmt.Errorf("expected %d fields: %w", wantFields, models.ErrValidation)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("empty field: %w", models.ErrValidation)
		}
	}
	return parts, nil
}
