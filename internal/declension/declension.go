// Package declension holds the grammatical case tables for the weekday game
// labels: Russian case inflection plus the Azerbaijani weekday names used in
// bilingual messages.
package declension

import "strings"

type Case int

const (
	Nominative Case = iota
	Genitive
	Dative
	Accusative
	Instrumental
	Prepositional
)

var russian = map[string][6]string{
	"понедельник": {"понедельник", "понедельника", "понедельнику", "понедельник", "понедельником", "понедельнике"},
	"вторник":     {"вторник", "вторника", "вторнику", "вторник", "вторником", "вторнике"},
	"среда":       {"среда", "среды", "среде", "среду", "средой", "среде"},
	"четверг":     {"четверг", "четверга", "четвергу", "четверг", "четвергом", "четверге"},
	"пятница":     {"пятница", "пятницы", "пятнице", "пятницу", "пятницей", "пятнице"},
	"суббота":     {"суббота", "субботы", "субботе", "субботу", "субботой", "субботе"},
	"воскресенье": {"воскресенье", "воскресенья", "воскресенью", "воскресенье", "воскресеньем", "воскресенье"},
}

var azerbaijani = map[string]string{
	"понедельник": "bazar ertəsi",
	"вторник":     "çərşənbə axşamı",
	"среда":       "çərşənbə",
	"четверг":     "cümə axşamı",
	"пятница":     "cümə",
	"суббота":     "şənbə",
	"воскресенье": "bazar",
}

// Decline returns the requested case form of a weekday label. Labels that are
// not weekdays come back unchanged, lower-cased lookup.
func Decline(label string, c Case) string {
	forms, ok := russian[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return label
	}
	if c < Nominative || c > Prepositional {
		return forms[Nominative]
	}
	return forms[c]
}

// Azerbaijani returns the Azerbaijani weekday name for a Russian label, or
// the label itself when it is not a weekday.
func Azerbaijani(label string) string {
	word, ok := azerbaijani[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return label
	}
	return word
}

// AzerbaijaniFull returns the long form used in standalone sentences.
func AzerbaijaniFull(label string) string {
	word, ok := azerbaijani[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return label
	}
	return word + " günü"
}
