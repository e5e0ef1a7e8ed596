package declension

import "testing"

func TestDecline(t *testing.T) {
	cases := []struct {
		label string
		c     Case
		want  string
	}{
		{"понедельник", Accusative, "понедельник"},
		{"среда", Accusative, "среду"},
		{"пятница", Accusative, "пятницу"},
		{"воскресенье", Genitive, "воскресенья"},
		{"четверг", Instrumental, "четвергом"},
		{"суббота", Prepositional, "субботе"},
		{"Вторник", Accusative, "вторник"},
		{"  ПЯТНИЦА  ", Dative, "пятнице"},
	}
	for _, tc := range cases {
		if got := Decline(tc.label, tc.c); got != tc.want {
			t.Errorf("Decline(%q, %d) = %q, want %q", tc.label, tc.c, got, tc.want)
		}
	}
}

func TestDeclineUnknownLabel(t *testing.T) {
	if got := Decline("турнир", Accusative); got != "турнир" {
		t.Errorf("got %q, want unknown labels back unchanged", got)
	}
}

func TestAzerbaijani(t *testing.T) {
	if got := Azerbaijani("понедельник"); got != "bazar ertəsi" {
		t.Errorf("got %q", got)
	}
	if got := AzerbaijaniFull("суббота"); got != "şənbə günü" {
		t.Errorf("got %q", got)
	}
	if got := Azerbaijani("турнир"); got != "турнир" {
		t.Errorf("got %q, want unknown labels back unchanged", got)
	}
}
