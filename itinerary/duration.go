package itinerary

import (
	"fmt"
	"strings"
	"time"
)

// PluralForm is the grammatical number of a counted unit.
type PluralForm int

const (
	FormOne PluralForm = iota
	FormFew
	FormMany
)

// RussianPlural picks the form for n: 11-14 (mod 100) take "many", otherwise
// a last digit of 1 takes "one", 2-4 take "few" and the rest "many".
func RussianPlural(n int) PluralForm {
	if n < 0 {
		n = -n
	}
	if mod100 := n % 100; mod100 >= 11 && mod100 <= 14 {
		return FormMany
	}
	switch last := n % 10; {
	case last == 1:
		return FormOne
	case last >= 2 && last <= 4:
		return FormFew
	default:
		return FormMany
	}
}

// UnitWords holds a unit name in each plural form.
type UnitWords struct {
	One  string
	Few  string
	Many string
}

func (w UnitWords) pick(form PluralForm) string {
	switch form {
	case FormOne:
		return w.One
	case FormFew:
		return w.Few
	default:
		return w.Many
	}
}

// FormatDuration renders d as "H <hours>, M <minutes>". The hour part is left
// out when zero; the minute part is always present when hours are zero.
// Seconds are truncated and negative spans use their absolute value.
func (l *Locale) FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = -total
	}
	hours := int(total / 3600)
	minutes := int(total % 3600 / 60)

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, l.Hours.pick(l.plural(hours))))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, l.Minutes.pick(l.plural(minutes))))
	}
	return strings.Join(parts, ", ")
}
