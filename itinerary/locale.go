package itinerary

import (
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Locale holds the words and templates an itinerary is rendered with.
type Locale struct {
	Tag     language.Tag
	Months  map[time.Month]string
	Hours   UnitWords
	Minutes UnitWords
	// Layover wraps the formatted layover duration.
	Layover string
	// NoSegments is the whole output when nothing was recognized.
	NoSegments string
	// Header is printed by interactive front ends above the itinerary.
	Header string

	plural func(n int) PluralForm
}

// Russian is the default locale.
var Russian = &Locale{
	Tag: language.Russian,
	Months: map[time.Month]string{
		time.January:   "янв.",
		time.February:  "февр.",
		time.March:     "мар.",
		time.April:     "апр.",
		time.May:       "мая",
		time.June:      "июн.",
		time.July:      "июл.",
		time.August:    "авг.",
		time.September: "сент.",
		time.October:   "окт.",
		time.November:  "нояб.",
		time.December:  "дек.",
	},
	Hours:      UnitWords{One: "час", Few: "часа", Many: "часов"},
	Minutes:    UnitWords{One: "минуту", Few: "минуты", Many: "минут"},
	Layover:    "_Пересадка %s_",
	NoSegments: "⚠️ Сегменты не распознаны.",
	Header:     "✈️ Вариант 1 ✈️",
	plural:     RussianPlural,
}

// English uses CLDR plural rules from x/text.
var English = &Locale{
	Tag: language.English,
	Months: map[time.Month]string{
		time.January:   "Jan",
		time.February:  "Feb",
		time.March:     "Mar",
		time.April:     "Apr",
		time.May:       "May",
		time.June:      "Jun",
		time.July:      "Jul",
		time.August:    "Aug",
		time.September: "Sep",
		time.October:   "Oct",
		time.November:  "Nov",
		time.December:  "Dec",
	},
	Hours:      UnitWords{One: "hour", Few: "hours", Many: "hours"},
	Minutes:    UnitWords{One: "minute", Few: "minutes", Many: "minutes"},
	Layover:    "_Layover %s_",
	NoSegments: "⚠️ No segments recognized.",
	Header:     "✈️ Option 1 ✈️",
	plural:     cldrPlural(language.English),
}

var (
	locales       = []*Locale{Russian, English}
	localeMatcher = language.NewMatcher([]language.Tag{language.Russian, language.English})
)

// LocaleFor returns the supported locale closest to a BCP 47 name such as
// "ru" or "en-GB". Unknown or empty names get Russian.
func LocaleFor(name string) *Locale {
	tag, err := language.Parse(name)
	if err != nil {
		return Russian
	}
	_, idx, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return Russian
	}
	return locales[idx]
}

func cldrPlural(tag language.Tag) func(int) PluralForm {
	return func(n int) PluralForm {
		if n < 0 {
			n = -n
		}
		switch plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0) {
		case plural.One:
			return FormOne
		case plural.Few:
			return FormFew
		default:
			return FormMany
		}
	}
}
