package itinerary

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRussianPlural(t *testing.T) {
	tests := []struct {
		n    int
		want PluralForm
	}{
		{0, FormMany},
		{1, FormOne},
		{2, FormFew},
		{4, FormFew},
		{5, FormMany},
		{11, FormMany},
		{12, FormMany},
		{13, FormMany},
		{14, FormMany},
		{21, FormOne},
		{22, FormFew},
		{25, FormMany},
		{101, FormOne},
		{111, FormMany},
		{112, FormMany},
		{114, FormMany},
		{1011, FormMany},
		{-3, FormFew},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, RussianPlural(tt.n))
		})
	}
}

func TestRussianPlural_TeensAlwaysMany(t *testing.T) {
	for hundreds := 0; hundreds < 2000; hundreds += 100 {
		for teen := 11; teen <= 14; teen++ {
			assert.Equal(t, FormMany, RussianPlural(hundreds+teen), hundreds+teen)
		}
	}
}

func TestFormatDuration_Russian(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 минут"},
		{59 * time.Second, "0 минут"},
		{time.Minute, "1 минуту"},
		{2 * time.Minute, "2 минуты"},
		{5 * time.Minute, "5 минут"},
		{11 * time.Minute, "11 минут"},
		{21 * time.Minute, "21 минуту"},
		{time.Hour, "1 час"},
		{2 * time.Hour, "2 часа"},
		{5 * time.Hour, "5 часов"},
		{11 * time.Hour, "11 часов"},
		{21 * time.Hour, "21 час"},
		{22*time.Hour + 3*time.Minute, "22 часа, 3 минуты"},
		{time.Hour + 45*time.Minute, "1 час, 45 минут"},
		{-(time.Hour + 30*time.Minute), "1 час, 30 минут"},
		{111 * time.Hour, "111 часов"},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Russian.FormatDuration(tt.d))
		})
	}
}

func TestFormatDuration_English(t *testing.T) {
	assert.Equal(t, "0 minutes", English.FormatDuration(0))
	assert.Equal(t, "1 minute", English.FormatDuration(time.Minute))
	assert.Equal(t, "1 hour", English.FormatDuration(time.Hour))
	assert.Equal(t, "2 hours, 21 minutes", English.FormatDuration(2*time.Hour+21*time.Minute))
	assert.Equal(t, "11 hours, 1 minute", English.FormatDuration(11*time.Hour+time.Minute))
}

func TestLocaleFor(t *testing.T) {
	assert.Same(t, Russian, LocaleFor(""))
	assert.Same(t, Russian, LocaleFor("ru"))
	assert.Same(t, Russian, LocaleFor("ru-KZ"))
	assert.Same(t, English, LocaleFor("en"))
	assert.Same(t, English, LocaleFor("en-GB"))
	assert.Same(t, Russian, LocaleFor("not a tag!"))
}
