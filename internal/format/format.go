// Package format renders money, dates, phone numbers and short text for
// display. Output follows the product's pt-BR locale.
package format

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

var (
	longMonths = [...]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
	shortMonths = [...]string{
		"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
		"jul.", "ago.", "set.", "out.", "nov.", "dez.",
	}
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	mobilePhone = regexp.MustCompile(`^(\d{2})(\d{5})(\d{4})$`)
)

const DefaultTruncateLength = 50

// Currency formats v as Brazilian reais, e.g. "R$ 1.234,50".
func Currency(v float64) string {
	return "R$ " + printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Date formats t as "18 de outubro de 2026". The zero time renders empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), longMonths[t.Month()-1], t.Year())
}

// DateTime formats t as "18 de out. de 2026, 14:05".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d, %02d:%02d",
		t.Day(), shortMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// ShortDateTime formats t without the year, as shown on suggestion cards.
func ShortDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s, %02d:%02d", t.Day(), shortMonths[t.Month()-1], t.Hour(), t.Minute())
}

// Phone formats an 11-digit Brazilian mobile number as "(11) 98765-4321".
// Anything else is returned unchanged.
func Phone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := nonDigits.ReplaceAllString(phone, "")
	m := mobilePhone.FindStringSubmatch(cleaned)
	if m == nil {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
}

func Percentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Truncate shortens text to length runes and appends "...". A length of
// zero or less uses DefaultTruncateLength.
func Truncate(text string, length int) string {
	if length <= 0 {
		length = DefaultTruncateLength
	}
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}

// Greeting returns the salutation for the given hour of day (0-23).
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Bom dia"
	case hour < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}
