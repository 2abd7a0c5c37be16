// Package validate holds the input validators for dialog steps. Inputs are
// trimmed before validation; failures must re-prompt without a state change.
package validate

import (
	"regexp"
	"strings"

	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
)

var (
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	nameRe  = regexp.MustCompile(`^[a-zA-Zа-яА-Я\s-]+$`)
)

// Phone accepts an optional leading plus followed by 7 to 15 digits, the
// first of which is non-zero.
func Phone(phone string) bool {
	return phoneRe.MatchString(strings.TrimSpace(phone))
}

// Name accepts 2 to 50 characters of Latin or Cyrillic letters, spaces and
// hyphens.
func Name(name string) bool {
	trimmed := strings.TrimSpace(name)
	n := len([]rune(trimmed))
	return n >= 2 && n <= 50 && nameRe.MatchString(trimmed)
}

// Address accepts 5 to 200 characters.
func Address(address string) bool {
	n := len([]rune(strings.TrimSpace(address)))
	return n >= 5 && n <= 200
}

// Clock parses strict HH:MM input with hours 0-23 and minutes 0-59.
func Clock(input string) (hour, minute int, ok bool) {
	return tghelpers.ParseClock(input)
}
