package helpers

import (
	"strconv"
	"strings"
)

// ParseClock parses strict "HH:MM" input used in Telegram dialogs.
// Both fields must be plain digits; hours 0-23, minutes 0-59, leading
// zeroes optional.
func ParseClock(input string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(input), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, okH := parseDigits(parts[0])
	m, okM := parseDigits(parts[1])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func parseDigits(s string) (int, bool) {
	if s == "" || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// FormatClock renders an hour/minute pair back to zero-padded "HH:MM".
func FormatClock(hour, minute int) string {
	var b strings.Builder
	if hour < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(hour))
	b.WriteByte(':')
	if minute < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(minute))
	return b.String()
}
