package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes user-provided text for Telegram HTML parse mode.
// Telegram only requires the three characters below to be escaped.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Bold wraps text in HTML bold tags without escaping it.
func Bold(text string) string {
	return "<b>" + text + "</b>"
}

// Code wraps text in HTML code tags without escaping it.
func Code(text string) string {
	return "<code>" + text + "</code>"
}
