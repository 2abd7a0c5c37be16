package handlers

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
)

// Fallback answers any text that matches no menu entry, command or dialog.
func (h *Handlers) Fallback(c tele.Context) error {
	return tghelpers.SendText(c, textFallback)
}

// RateLimited warns a user flooding the bot. Fired once per window.
func (h *Handlers) RateLimited(c tele.Context) error {
	return tghelpers.SendText(c, textRateLimited)
}

// SessionExpired tells a user their dialog timed out and restores the menu.
func (h *Handlers) SessionExpired(c tele.Context) error {
	return tghelpers.SendHTML(c, textSessionExpired, mainMenuKeyboard())
}
