package handlers

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
)

// DirectMessage starts the free-form message flow from the main menu.
func (h *Handlers) DirectMessage(c tele.Context) error {
	userID := c.Sender().ID
	if _, err := h.users.ByTelegramID(tghelpers.BuildContext(c), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendText(c, textNotRegistered)
		}
		return fmt.Errorf("direct message lookup: %w", err)
	}

	h.sessions.SetState(userID, StateDirectText)
	return tghelpers.SendText(c, textDirectAsk, &tele.SendOptions{ReplyMarkup: cancelDirectKeyboard()})
}

// CancelDirectMessage abandons the flow.
func (h *Handlers) CancelDirectMessage(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	return tghelpers.EditOrSendHTML(c, textDirectCancelled)
}

// directText forwards the message to all admins along with the sender's
// profile, then confirms to the user. The profile lookup is best effort.
func (h *Handlers) directText(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	user, err := h.users.ByTelegramID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return tghelpers.SendText(c, textGenericError)
	}

	h.notifier.DirectMessage(ctx, user, userID, c.Sender().Username, c.Text())
	h.sessions.Clear(userID)
	return tghelpers.SendHTML(c, textDirectSent, mainMenuKeyboard())
}
