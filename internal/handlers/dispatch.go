package handlers

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
)

// InProgress reports whether the user has an active dialog.
func (h *Handlers) InProgress(userID int64) bool {
	return h.sessions.InProgress(userID)
}

// ManagerHandler routes an in-progress message to its dialog step. The menu
// and command routers are only consulted when no dialog is active, so a
// dialog always owns the user's text until it completes or is reset.
func (h *Handlers) ManagerHandler(c tele.Context) error {
	switch h.sessions.GetState(c.Sender().ID) {
	case StateRegName:
		return h.regName(c)
	case StateRegPhone:
		return h.regPhone(c)
	case StateRegAddress:
		return h.regAddress(c)
	case StateRegOrg:
		return h.regOrganization(c)

	case StateOrderDay:
		// Day is chosen with inline buttons; free text re-prompts.
		return tghelpers.SendText(c, textChooseDay, &tele.SendOptions{ReplyMarkup: chooseDayKeyboard()})
	case StateOrderTime:
		return h.orderTime(c)
	case StateOrderConfirm:
		return tghelpers.SendText(c, textFallback)

	case StateEditChoose:
		return h.editChoose(c)
	case StateEditPhone:
		return h.editPhone(c)
	case StateEditAddress:
		return h.editAddress(c)
	case StateEditName:
		return h.editName(c)
	case StateEditOrg:
		return h.editOrganization(c)

	case StateAdminName:
		return h.adminName(c)
	case StateAdminPhone:
		return h.adminPhone(c)
	case StateAdminAddress:
		return h.adminAddress(c)
	case StateAdminTime:
		return h.adminTime(c)

	case StateDirectText:
		return h.directText(c)
	}
	return h.Fallback(c)
}
