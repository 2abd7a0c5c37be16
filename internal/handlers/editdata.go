package handlers

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/validate"
)

// EditData opens the profile-edit submenu.
func (h *Handlers) EditData(c tele.Context) error {
	userID := c.Sender().ID
	if _, err := h.users.ByTelegramID(tghelpers.BuildContext(c), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendText(c, textNotRegistered)
		}
		return fmt.Errorf("edit menu lookup: %w", err)
	}

	h.sessions.SetState(userID, StateEditChoose)
	return tghelpers.SendHTML(c, textEditChoose, editMenuKeyboard())
}

// editChoose dispatches the submenu choice. Labels are matched exactly;
// anything else re-shows the submenu.
func (h *Handlers) editChoose(c tele.Context) error {
	userID := c.Sender().ID
	switch c.Text() {
	case btnEditPhone:
		h.sessions.SetState(userID, StateEditPhone)
		return tghelpers.SendText(c, textEditAskPhone)
	case btnEditAddress:
		h.sessions.SetState(userID, StateEditAddress)
		return tghelpers.SendText(c, textEditAskAddress)
	case btnEditName:
		h.sessions.SetState(userID, StateEditName)
		return tghelpers.SendText(c, textEditAskName)
	case btnEditOrg:
		h.sessions.SetState(userID, StateEditOrg)
		return tghelpers.SendText(c, textEditAskOrg)
	case btnEditBack:
		h.sessions.Clear(userID)
		return tghelpers.SendText(c, textEditBackDone, &tele.SendOptions{ReplyMarkup: mainMenuKeyboard()})
	}
	return tghelpers.SendHTML(c, textEditChoose, editMenuKeyboard())
}

func (h *Handlers) editPhone(c tele.Context) error {
	return h.editField(c, c.Text(), h.users.UpdatePhone, "📞 Телефон изменён на: %s", validatePhoneInput)
}

func (h *Handlers) editAddress(c tele.Context) error {
	return h.editField(c, c.Text(), h.users.UpdateAddress, "🏠 Адрес изменён на: %s", validateAddressInput)
}

func (h *Handlers) editName(c tele.Context) error {
	return h.editField(c, c.Text(), h.users.UpdateName, "👤 Имя изменено на: %s", validateNameInput)
}

func (h *Handlers) editOrganization(c tele.Context) error {
	return h.editField(c, c.Text(), h.users.UpdateOrganization, "🏢 Организация изменена на: %s", nil)
}

// editField runs one single-field update: validate, persist, confirm with
// the main menu. A validation failure re-prompts in place.
func (h *Handlers) editField(c tele.Context, value string, update func(ctx context.Context, telegramID int64, v string) error, confirmFmt string, check func(string) (string, bool)) error {
	if check != nil {
		if msg, ok := check(value); !ok {
			return tghelpers.SendText(c, msg)
		}
	}

	userID := c.Sender().ID
	if err := update(tghelpers.BuildContext(c), userID, value); err != nil {
		return tghelpers.SendText(c, textGenericError)
	}

	h.sessions.Clear(userID)
	return tghelpers.SendText(c,
		fmt.Sprintf(confirmFmt, value),
		&tele.SendOptions{ReplyMarkup: mainMenuKeyboard()},
	)
}

func validatePhoneInput(v string) (string, bool) {
	if !validate.Phone(v) {
		return textBadPhone, false
	}
	return "", true
}

func validateNameInput(v string) (string, bool) {
	if !validate.Name(v) {
		return textBadName, false
	}
	return "", true
}

func validateAddressInput(v string) (string, bool) {
	if !validate.Address(v) {
		return textBadAddress, false
	}
	return "", true
}
