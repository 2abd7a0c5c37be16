package handlers

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/telegram/format"
	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/validate"
)

// Start handles /start: registered users get the main menu, new users the
// registration entry button. Any in-progress dialog is dropped.
func (h *Handlers) Start(c tele.Context) error {
	userID := c.Sender().ID
	h.sessions.Clear(userID)

	_, err := h.users.ByTelegramID(tghelpers.BuildContext(c), userID)
	switch {
	case err == nil:
		return tghelpers.SendHTML(c, textWelcomeBack, mainMenuKeyboard())
	case errors.Is(err, domain.ErrNotFound):
		return tghelpers.SendHTML(c, textWelcomeNew, startKeyboard())
	default:
		return fmt.Errorf("start lookup: %w", err)
	}
}

// StartWork begins the registration dialog from the Старт button. The
// registration gate is re-checked here: a registered user tapping a stale
// start button goes to the main menu instead of a second registration.
func (h *Handlers) StartWork(c tele.Context) error {
	userID := c.Sender().ID

	_, err := h.users.ByTelegramID(tghelpers.BuildContext(c), userID)
	switch {
	case err == nil:
		h.sessions.Clear(userID)
		return tghelpers.SendHTML(c, textWelcomeBack, mainMenuKeyboard())
	case errors.Is(err, domain.ErrNotFound):
		h.sessions.SetState(userID, StateRegName)
		return tghelpers.EditOrSendHTML(c, textAskName)
	default:
		return fmt.Errorf("start work lookup: %w", err)
	}
}

func (h *Handlers) regName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if !validate.Name(name) {
		return tghelpers.SendText(c, textBadName)
	}
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempName, name)
	h.sessions.SetState(userID, StateRegPhone)
	return tghelpers.SendText(c, textAskPhone)
}

func (h *Handlers) regPhone(c tele.Context) error {
	phone := strings.TrimSpace(c.Text())
	if !validate.Phone(phone) {
		return tghelpers.SendText(c, textBadPhone)
	}
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempPhone, phone)
	h.sessions.SetState(userID, StateRegAddress)
	return tghelpers.SendText(c, textAskAddress)
}

func (h *Handlers) regAddress(c tele.Context) error {
	address := strings.TrimSpace(c.Text())
	if !validate.Address(address) {
		return tghelpers.SendText(c, textBadAddress)
	}
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempAddress, address)
	h.sessions.SetState(userID, StateRegOrg)
	return tghelpers.SendText(c, textAskOrganization)
}

// regOrganization is the terminal registration step: the collected fields
// are committed in one call. On persistence failure the session is kept so
// the user can retry by re-sending the organization.
func (h *Handlers) regOrganization(c tele.Context) error {
	userID := c.Sender().ID
	organization := c.Text()

	name, _ := h.sessions.GetTemp(userID, tempName)
	phone, _ := h.sessions.GetTemp(userID, tempPhone)
	address, _ := h.sessions.GetTemp(userID, tempAddress)

	_, err := h.users.Register(tghelpers.BuildContext(c), userID, c.Sender().Username, name, phone, address, organization)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}

	h.sessions.Clear(userID)
	summary := fmt.Sprintf(
		"✨ <b>Отлично, %s!</b> Ваши данные успешно сохранены! ✨\n\n"+
			"📞 <b>Телефон:</b> %s\n"+
			"🏠 <b>Адрес:</b> %s\n"+
			"🏢 <b>Организация:</b> %s\n\n"+
			"✅ Добро пожаловать в главное меню!",
		format.EscapeHTML(name),
		format.EscapeHTML(phone),
		format.EscapeHTML(address),
		format.EscapeHTML(organization),
	)
	return tghelpers.SendHTML(c, summary, mainMenuKeyboard())
}
