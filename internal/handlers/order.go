package handlers

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/service"
)

// MakeOrder starts the order dialog from the main menu.
func (h *Handlers) MakeOrder(c tele.Context) error {
	userID := c.Sender().ID
	if _, err := h.users.ByTelegramID(tghelpers.BuildContext(c), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendText(c, textNotRegistered)
		}
		return fmt.Errorf("order start lookup: %w", err)
	}

	h.sessions.SetState(userID, StateOrderDay)
	return tghelpers.SendText(c, textChooseDay, &tele.SendOptions{ReplyMarkup: chooseDayKeyboard()})
}

// ChooseDay handles the Сегодня/Завтра buttons.
func (h *Handlers) ChooseDay(c tele.Context) error {
	userID := c.Sender().ID
	if h.sessions.GetState(userID) != StateOrderDay {
		return nil
	}

	switch callbacks.Data(c) {
	case cbChooseDayToday:
		h.sessions.SetState(userID, StateOrderTime)
		return tghelpers.EditOrSendHTML(c, textAskTime, asapKeyboard())
	case cbChooseDayTomorrow:
		h.sessions.SetTemp(userID, tempDescriptor, service.DescriptorTomorrow())
		h.sessions.SetState(userID, StateOrderConfirm)
		return tghelpers.EditOrSendHTML(c,
			confirmPrompt(service.DescriptorTomorrow()),
			confirmOrderKeyboard(),
		)
	}
	return c.Respond(&tele.CallbackResponse{Text: "Некорректный выбор. Попробуйте ещё раз."})
}

// orderTime consumes the HH:MM input on the same-day path.
func (h *Handlers) orderTime(c tele.Context) error {
	input := strings.TrimSpace(c.Text())
	parts := strings.Split(input, ":")
	if len(parts) != 2 || !digitsOnly(parts[0]) || !digitsOnly(parts[1]) {
		return tghelpers.SendText(c, textBadTimeFormat)
	}
	hour, minute, ok := tghelpers.ParseClock(input)
	if !ok {
		return tghelpers.SendText(c, textBadTimeRange)
	}

	userID := c.Sender().ID
	descriptor := service.DescriptorToday(hour, minute)
	h.sessions.SetTemp(userID, tempDescriptor, descriptor)
	h.sessions.SetState(userID, StateOrderConfirm)
	return tghelpers.SendText(c, confirmPrompt(descriptor), &tele.SendOptions{ReplyMarkup: confirmOrderKeyboard()})
}

// ChooseTimeASAP resolves the "as soon as possible" button against the
// current wall clock in the operational timezone.
func (h *Handlers) ChooseTimeASAP(c tele.Context) error {
	userID := c.Sender().ID
	if h.sessions.GetState(userID) != StateOrderTime {
		return nil
	}

	hour, minute := h.orders.NowClock()
	descriptor := service.DescriptorToday(hour, minute)
	h.sessions.SetTemp(userID, tempDescriptor, descriptor)
	h.sessions.SetState(userID, StateOrderConfirm)
	return tghelpers.EditOrSendHTML(c, confirmPrompt(descriptor), confirmOrderKeyboard())
}

// ConfirmOrder is the terminal order step: the order row is written and the
// pickup wording resolved once. On persistence failure (other than quota)
// the session is kept so the confirmation can be retried.
func (h *Handlers) ConfirmOrder(c tele.Context) error {
	userID := c.Sender().ID
	if h.sessions.GetState(userID) != StateOrderConfirm {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	user, err := h.users.ByTelegramID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.sessions.Clear(userID)
			return tghelpers.EditOrSendHTML(c, textUserNotFound)
		}
		return fmt.Errorf("confirm order lookup: %w", err)
	}
	h.users.ReconcileUsername(ctx, user, c.Sender().Username)

	descriptor, _ := h.sessions.GetTemp(userID, tempDescriptor)
	order, err := h.orders.Create(ctx, user.ID, service.SourceUser, descriptor)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			h.sessions.Clear(userID)
			return tghelpers.EditOrSendHTML(c, textQuotaExceeded)
		}
		return tghelpers.SendText(c, textGenericError)
	}

	h.sessions.Clear(userID)
	pickup := service.PickupNotice(descriptor)
	h.notifier.OrderCreated(ctx, order, user, pickup)

	return tghelpers.EditOrSendHTML(c, fmt.Sprintf(
		"✅ <b>Заявка #%d</b> успешно оформлена!\n\n"+
			"📅 <b>Время заказа:</b> %s\n"+
			"🚚 %s\n\n"+
			"Спасибо за выбор нашего сервиса!",
		order.ID, descriptor, pickup,
	))
}

// CancelOrder abandons the order dialog at the confirmation step.
func (h *Handlers) CancelOrder(c tele.Context) error {
	userID := c.Sender().ID
	if h.sessions.GetState(userID) != StateOrderConfirm {
		return nil
	}
	h.sessions.Clear(userID)
	return tghelpers.EditOrSendHTML(c, textOrderCancelled)
}

// MyOrders lists the user's own orders with cancel buttons for active ones.
func (h *Handlers) MyOrders(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	user, err := h.users.ByTelegramID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendText(c, textNotRegistered)
		}
		return fmt.Errorf("my orders lookup: %w", err)
	}

	orders, err := h.orders.ListUser(ctx, user.ID)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}
	if len(orders) == 0 {
		return tghelpers.SendText(c, textMyOrdersEmpty)
	}

	var b strings.Builder
	b.WriteString("📦 Ваши заявки:\n\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "#%d — %s\nВремя: %s\nСоздана: %s\n\n",
			o.ID, o.Status.WithEmoji(), o.PreferredTime,
			o.CreatedAt.In(h.orders.Location()).Format("2006-01-02 15:04"))
	}
	return tghelpers.SendText(c, b.String(), &tele.SendOptions{ReplyMarkup: myOrdersKeyboard(orders)})
}

// CancelSpecific removes one of the user's own active orders.
func (h *Handlers) CancelSpecific(c tele.Context) error {
	orderID, err := callbacks.ParseID(callbacks.Data(c), prefixCancelSpecific)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textOrderGone})
	}
	ctx := tghelpers.BuildContext(c)

	user, err := h.users.ByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, textNotRegistered)
	}

	order, err := h.orders.Get(ctx, orderID)
	if err != nil || order.UserID != user.ID {
		return c.Respond(&tele.CallbackResponse{Text: textOrderGone})
	}

	switch err := h.orders.CancelByOwner(ctx, orderID, user.ID); {
	case errors.Is(err, domain.ErrCancelCompleted):
		return c.Respond(&tele.CallbackResponse{Text: textOrderCantCancl})
	case errors.Is(err, domain.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: textOrderGone})
	case err != nil:
		return tghelpers.SendText(c, textGenericError)
	}

	h.notifier.OrderCancelled(ctx, order.Order, user)
	return tghelpers.EditOrSendHTML(c, textOrderWithdrawn)
}

func confirmPrompt(descriptor string) string {
	return fmt.Sprintf("Вы выбрали: %s\nПодтвердить заказ?", descriptor)
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
