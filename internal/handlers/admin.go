package handlers

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/telegram/callbacks"
	"github.com/m3rciful/pickupbot/core/telegram/format"
	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
	"github.com/m3rciful/pickupbot/internal/service"
	"github.com/m3rciful/pickupbot/internal/validate"
)

// Admin opens the admin panel. The /admin command itself is wrapped with the
// admin-only middleware; callbacks re-check because they are routed globally.
func (h *Handlers) Admin(c tele.Context) error {
	return tghelpers.SendHTML(c, textAdminPanel, adminMenuKeyboard())
}

// AdminDenied is the rejection notice for non-admins.
func (h *Handlers) AdminDenied(c tele.Context) error {
	return tghelpers.SendText(c, textAdminDenied)
}

func (h *Handlers) requireAdmin(c tele.Context) bool {
	if h.isAdmin(c.Sender().ID) {
		return true
	}
	_ = c.Respond(&tele.CallbackResponse{Text: textAdminDenied})
	return false
}

// AdminAddOrder starts the manual order entry dialog.
func (h *Handlers) AdminAddOrder(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	h.sessions.SetState(c.Sender().ID, StateAdminName)
	return tghelpers.EditOrSendHTML(c, textAdminAskName)
}

func (h *Handlers) adminName(c tele.Context) error {
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempName, c.Text())
	h.sessions.SetState(userID, StateAdminPhone)
	return tghelpers.SendHTML(c, textAdminAskPhone)
}

func (h *Handlers) adminPhone(c tele.Context) error {
	phone := strings.TrimSpace(c.Text())
	if !validate.Phone(phone) {
		return tghelpers.SendText(c, textAdminBadPhone)
	}
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempPhone, phone)
	h.sessions.SetState(userID, StateAdminAddress)
	return tghelpers.SendHTML(c, textAdminAskAddress)
}

func (h *Handlers) adminAddress(c tele.Context) error {
	userID := c.Sender().ID
	h.sessions.SetTemp(userID, tempAddress, c.Text())
	h.sessions.SetState(userID, StateAdminTime)
	return tghelpers.SendHTML(c, textAdminAskTime)
}

// adminTime is the terminal step: the contact row and its order are written
// in one transaction. On persistence failure nothing is committed and the
// session is kept for a retry.
func (h *Handlers) adminTime(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	name, _ := h.sessions.GetTemp(userID, tempName)
	phone, _ := h.sessions.GetTemp(userID, tempPhone)
	address, _ := h.sessions.GetTemp(userID, tempAddress)
	descriptor := c.Text()

	contact := service.NewContact(name, phone, address)
	order, err := h.orders.CreateForContact(ctx, contact, descriptor)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}

	h.sessions.Clear(userID)
	return tghelpers.SendHTML(c, fmt.Sprintf(
		"✅ Заявка <b>#%d</b> создана!\n"+
			"▪️ Пользователь: %s\n"+
			"▪️ Телефон: %s\n"+
			"▪️ Время: %s",
		order.ID,
		format.EscapeHTML(contact.Name),
		format.EscapeHTML(contact.Phone),
		format.EscapeHTML(descriptor),
	), adminOrdersButton())
}

// AdminOrders shows the listing entry: the two partitions are browsed
// separately and never mixed.
func (h *Handlers) AdminOrders(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	_, activePages, err := h.orders.Page(ctx, false, 0)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}
	_, donePages, err := h.orders.Page(ctx, true, 0)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}
	if activePages == 0 && donePages == 0 {
		return tghelpers.EditOrSendHTML(c, textAdminOrdersEmpty, adminBackKeyboard())
	}

	return tghelpers.EditOrSendHTML(c, "📋 <b>Список заявок</b>\n\nВыберите раздел:", adminPartitionsKeyboard())
}

// AdminOrdersPage renders one page of a partition.
func (h *Handlers) AdminOrdersPage(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}

	data := callbacks.Data(c)
	done := strings.HasPrefix(data, prefixAdminOrdersDone)
	prefix := prefixAdminOrdersActive
	if done {
		prefix = prefixAdminOrdersDone
	}
	page64, err := callbacks.ParseID(data, prefix)
	if err != nil || page64 < 0 {
		return c.Respond(&tele.CallbackResponse{Text: textOrderGone})
	}
	page := int(page64)

	ctx := tghelpers.BuildContext(c)
	orders, pages, err := h.orders.Page(ctx, done, page)
	if err != nil {
		return tghelpers.SendText(c, textGenericError)
	}
	if len(orders) == 0 {
		return tghelpers.EditOrSendHTML(c, textAdminOrdersEmpty, adminBackKeyboard())
	}

	title := "🗂 <b>Активные заявки</b>"
	if done {
		title = "✅ <b>Исполненные заявки</b>"
	}
	header := fmt.Sprintf("%s (страница %d из %d):", title, page+1, pages)
	return tghelpers.EditOrSendHTML(c, header, ordersPageKeyboard(orders, done, page, pages))
}

// OrderDetail shows one order with status-change buttons.
func (h *Handlers) OrderDetail(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	orderID, err := callbacks.ParseID(callbacks.Data(c), prefixOrderDetail)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверный формат ID заявки."})
	}

	ctx := tghelpers.BuildContext(c)
	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.EditOrSendHTML(c, textOrderGone, adminOrdersButton())
		}
		return tghelpers.SendText(c, textGenericError)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>📄 Заявка #%d</b>\n", order.ID)
	fmt.Fprintf(&b, "▪ Пользователь: %s\n", format.EscapeHTML(order.UserName))
	if order.UserUsername.Valid && order.UserUsername.String != "" {
		fmt.Fprintf(&b, "▪ Тег: @%s\n", format.EscapeHTML(order.UserUsername.String))
	}
	fmt.Fprintf(&b, "▪ Контакты: %s\n", format.EscapeHTML(order.UserPhone))
	fmt.Fprintf(&b, "▪ Время: %s\n", format.EscapeHTML(order.PreferredTime))
	fmt.Fprintf(&b, "▪ Статус: %s\n", order.Status.WithEmoji())
	fmt.Fprintf(&b, "▪ Время создания: %s\n", order.CreatedAt.In(h.orders.Location()).Format("2006-01-02 15:04"))
	completed := "Не изменялся"
	if order.CompletedAt.Valid {
		completed = order.CompletedAt.Time.In(h.orders.Location()).Format("2006-01-02 15:04")
	}
	fmt.Fprintf(&b, "▪ Время изменения статуса: %s", completed)

	return tghelpers.EditOrSendHTML(c, b.String(), statusKeyboard(order))
}

// SetStatus transitions an order. The status literal rides in the token
// verbatim, underscores and all, after the numeric id.
func (h *Handlers) SetStatus(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	orderID, literal, err := callbacks.ParseIDAndLabel(callbacks.Data(c), prefixSetStatus)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Ошибка: неверный формат данных."})
	}

	ctx := tghelpers.BuildContext(c)
	order, err := h.orders.SetStatus(ctx, orderID, models.Status(literal))
	switch {
	case errors.Is(err, domain.ErrUnknownStatus):
		return c.Respond(&tele.CallbackResponse{Text: "❌ Ошибка: неверный формат данных."})
	case errors.Is(err, domain.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: textOrderGone})
	case err != nil:
		return c.Respond(&tele.CallbackResponse{Text: "❌ Произошла ошибка при изменении статуса."})
	}

	changedAt := h.orders.Now()
	if order.CompletedAt.Valid {
		changedAt = order.CompletedAt.Time
	}
	return tghelpers.EditOrSendHTML(c, fmt.Sprintf(
		"✅ Статус заявки #%d изменен на: %s\n"+
			"🕒 Время изменения: %s",
		order.ID, order.Status,
		changedAt.In(h.orders.Location()).Format("2006-01-02 15:04"),
	), adminOrdersButton())
}

// AdminHelp shows the admin reference screen.
func (h *Handlers) AdminHelp(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return tghelpers.EditOrSendHTML(c, textAdminHelp, adminBackKeyboard())
}

// AdminBack returns to the admin panel root.
func (h *Handlers) AdminBack(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return tghelpers.EditOrSendHTML(c, textAdminPanel, adminMenuKeyboard())
}
