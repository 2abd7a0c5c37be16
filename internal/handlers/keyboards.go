package handlers

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/telegram/keyboard"
	"github.com/m3rciful/pickupbot/internal/models"
)

// Callback data tokens. These are the wire protocol of every inline button;
// tokens with a trailing underscore are prefixes completed with arguments.
const (
	cbStartWork         = "start_work"
	cbChooseDayToday    = "choose_day_today"
	cbChooseDayTomorrow = "choose_day_tomorrow"
	cbChooseTimeASAP    = "choose_time_asap"
	cbConfirmOrder      = "confirm_order"
	cbCancelOrder       = "cancel_order"
	cbCancelDirect      = "cancel_direct_message"
	cbMyOrders          = "my_orders"
	cbAdminAddOrder     = "admin_add_order"
	cbAdminOrders       = "admin_orders"
	cbAdminHelp         = "admin_help"
	cbAdminBack         = "admin_back"

	prefixCancelSpecific    = "cancel_specific_"
	prefixOrderDetail       = "order_detail_"
	prefixSetStatus         = "set_status_"
	prefixAdminOrdersActive = "admin_orders_active_"
	prefixAdminOrdersDone   = "admin_orders_done_"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnMakeOrder},
		[]string{btnMyOrders},
		[]string{btnDirectMessage},
		[]string{btnEditData},
	)
}

func editMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnEditPhone},
		[]string{btnEditAddress},
		[]string{btnEditName},
		[]string{btnEditOrg},
		[]string{btnEditBack},
	)
}

func startKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🚀 Старт", Data: cbStartWork},
	})
}

func chooseDayKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Сегодня", Data: cbChooseDayToday},
		{Text: "Завтра", Data: cbChooseDayTomorrow},
	})
}

func asapKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Ближайшее время", Data: cbChooseTimeASAP},
	})
}

func confirmOrderKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Подтвердить", Data: cbConfirmOrder},
		{Text: "Отмена", Data: cbCancelOrder},
	})
}

func cancelDirectKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Отмена", Data: cbCancelDirect},
	})
}

func adminMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Добавить заявку", Data: cbAdminAddOrder},
		{Text: "Список заявок", Data: cbAdminOrders},
		{Text: "Помощь", Data: cbAdminHelp},
	})
}

func adminOrdersButton() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Список заявок", Data: cbAdminOrders},
	})
}

func adminBackKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "↩ Назад", Data: cbAdminBack},
	})
}

func adminPartitionsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🗂 Активные", Data: prefixAdminOrdersActive + "0"},
		{Text: "✅ Исполненные", Data: prefixAdminOrdersDone + "0"},
		{Text: "↩ Назад", Data: cbAdminBack},
	})
}

func ordersPageKeyboard(orders []models.OrderWithUser, done bool, page, pages int) *tele.ReplyMarkup {
	pagePrefix := prefixAdminOrdersActive
	if done {
		pagePrefix = prefixAdminOrdersDone
	}

	var rows [][]keyboard.InlineBtn
	for _, o := range orders {
		rows = append(rows, []keyboard.InlineBtn{{
			Text: "#" + strconv.FormatInt(o.ID, 10) + " - " + string(o.Status) +
				" (" + o.CreatedAt.Format("2006-01-02 15:04") + ")",
			Data: prefixOrderDetail + strconv.FormatInt(o.ID, 10),
		}})
	}

	var nav []keyboard.InlineBtn
	if page > 0 {
		nav = append(nav, keyboard.InlineBtn{Text: "⬅️ Назад", Data: pagePrefix + strconv.Itoa(page-1)})
	}
	if page+1 < pages {
		nav = append(nav, keyboard.InlineBtn{Text: "Вперед ➡️", Data: pagePrefix + strconv.Itoa(page+1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, []keyboard.InlineBtn{{Text: "↩ Назад", Data: cbAdminOrders}})
	return keyboard.InlineButtonsRows(rows...)
}

func statusKeyboard(order *models.OrderWithUser) *tele.ReplyMarkup {
	var buttons []keyboard.InlineBtn
	for _, st := range models.AllStatuses() {
		if st == order.Status {
			continue
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text: string(st),
			Data: prefixSetStatus + strconv.FormatInt(order.ID, 10) + "_" + string(st),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{
		{Text: "↩ Назад", Data: cbAdminOrders},
	})
	return markup
}

func myOrdersKeyboard(orders []models.Order) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for _, o := range orders {
		if o.Status.Done() {
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text: "❌ Отменить #" + strconv.FormatInt(o.ID, 10),
			Data: prefixCancelSpecific + strconv.FormatInt(o.ID, 10),
		}})
	}
	return keyboard.InlineButtonsRows(rows...)
}
