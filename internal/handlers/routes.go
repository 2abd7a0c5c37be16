package handlers

import (
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/pickupbot/core/telegram"
	"github.com/m3rciful/pickupbot/core/telegram/commands"
)

// Register wires every command, menu button and callback token into the
// registry. Free text is routed dialog state first, then exact menu labels,
// then the fallback.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Запустить бота",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.Admin,
		Description: "Админ-панель",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.RegisterMenu(btnMakeOrder, h.MakeOrder)
	reg.RegisterMenu(btnMyOrders, h.MyOrders)
	reg.RegisterMenu(btnDirectMessage, h.DirectMessage)
	reg.RegisterMenu(btnEditData, h.EditData)

	reg.SetTextFallback(h.Fallback)
	reg.SetCallbackNotFound(h.Fallback)

	callbackHandlers := map[string]tele.HandlerFunc{
		cbStartWork:         h.StartWork,
		cbChooseDayToday:    h.ChooseDay,
		cbChooseDayTomorrow: h.ChooseDay,
		cbChooseTimeASAP:    h.ChooseTimeASAP,
		cbConfirmOrder:      h.ConfirmOrder,
		cbCancelOrder:       h.CancelOrder,
		cbCancelDirect:      h.CancelDirectMessage,
		cbMyOrders:          h.MyOrders,
		cbAdminAddOrder:     h.AdminAddOrder,
		cbAdminOrders:       h.AdminOrders,
		cbAdminHelp:         h.AdminHelp,
		cbAdminBack:         h.AdminBack,
	}
	for key, handler := range callbackHandlers {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return err
		}
	}

	prefixHandlers := map[string]tele.HandlerFunc{
		prefixCancelSpecific:    h.CancelSpecific,
		prefixOrderDetail:       h.OrderDetail,
		prefixSetStatus:         h.SetStatus,
		prefixAdminOrdersActive: h.AdminOrdersPage,
		prefixAdminOrdersDone:   h.AdminOrdersPage,
	}
	for prefix, handler := range prefixHandlers {
		if err := reg.RegisterCallbackPrefix(prefix, handler); err != nil {
			return err
		}
	}
	return nil
}
