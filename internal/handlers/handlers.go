// Package handlers implements the bot's conversational flows: registration,
// order placement, profile edits, direct messages, and the admin panel.
package handlers

import (
	"github.com/m3rciful/pickupbot/core/telegram/state"
	"github.com/m3rciful/pickupbot/internal/service"
)

// Handlers bundles the dialog handlers with their dependencies.
type Handlers struct {
	sessions state.Manager
	users    *service.Users
	orders   *service.Orders
	notifier *service.Notifier
	adminIDs []int64
}

// New constructs the handler set.
func New(sessions state.Manager, users *service.Users, orders *service.Orders, notifier *service.Notifier, adminIDs []int64) *Handlers {
	return &Handlers{
		sessions: sessions,
		users:    users,
		orders:   orders,
		notifier: notifier,
		adminIDs: adminIDs,
	}
}

func (h *Handlers) isAdmin(userID int64) bool {
	for _, id := range h.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
