package telegram

import (
	"io"
	"testing"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/logger"
	"github.com/m3rciful/pickupbot/core/telegram/commands"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	if logger.TWire == nil {
		logger.TWire = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewRegistry()
}

func noopHandler(tele.Context) error { return nil }

func TestResolveCallbackExactBeforePrefix(t *testing.T) {
	reg := newTestRegistry(t)

	var hits []string
	record := func(name string) tele.HandlerFunc {
		return func(tele.Context) error {
			hits = append(hits, name)
			return nil
		}
	}

	if err := reg.RegisterCallback("admin_orders", record("exact")); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("admin_orders_active_", record("active")); err != nil {
		t.Fatalf("RegisterCallbackPrefix: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("admin_orders_", record("generic")); err != nil {
		t.Fatalf("RegisterCallbackPrefix: %v", err)
	}

	h, ok := reg.ResolveCallback("admin_orders")
	if !ok {
		t.Fatalf("exact token not resolved")
	}
	_ = h(nil)

	h, ok = reg.ResolveCallback("admin_orders_active_2")
	if !ok {
		t.Fatalf("prefixed token not resolved")
	}
	_ = h(nil)

	h, ok = reg.ResolveCallback("admin_orders_done_0")
	if !ok {
		t.Fatalf("shorter prefix not resolved")
	}
	_ = h(nil)

	want := []string{"exact", "active", "generic"}
	if len(hits) != len(want) {
		t.Fatalf("hits = %v, want %v", hits, want)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Fatalf("hits = %v, want %v", hits, want)
		}
	}

	if _, ok := reg.ResolveCallback("unrelated"); ok {
		t.Fatalf("unknown token must not resolve")
	}
}

func TestRegisterCallbackDuplicate(t *testing.T) {
	reg := newTestRegistry(t)

	if err := reg.RegisterCallback("confirm_order", noopHandler); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := reg.RegisterCallback("confirm_order", noopHandler); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := reg.RegisterCallbackPrefix("order_detail_", noopHandler); err != nil {
		t.Fatalf("RegisterCallbackPrefix: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("order_detail_", noopHandler); err == nil {
		t.Fatalf("duplicate prefix registration must fail")
	}
}

func TestLookupMenuExactOnly(t *testing.T) {
	reg := newTestRegistry(t)
	reg.RegisterMenu("🛒 Оформить заказ", noopHandler)

	if _, ok := reg.LookupMenu("🛒 Оформить заказ"); !ok {
		t.Fatalf("exact label must match")
	}
	if _, ok := reg.LookupMenu("хочу 🛒 Оформить заказ"); ok {
		t.Fatalf("embedded label must not match")
	}
	if _, ok := reg.LookupMenu("оформить заказ"); ok {
		t.Fatalf("case-insensitive match is not supported")
	}
}

func TestListCommandsHidesAdminEntries(t *testing.T) {
	reg := newTestRegistry(t)
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("/admin", commands.Command{Handler: noopHandler, Description: "admin", AdminOnly: true, Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "start" {
		t.Fatalf("visible commands = %+v", visible)
	}

	all := reg.ListCommands(false)
	if len(all) != 2 {
		t.Fatalf("all commands = %+v", all)
	}
}

func TestLookupCommand(t *testing.T) {
	reg := newTestRegistry(t)
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start", Aliases: []string{"begin"}})

	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Fatalf("lookup by name failed")
	}
	if key, _, ok := reg.LookupCommand("begin"); !ok || key != "/start" {
		t.Fatalf("lookup by alias: key=%q ok=%v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/stop"); ok {
		t.Fatalf("unknown command must not resolve")
	}
}
