package router

import (
	"io"
	"log/slog"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/logger"
	tg "github.com/m3rciful/pickupbot/core/telegram"
	"github.com/m3rciful/pickupbot/core/telegram/commands"
)

// textContext implements the slice of tele.Context the text route touches.
type textContext struct {
	tele.Context

	sender *tele.User
	text   string
	values map[string]interface{}
}

func newTextContext(userID int64, text string) *textContext {
	return &textContext{
		sender: &tele.User{ID: userID},
		text:   text,
		values: make(map[string]interface{}),
	}
}

func (c *textContext) Sender() *tele.User       { return c.sender }
func (c *textContext) Chat() *tele.Chat         { return &tele.Chat{ID: c.sender.ID} }
func (c *textContext) Update() tele.Update      { return tele.Update{} }
func (c *textContext) Text() string             { return c.text }
func (c *textContext) Callback() *tele.Callback { return nil }

func (c *textContext) Get(key string) interface{}        { return c.values[key] }
func (c *textContext) Set(key string, value interface{}) { c.values[key] = value }

func newTestRegistry() *tg.Registry {
	if logger.TWire == nil {
		logger.TWire = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return tg.NewRegistry()
}

func TestTextRouteResolvesBareCommandWords(t *testing.T) {
	reg := newTestRegistry()

	calls := 0
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(tele.Context) error { calls++; return nil },
		Description: "start",
	})

	routes := TextRoutes(nil, reg, TextOptions{})
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	if err := routes[0].Handler(newTextContext(2, "start")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if calls != 1 {
		t.Errorf("command calls = %d, want 1", calls)
	}
}

func TestTextRouteSkipsAdminOnlyCommands(t *testing.T) {
	reg := newTestRegistry()

	adminCalls := 0
	fallbackCalls := 0
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     func(tele.Context) error { adminCalls++; return nil },
		Description: "admin",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(func(tele.Context) error { fallbackCalls++; return nil })

	routes := TextRoutes(nil, reg, TextOptions{})
	if err := routes[0].Handler(newTextContext(2, "admin")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if adminCalls != 0 {
		t.Errorf("admin-only handler fired %d times via bare text, want 0", adminCalls)
	}
	if fallbackCalls != 1 {
		t.Errorf("fallback calls = %d, want 1", fallbackCalls)
	}
}
