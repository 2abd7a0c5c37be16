package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/pickupbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Window is the sliding interval within which MaxMessages are allowed.
	Window time.Duration
	// MaxMessages caps inbound events per identity per window.
	MaxMessages int
	Exclude     map[string]struct{}
	OnLimited   tele.HandlerFunc
}

type windowEntry struct {
	times       []time.Time
	lastWarning time.Time
}

// slidingWindow tracks recent event timestamps per identity. Entries idle
// longer than 10 windows are evicted on the fly so long-running processes
// do not accumulate one entry per identity ever seen.
type slidingWindow struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[int64]*windowEntry
}

func newSlidingWindow(window time.Duration, max int) *slidingWindow {
	return &slidingWindow{
		window:  window,
		max:     max,
		entries: make(map[int64]*windowEntry),
	}
}

// Allow registers an event for the identity and reports whether it passes.
// warn is true at most once per window for a limited identity.
func (w *slidingWindow) Allow(id int64, now time.Time) (ok, warn bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(now)

	e, found := w.entries[id]
	if !found {
		e = &windowEntry{}
		w.entries[id] = e
	}

	kept := e.times[:0]
	for _, t := range e.times {
		if now.Sub(t) < w.window {
			kept = append(kept, t)
		}
	}
	e.times = kept

	if len(e.times) >= w.max {
		if now.Sub(e.lastWarning) > w.window {
			e.lastWarning = now
			return false, true
		}
		return false, false
	}

	e.times = append(e.times, now)
	return true, false
}

func (w *slidingWindow) evict(now time.Time) {
	idle := 10 * w.window
	for id, e := range w.entries {
		if len(e.times) == 0 || now.Sub(e.times[len(e.times)-1]) > idle {
			delete(w.entries, id)
		}
	}
}

// RateLimitMiddleware returns a middleware enforcing a sliding-window message
// cap per user: at most MaxMessages events per Window, with at most one
// warning per window once the cap is hit.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	win := newSlidingWindow(opts.Window, opts.MaxMessages)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Window <= 0 || opts.MaxMessages <= 0 {
				return next(c)
			}

			// Determine update kind and apply configured exclusions
			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			ok, warn := win.Allow(user.ID, time.Now())
			if ok {
				return next(c)
			}

			attrs := []slog.Attr{
				slog.String("event", "tg.rate_limit"),
				slog.Int64("user_id", user.ID),
			}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chat_id", chat.ID))
			}
			logger.TG.LogAttrs(logger.Background(), slog.LevelWarn, "rate limit", attrs...)

			if warn && opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
