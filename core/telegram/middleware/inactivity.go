package middleware

import (
	"log/slog"
	"time"

	"github.com/m3rciful/pickupbot/core/logger"
	"github.com/m3rciful/pickupbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// InactivityOptions configures the stale-session guard.
type InactivityOptions struct {
	Timeout  time.Duration
	Sessions state.Manager
	// OnExpired renders the "session expired" notice before the event is
	// processed as a fresh idle-state command.
	OnExpired tele.HandlerFunc
}

// InactivityMiddleware force-resets dialogs whose last activity is older than
// the timeout, notifies the user, then lets the event through as a fresh one.
// The current event's timestamp becomes the new activity baseline.
func InactivityMiddleware(opts InactivityOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Sessions == nil || c.Message() == nil {
				return next(c)
			}

			now := time.Now()
			if opts.Sessions.ExpireIfIdle(user.ID, now, opts.Timeout) {
				logger.LogEvent(logger.Background(), logger.TG, slog.LevelInfo, "tg.session_expired",
					slog.Int64("user_id", user.ID),
				)
				if opts.OnExpired != nil {
					_ = opts.OnExpired(c)
				}
			}
			opts.Sessions.Touch(user.ID, now)

			return next(c)
		}
	}
}
