package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/pickupbot/core/config"
	"github.com/m3rciful/pickupbot/core/telegram/middleware"
	"github.com/m3rciful/pickupbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareHooks carries the handlers invoked by the shared middleware chain.
type MiddlewareHooks struct {
	// OnLimited notifies a user who exceeded the rate limit (at most once per window).
	OnLimited tele.HandlerFunc
	// OnExpired notifies a user whose dialog was reset after inactivity.
	OnExpired tele.HandlerFunc
}

// DefaultMiddlewares builds the shared middleware chain for bots:
// recover, rate limit, inactivity reset, update logger.
func DefaultMiddlewares(cfg *coreconfig.Config, sessions state.Manager, hooks MiddlewareHooks) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if window > 0 && cfg.RateLimit.MaxMessages > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			opts := middleware.RateLimitOptions{
				Window:      window,
				MaxMessages: cfg.RateLimit.MaxMessages,
				Exclude:     ex,
			}
			if hooks.OnLimited != nil {
				opts.OnLimited = hooks.OnLimited
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use:  middleware.RateLimitMiddleware(opts),
			})
		}
	}

	if cfg != nil && sessions != nil {
		timeout := time.Duration(cfg.Session.InactivityTimeoutMinutes) * time.Minute
		if timeout > 0 {
			mws = append(mws, Middleware{
				Name: "inactivity",
				Use: middleware.InactivityMiddleware(middleware.InactivityOptions{
					Timeout:   timeout,
					Sessions:  sessions,
					OnExpired: hooks.OnExpired,
				}),
			})
		}
	}

	mws = append(mws, Middleware{Name: "logger", Use: middleware.LoggerMiddleware})

	return mws
}
