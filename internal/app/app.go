package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/pickupbot/core/bootstrap"
	coretelegram "github.com/m3rciful/pickupbot/core/telegram"
	"github.com/m3rciful/pickupbot/core/telegram/router"
	tgsender "github.com/m3rciful/pickupbot/core/telegram/sender"
	"github.com/m3rciful/pickupbot/core/telegram/state"
	"github.com/m3rciful/pickupbot/internal/handlers"
	"github.com/m3rciful/pickupbot/internal/repository"
	"github.com/m3rciful/pickupbot/internal/scheduler"
	"github.com/m3rciful/pickupbot/internal/service"
)

// App wires infrastructure, services and handlers together.
type App struct {
	cfg *Config
	loc *time.Location

	db         *sqlx.DB
	dispatcher *tgsender.Dispatcher
	sessions   state.Manager

	users    *service.Users
	orders   *service.Orders
	notifier *service.Notifier
	handlers *handlers.Handlers
}

// New bootstraps logging, the database and migrations, then builds the
// service graph.
func New(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	dispatcher := tgsender.NewDispatcher(tgsender.Options{})
	sessions := state.NewMemoryManager()

	users := service.NewUsers(repository.NewUsers(res.DB))
	orders := service.NewOrders(repository.NewOrders(res.DB), loc)
	notifier := service.NewNotifier(cfg.Core.Telegram.AdminIDs, dispatcher, loc)

	return &App{
		cfg:        cfg,
		loc:        loc,
		db:         res.DB,
		dispatcher: dispatcher,
		sessions:   sessions,
		users:      users,
		orders:     orders,
		notifier:   notifier,
		handlers:   handlers.New(sessions, users, orders, notifier, cfg.Core.Telegram.AdminIDs),
	}, nil
}

// TelegramRunOptions builds the registry, routes and middleware chain for
// the Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      a.cfg.Core.Telegram.AdminIDs,
		OnAdminReject: a.handlers.AdminDenied,
	})
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{
		UnknownText: a.handlers.Fallback,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.handlers.Fallback,
	}))

	middlewares := coretelegram.DefaultMiddlewares(&a.cfg.Core, a.sessions, coretelegram.MiddlewareHooks{
		OnLimited: a.handlers.RateLimited,
		OnExpired: a.handlers.SessionExpired,
	})

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Dispatcher:  a.dispatcher,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.notifier.SetBot(rt.Bot)
			sweep := &scheduler.Daily{
				Hour:   a.cfg.Cleanup.Hour,
				Minute: a.cfg.Cleanup.Minute,
				Loc:    a.loc,
				Job: func(ctx context.Context) {
					_, _ = a.orders.SweepExpired(ctx)
				},
			}
			go sweep.Run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
