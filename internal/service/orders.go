package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/pickupbot/core/logger"
	tghelpers "github.com/m3rciful/pickupbot/core/telegram/helpers"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
)

const (
	// MaxActiveOrders caps non-completed orders per user.
	MaxActiveOrders = 3
	// OrdersPerPage is the admin listing page size.
	OrdersPerPage = 10

	cutoffHour   = 11
	cutoffMinute = 30

	// retention is how long completed orders are kept after completion.
	retention = 24 * time.Hour

	// DayToday and DayTomorrow are the descriptor day literals.
	DayToday    = "Сегодня"
	DayTomorrow = "Завтра"
)

// Source identifies who placed an order.
type Source int

const (
	// SourceUser marks orders from the user-facing dialog.
	SourceUser Source = iota
	// SourceAdmin marks orders entered via the admin panel.
	SourceAdmin
)

func (s Source) status() models.Status {
	if s == SourceAdmin {
		return models.StatusNewAdmin
	}
	return models.StatusNewUser
}

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	Create(ctx context.Context, userID int64, status models.Status, preferredTime string, maxActive int) (*models.Order, error)
	CreateWithOwner(ctx context.Context, owner *models.User, status models.Status, preferredTime string) (*models.Order, error)
	ByID(ctx context.Context, id int64) (*models.OrderWithUser, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListPage(ctx context.Context, done bool, page, perPage int) ([]models.OrderWithUser, int, error)
	SetStatus(ctx context.Context, id int64, status models.Status, now time.Time) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	DeleteOwned(ctx context.Context, id, userID int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Orders manages the order lifecycle.
type Orders struct {
	store OrderStore
	loc   *time.Location

	// now is swappable in tests.
	now func() time.Time
}

// NewOrders constructs the order service with the operational timezone.
func NewOrders(store OrderStore, loc *time.Location) *Orders {
	if loc == nil {
		loc = time.UTC
	}
	return &Orders{store: store, loc: loc, now: time.Now}
}

// Create places an order with the status derived from its source. The
// descriptor is stored verbatim.
func (s *Orders) Create(ctx context.Context, userID int64, source Source, descriptor string) (*models.Order, error) {
	order, err := s.store.Create(ctx, userID, source.status(), descriptor, MaxActiveOrders)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "orders", "order.created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.String("status", string(order.Status)),
	)
	return order, nil
}

// CreateForContact commits an admin-entered contact together with its order.
// The write is atomic: either both rows land or neither does. The contact's
// generated ID is filled in on success.
func (s *Orders) CreateForContact(ctx context.Context, contact *models.User, descriptor string) (*models.Order, error) {
	order, err := s.store.CreateWithOwner(ctx, contact, SourceAdmin.status(), descriptor)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "orders", "order.created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", contact.ID),
		slog.String("status", string(order.Status)),
	)
	return order, nil
}

// DescriptorToday renders the same-day pickup descriptor for a clock time.
func DescriptorToday(hour, minute int) string {
	return DayToday + ", " + tghelpers.FormatClock(hour, minute)
}

// DescriptorTomorrow renders the next-day pickup descriptor.
func DescriptorTomorrow() string {
	return DayTomorrow
}

// SameDayPickup reports whether a same-day request at the given clock time
// is before the pickup cutoff. The cutoff instant itself still qualifies.
func SameDayPickup(hour, minute int) bool {
	if hour != cutoffHour {
		return hour < cutoffHour
	}
	return minute <= cutoffMinute
}

// NowClock returns the current wall clock in the operational timezone.
func (s *Orders) NowClock() (hour, minute int) {
	t := s.now().In(s.loc)
	return t.Hour(), t.Minute()
}

// PickupNotice resolves a descriptor into the pickup wording shown to the
// user and sent to admins. Resolution happens once, at order creation.
func PickupNotice(descriptor string) string {
	day, clock, hasClock := strings.Cut(descriptor, ",")
	if strings.TrimSpace(day) == DayToday && hasClock {
		if h, m, ok := tghelpers.ParseClock(clock); ok && SameDayPickup(h, m) {
			return "Мы заберём оборудование сегодня в ближайшее время!"
		}
	}
	return "Мы заберём оборудование завтра с 8:00 до 12:00."
}

// Get returns an order with its owner.
func (s *Orders) Get(ctx context.Context, id int64) (*models.OrderWithUser, error) {
	return s.store.ByID(ctx, id)
}

// ListUser returns the user's own orders, newest first.
func (s *Orders) ListUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// Page returns one admin listing page of the chosen partition together with
// the number of pages in it.
func (s *Orders) Page(ctx context.Context, done bool, page int) ([]models.OrderWithUser, int, error) {
	orders, total, err := s.store.ListPage(ctx, done, page, OrdersPerPage)
	if err != nil {
		return nil, 0, err
	}
	pages := (total + OrdersPerPage - 1) / OrdersPerPage
	return orders, pages, nil
}

// SetStatus transitions an order to the given status. Unknown literals are
// rejected before touching storage; repeating the current status is a no-op
// that keeps completed_at as is.
func (s *Orders) SetStatus(ctx context.Context, id int64, status models.Status) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, status)
	}
	order, err := s.store.SetStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "orders", "order.status_changed",
		slog.Int64("order_id", id),
		slog.String("status", string(status)),
	)
	return order, nil
}

// CancelByAdmin removes an order regardless of its status.
func (s *Orders) CancelByAdmin(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// CancelByOwner removes the user's own order unless it is completed.
func (s *Orders) CancelByOwner(ctx context.Context, id, userID int64) error {
	if err := s.store.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}
	logger.Info(ctx, "orders", "order.cancelled",
		slog.Int64("order_id", id),
		slog.Int64("user_id", userID),
	)
	return nil
}

// SweepExpired deletes completed orders older than the retention bound and
// returns the count. Safe to run repeatedly and concurrently.
func (s *Orders) SweepExpired(ctx context.Context) (int64, error) {
	before := s.now().Add(-retention)
	count, err := s.store.DeleteExpired(ctx, before)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "orders", "order.sweep",
		slog.Int64("deleted", count),
		slog.Time("before", before),
	)
	return count, nil
}

// Now returns the current time in the operational timezone.
func (s *Orders) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the operational timezone.
func (s *Orders) Location() *time.Location {
	return s.loc
}
