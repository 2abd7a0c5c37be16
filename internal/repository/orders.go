package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
)

// Orders provides access to the orders table.
type Orders struct {
	db *sqlx.DB
}

// NewOrders constructs the orders repository.
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

const orderWithUserColumns = `
	o.id, o.user_id, o.status, o.preferred_time, o.created_at, o.completed_at,
	u.name AS user_name, u.phone AS user_phone,
	u.username AS user_username, u.telegram_id AS user_telegram_id`

// Create inserts a new order after checking the owner's active-order quota.
// The owner row is locked for the duration of the transaction so concurrent
// confirmations cannot both pass the quota check.
func (r *Orders) Create(ctx context.Context, userID int64, status models.Status, preferredTime string, maxActive int) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ownerID int64
	if err := tx.GetContext(ctx, &ownerID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock order owner: %w", err)
	}

	if maxActive > 0 {
		var active int
		const countQ = `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status <> $2`
		if err := tx.GetContext(ctx, &active, countQ, userID, models.StatusDone); err != nil {
			return nil, fmt.Errorf("count active orders: %w", err)
		}
		if active >= maxActive {
			return nil, domain.ErrQuotaExceeded
		}
	}

	order := models.Order{
		UserID:        userID,
		Status:        status,
		PreferredTime: preferredTime,
	}
	const insertQ = `
		INSERT INTO orders (user_id, status, preferred_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := tx.QueryRowxContext(ctx, insertQ, userID, status, preferredTime).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}
	return &order, nil
}

// CreateWithOwner inserts a contact row together with its order in one
// transaction. A failed order insert rolls the contact back, so retries of
// the admin dialog never accumulate orphaned contacts.
func (r *Orders) CreateWithOwner(ctx context.Context, owner *models.User, status models.Status, preferredTime string) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create order with owner: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const ownerQ = `
		INSERT INTO users (telegram_id, username, name, phone, address, organization)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := tx.QueryRowxContext(ctx, ownerQ,
		owner.TelegramID, owner.Username, owner.Name, owner.Phone, owner.Address, owner.Organization,
	).Scan(&owner.ID); err != nil {
		return nil, fmt.Errorf("insert order owner: %w", err)
	}

	order := models.Order{
		UserID:        owner.ID,
		Status:        status,
		PreferredTime: preferredTime,
	}
	const orderQ = `
		INSERT INTO orders (user_id, status, preferred_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := tx.QueryRowxContext(ctx, orderQ, owner.ID, status, preferredTime).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert owner order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order with owner: %w", err)
	}
	return &order, nil
}

// ByID returns an order joined with its owner.
func (r *Orders) ByID(ctx context.Context, id int64) (*models.OrderWithUser, error) {
	var o models.OrderWithUser
	q := `SELECT ` + orderWithUserColumns + `
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`
	if err := r.db.GetContext(ctx, &o, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Orders) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	const q = `SELECT * FROM orders WHERE user_id = $1 ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &orders, q, userID); err != nil {
		return nil, fmt.Errorf("select user orders: %w", err)
	}
	return orders, nil
}

// ListPage returns one page of the completed or active partition, newest
// first, together with the partition's total count. Pages are zero-based.
func (r *Orders) ListPage(ctx context.Context, done bool, page, perPage int) ([]models.OrderWithUser, int, error) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 10
	}

	cmp := "<>"
	if done {
		cmp = "="
	}

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE status %s $1`, cmp)
	if err := r.db.GetContext(ctx, &total, countQ, models.StatusDone); err != nil {
		return nil, 0, fmt.Errorf("count orders page: %w", err)
	}

	var orders []models.OrderWithUser
	q := fmt.Sprintf(`SELECT `+orderWithUserColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.status %s $1
		ORDER BY o.id DESC
		LIMIT $2 OFFSET $3`, cmp)
	if err := r.db.SelectContext(ctx, &orders, q, models.StatusDone, perPage, page*perPage); err != nil {
		return nil, 0, fmt.Errorf("select orders page: %w", err)
	}
	return orders, total, nil
}

// SetStatus updates the status in a single statement that keeps the
// completed_at invariant: set on entering the terminal status (first time
// only), cleared on leaving it. Idempotent by value.
func (r *Orders) SetStatus(ctx context.Context, id int64, status models.Status, now time.Time) (*models.Order, error) {
	var o models.Order
	const q = `
		UPDATE orders
		SET status = $2,
		    completed_at = CASE WHEN $2 = $3 THEN COALESCE(completed_at, $4) ELSE NULL END
		WHERE id = $1
		RETURNING id, user_id, status, preferred_time, created_at, completed_at`
	if err := r.db.QueryRowxContext(ctx, q, id, status, models.StatusDone, now.UTC()).StructScan(&o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &o, nil
}

// Delete removes an order unconditionally.
func (r *Orders) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteOwned removes an order on behalf of its owner. The row is locked
// before the precondition check so a concurrent status change cannot slip a
// completed order past it.
func (r *Orders) DeleteOwned(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status models.Status
	const q = `SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`
	if err := tx.GetContext(ctx, &status, q, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock order for cancel: %w", err)
	}
	if status.Done() {
		return domain.ErrCancelCompleted
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete owned order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel order: %w", err)
	}
	return nil
}

// DeleteExpired removes completed orders whose completion instant is
// strictly older than the given bound and reports how many were removed.
func (r *Orders) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM orders WHERE status = $1 AND completed_at < $2`
	res, err := r.db.ExecContext(ctx, q, models.StatusDone, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired orders: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired orders: %w", err)
	}
	return affected, nil
}
