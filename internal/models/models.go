package models

import (
	"database/sql"
	"time"
)

// User is a registered bot user or an admin-entered contact.
// TelegramID is null for contacts created through the admin add-order flow.
type User struct {
	ID           int64          `db:"id"`
	TelegramID   sql.NullInt64  `db:"telegram_id"`
	Username     sql.NullString `db:"username"`
	Name         string         `db:"name"`
	Phone        string         `db:"phone"`
	Address      string         `db:"address"`
	Organization sql.NullString `db:"organization"`
}

// Order is a pickup request. PreferredTime holds the pickup descriptor
// exactly as collected during the dialog; it is never re-evaluated.
type Order struct {
	ID            int64        `db:"id"`
	UserID        int64        `db:"user_id"`
	Status        Status       `db:"status"`
	PreferredTime string       `db:"preferred_time"`
	CreatedAt     time.Time    `db:"created_at"`
	CompletedAt   sql.NullTime `db:"completed_at"`
}

// OrderWithUser is an order joined with its owner for listing screens.
type OrderWithUser struct {
	Order
	UserName       string         `db:"user_name"`
	UserPhone      string         `db:"user_phone"`
	UserUsername   sql.NullString `db:"user_username"`
	UserTelegramID sql.NullInt64  `db:"user_telegram_id"`
}
