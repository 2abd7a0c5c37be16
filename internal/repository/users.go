package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
)

// Users provides access to the users table.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Create inserts the user and fills in the generated ID.
func (r *Users) Create(ctx context.Context, u *models.User) error {
	const q = `
		INSERT INTO users (telegram_id, username, name, phone, address, organization)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowxContext(ctx, q,
		u.TelegramID, u.Username, u.Name, u.Phone, u.Address, u.Organization,
	).Scan(&u.ID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ByTelegramID finds a registered user by their Telegram identity.
func (r *Users) ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	const q = `SELECT * FROM users WHERE telegram_id = $1`
	if err := r.db.GetContext(ctx, &u, q, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select user by telegram id: %w", err)
	}
	return &u, nil
}

// ByID finds a user by primary key.
func (r *Users) ByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	const q = `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return &u, nil
}

// SetUsername updates the stored Telegram username of a user.
func (r *Users) SetUsername(ctx context.Context, id int64, username string) error {
	return r.updateField(ctx, id, "username", username)
}

// SetName updates the display name of a user.
func (r *Users) SetName(ctx context.Context, id int64, name string) error {
	return r.updateField(ctx, id, "name", name)
}

// SetPhone updates the phone number of a user.
func (r *Users) SetPhone(ctx context.Context, id int64, phone string) error {
	return r.updateField(ctx, id, "phone", phone)
}

// SetAddress updates the address of a user.
func (r *Users) SetAddress(ctx context.Context, id int64, address string) error {
	return r.updateField(ctx, id, "address", address)
}

// SetOrganization updates the organization of a user.
func (r *Users) SetOrganization(ctx context.Context, id int64, organization string) error {
	return r.updateField(ctx, id, "organization", organization)
}

func (r *Users) updateField(ctx context.Context, id int64, column, value string) error {
	q := fmt.Sprintf(`UPDATE users SET %s = $2 WHERE id = $1`, column)
	res, err := r.db.ExecContext(ctx, q, id, value)
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
