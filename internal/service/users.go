package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"log/slog"

	"github.com/m3rciful/pickupbot/core/logger"
	"github.com/m3rciful/pickupbot/internal/models"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	ByID(ctx context.Context, id int64) (*models.User, error)
	SetUsername(ctx context.Context, id int64, username string) error
	SetName(ctx context.Context, id int64, name string) error
	SetPhone(ctx context.Context, id int64, phone string) error
	SetAddress(ctx context.Context, id int64, address string) error
	SetOrganization(ctx context.Context, id int64, organization string) error
}

// Users manages registration and profile data.
type Users struct {
	store UserStore
}

// NewUsers constructs the user service.
func NewUsers(store UserStore) *Users {
	return &Users{store: store}
}

// NormalizeOrganization canonicalizes the "no organization" answer.
func NormalizeOrganization(org string) string {
	trimmed := strings.TrimSpace(org)
	if strings.EqualFold(trimmed, "нет") {
		return "Нет"
	}
	return trimmed
}

// Register commits a completed registration dialog.
func (s *Users) Register(ctx context.Context, telegramID int64, username, name, phone, address, organization string) (*models.User, error) {
	u := &models.User{
		TelegramID: sql.NullInt64{Int64: telegramID, Valid: true},
		Name:       strings.TrimSpace(name),
		Phone:      strings.TrimSpace(phone),
		Address:    strings.TrimSpace(address),
		Organization: sql.NullString{
			String: NormalizeOrganization(organization),
			Valid:  true,
		},
	}
	if username != "" {
		u.Username = sql.NullString{String: username, Valid: true}
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	logger.Info(ctx, "users", "user.registered", slog.Int64("user_id", u.ID), slog.Int64("telegram_id", telegramID))
	return u, nil
}

// NewContact builds a user record entered by an admin. Such contacts have no
// Telegram identity of their own. Nothing is persisted here: the contact is
// committed together with its order, see Orders.CreateForContact.
func NewContact(name, phone, address string) *models.User {
	return &models.User{
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}
}

// ByTelegramID looks up the registered user behind a Telegram identity.
func (s *Users) ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.store.ByTelegramID(ctx, telegramID)
}

// ReconcileUsername backfills the stored Telegram username when the current
// one differs. Best effort: a failure is logged and the stale value kept.
func (s *Users) ReconcileUsername(ctx context.Context, u *models.User, current string) {
	if u == nil || current == "" {
		return
	}
	if u.Username.Valid && u.Username.String == current {
		return
	}
	if err := s.store.SetUsername(ctx, u.ID, current); err != nil {
		logger.Warn(ctx, "users", "user.username_reconcile_failed",
			slog.Int64("user_id", u.ID),
			slog.String("err", err.Error()),
		)
		return
	}
	u.Username = sql.NullString{String: current, Valid: true}
}

// UpdateName replaces the display name of the registered user.
func (s *Users) UpdateName(ctx context.Context, telegramID int64, name string) error {
	return s.updateField(ctx, telegramID, strings.TrimSpace(name), s.store.SetName)
}

// UpdatePhone replaces the phone of the registered user.
func (s *Users) UpdatePhone(ctx context.Context, telegramID int64, phone string) error {
	return s.updateField(ctx, telegramID, strings.TrimSpace(phone), s.store.SetPhone)
}

// UpdateAddress replaces the address of the registered user.
func (s *Users) UpdateAddress(ctx context.Context, telegramID int64, address string) error {
	return s.updateField(ctx, telegramID, strings.TrimSpace(address), s.store.SetAddress)
}

// UpdateOrganization replaces the organization of the registered user.
func (s *Users) UpdateOrganization(ctx context.Context, telegramID int64, organization string) error {
	return s.updateField(ctx, telegramID, NormalizeOrganization(organization), s.store.SetOrganization)
}

func (s *Users) updateField(ctx context.Context, telegramID int64, value string, set func(context.Context, int64, string) error) error {
	u, err := s.store.ByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	return set(ctx, u.ID, value)
}
