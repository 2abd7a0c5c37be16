package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
)

type memUserStore struct {
	nextID int64
	users  map[int64]*models.User

	setUsernameErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User)}
}

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) ByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	for _, u := range s.users {
		if u.TelegramID.Valid && u.TelegramID.Int64 == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memUserStore) ByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) set(id int64, apply func(*models.User)) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	apply(u)
	return nil
}

func (s *memUserStore) SetUsername(_ context.Context, id int64, username string) error {
	if s.setUsernameErr != nil {
		return s.setUsernameErr
	}
	return s.set(id, func(u *models.User) { u.Username = sql.NullString{String: username, Valid: true} })
}

func (s *memUserStore) SetName(_ context.Context, id int64, name string) error {
	return s.set(id, func(u *models.User) { u.Name = name })
}

func (s *memUserStore) SetPhone(_ context.Context, id int64, phone string) error {
	return s.set(id, func(u *models.User) { u.Phone = phone })
}

func (s *memUserStore) SetAddress(_ context.Context, id int64, address string) error {
	return s.set(id, func(u *models.User) { u.Address = address })
}

func (s *memUserStore) SetOrganization(_ context.Context, id int64, organization string) error {
	return s.set(id, func(u *models.User) { u.Organization = sql.NullString{String: organization, Valid: true} })
}

func TestNormalizeOrganization(t *testing.T) {
	assert.Equal(t, "Нет", NormalizeOrganization("нет"))
	assert.Equal(t, "Нет", NormalizeOrganization("НЕТ"))
	assert.Equal(t, "Нет", NormalizeOrganization("  Нет  "))
	assert.Equal(t, "ООО Ромашка", NormalizeOrganization(" ООО Ромашка "))
	assert.Equal(t, "", NormalizeOrganization("   "))
}

func TestRegister(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsers(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, 42, "ivan", " Иван ", " +79991234567 ", " ул. Ленина, 1 ", "нет")
	require.NoError(t, err)
	assert.Equal(t, "Иван", u.Name)
	assert.Equal(t, "+79991234567", u.Phone)
	assert.Equal(t, "ул. Ленина, 1", u.Address)
	assert.Equal(t, "Нет", u.Organization.String)
	assert.Equal(t, "ivan", u.Username.String)

	found, err := svc.ByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestRegisterWithoutUsername(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsers(store)

	u, err := svc.Register(context.Background(), 42, "", "Иван", "+79991234567", "ул. Ленина, 1", "ООО")
	require.NoError(t, err)
	assert.False(t, u.Username.Valid)
}

func TestNewContactHasNoTelegramIdentity(t *testing.T) {
	u := NewContact(" Пётр ", " +79990000000 ", " пр. Мира, 5 ")
	assert.False(t, u.TelegramID.Valid)
	assert.False(t, u.Username.Valid)
	assert.Equal(t, "Пётр", u.Name)
	assert.Equal(t, "+79990000000", u.Phone)
	assert.Equal(t, "пр. Мира, 5", u.Address)
	assert.Zero(t, u.ID)
}

func TestReconcileUsername(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsers(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, 42, "old", "Иван", "+79991234567", "ул. Ленина, 1", "Нет")
	require.NoError(t, err)

	svc.ReconcileUsername(ctx, u, "fresh")
	assert.Equal(t, "fresh", u.Username.String)
	stored, _ := store.ByID(ctx, u.ID)
	assert.Equal(t, "fresh", stored.Username.String)

	// Unchanged handle: no write.
	svc.ReconcileUsername(ctx, u, "fresh")
	assert.Equal(t, "fresh", u.Username.String)

	// Empty handle never overwrites the stored one.
	svc.ReconcileUsername(ctx, u, "")
	assert.Equal(t, "fresh", u.Username.String)
}

func TestReconcileUsernameBestEffort(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsers(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, 42, "old", "Иван", "+79991234567", "ул. Ленина, 1", "Нет")
	require.NoError(t, err)

	store.setUsernameErr = errors.New("db down")
	svc.ReconcileUsername(ctx, u, "fresh")

	// The in-memory copy keeps the stale value on failure.
	assert.Equal(t, "old", u.Username.String)
}

func TestUpdateFields(t *testing.T) {
	store := newMemUserStore()
	svc := NewUsers(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, 42, "ivan", "Иван", "+79991234567", "ул. Ленина, 1", "Нет")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateName(ctx, 42, " Пётр "))
	require.NoError(t, svc.UpdatePhone(ctx, 42, "+79995554433"))
	require.NoError(t, svc.UpdateAddress(ctx, 42, "пр. Мира, 5"))
	require.NoError(t, svc.UpdateOrganization(ctx, 42, "нет"))

	stored, err := store.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Пётр", stored.Name)
	assert.Equal(t, "+79995554433", stored.Phone)
	assert.Equal(t, "пр. Мира, 5", stored.Address)
	assert.Equal(t, "Нет", stored.Organization.String)

	// Unknown Telegram identity surfaces the lookup error.
	assert.ErrorIs(t, svc.UpdateName(ctx, 777, "Имя"), domain.ErrNotFound)
}
