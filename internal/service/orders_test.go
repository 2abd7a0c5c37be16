package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
)

// memOrderStore mimics the SQL repository semantics in memory.
type memOrderStore struct {
	nextID int64
	orders map[int64]*models.Order
	now    time.Time

	nextOwnerID        int64
	owners             []*models.User
	createWithOwnerErr error
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[int64]*models.Order), now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (s *memOrderStore) Create(_ context.Context, userID int64, status models.Status, preferredTime string, maxActive int) (*models.Order, error) {
	active := 0
	for _, o := range s.orders {
		if o.UserID == userID && !o.Status.Done() {
			active++
		}
	}
	if active >= maxActive {
		return nil, domain.ErrQuotaExceeded
	}
	s.nextID++
	o := &models.Order{
		ID:            s.nextID,
		UserID:        userID,
		Status:        status,
		PreferredTime: preferredTime,
		CreatedAt:     s.now,
	}
	s.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (s *memOrderStore) CreateWithOwner(_ context.Context, owner *models.User, status models.Status, preferredTime string) (*models.Order, error) {
	if s.createWithOwnerErr != nil {
		return nil, s.createWithOwnerErr
	}
	s.nextOwnerID++
	owner.ID = s.nextOwnerID
	cp := *owner
	s.owners = append(s.owners, &cp)

	s.nextID++
	o := &models.Order{
		ID:            s.nextID,
		UserID:        owner.ID,
		Status:        status,
		PreferredTime: preferredTime,
		CreatedAt:     s.now,
	}
	s.orders[o.ID] = o
	ocp := *o
	return &ocp, nil
}

func (s *memOrderStore) ByID(_ context.Context, id int64) (*models.OrderWithUser, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &models.OrderWithUser{Order: *o}, nil
}

func (s *memOrderStore) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memOrderStore) ListPage(_ context.Context, done bool, page, perPage int) ([]models.OrderWithUser, int, error) {
	var all []models.OrderWithUser
	for _, o := range s.orders {
		if o.Status.Done() == done {
			all = append(all, models.OrderWithUser{Order: *o})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	start := page * perPage
	if start >= total {
		return nil, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *memOrderStore) SetStatus(_ context.Context, id int64, status models.Status, now time.Time) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	if status.Done() {
		if !o.CompletedAt.Valid {
			o.CompletedAt = sql.NullTime{Time: now, Valid: true}
		}
	} else {
		o.CompletedAt = sql.NullTime{}
	}
	cp := *o
	return &cp, nil
}

func (s *memOrderStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *memOrderStore) DeleteOwned(_ context.Context, id, userID int64) error {
	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return domain.ErrNotFound
	}
	if o.Status.Done() {
		return domain.ErrCancelCompleted
	}
	delete(s.orders, id)
	return nil
}

func (s *memOrderStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, o := range s.orders {
		if o.Status.Done() && o.CompletedAt.Valid && o.CompletedAt.Time.Before(before) {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func newTestOrders(store *memOrderStore) *Orders {
	svc := NewOrders(store, time.UTC)
	svc.now = func() time.Time { return store.now }
	return svc
}

func TestCreateForContact(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	contact := NewContact(" Пётр ", " +79990000000 ", " пр. Мира, 5 ")
	order, err := svc.CreateForContact(ctx, contact, "Завтра")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNewAdmin, order.Status)
	assert.Equal(t, contact.ID, order.UserID)
	assert.False(t, contact.TelegramID.Valid)

	require.Len(t, store.owners, 1)
	assert.Equal(t, "Пётр", store.owners[0].Name)
	assert.Equal(t, "+79990000000", store.owners[0].Phone)
}

func TestCreateForContactFailureCommitsNothing(t *testing.T) {
	store := newMemOrderStore()
	store.createWithOwnerErr = errors.New("db down")
	svc := newTestOrders(store)

	_, err := svc.CreateForContact(context.Background(), NewContact("Пётр", "+79990000000", "пр. Мира, 5"), "Завтра")
	require.Error(t, err)
	assert.Empty(t, store.owners)
	assert.Empty(t, store.orders)
}

func TestCreateQuota(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	for i := 0; i < MaxActiveOrders; i++ {
		_, err := svc.Create(ctx, 1, SourceUser, "Завтра")
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	// Another user is unaffected.
	_, err = svc.Create(ctx, 2, SourceUser, "Завтра")
	assert.NoError(t, err)

	// Completing one order frees a slot.
	_, err = svc.SetStatus(ctx, 1, models.StatusDone)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, SourceUser, "Завтра")
	assert.NoError(t, err)
}

func TestCreateStatusBySource(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, SourceUser, "Сегодня, 10:00")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNewUser, o.Status)

	o, err = svc.Create(ctx, 2, SourceAdmin, "после обеда")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNewAdmin, o.Status)
	assert.Equal(t, "после обеда", o.PreferredTime)
}

func TestSetStatusCompletedAtInvariant(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)

	done, err := svc.SetStatus(ctx, o.ID, models.StatusDone)
	require.NoError(t, err)
	require.True(t, done.CompletedAt.Valid)
	firstCompletion := done.CompletedAt.Time

	// Repeating the transition keeps the original completion instant.
	store.now = store.now.Add(time.Hour)
	done, err = svc.SetStatus(ctx, o.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, firstCompletion, done.CompletedAt.Time)

	// Leaving the completed status clears the timestamp.
	reopened, err := svc.SetStatus(ctx, o.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.False(t, reopened.CompletedAt.Valid)

	// Completing again stamps a fresh instant.
	done, err = svc.SetStatus(ctx, o.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, store.now, done.CompletedAt.Time)
}

func TestSetStatusUnknown(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, o.ID, models.Status("Выдумана"))
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	_, err = svc.SetStatus(ctx, 999, models.StatusDone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelByOwner(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)

	// Someone else's order is invisible to the caller.
	assert.ErrorIs(t, svc.CancelByOwner(ctx, o.ID, 2), domain.ErrNotFound)

	// Completed orders stay.
	_, err = svc.SetStatus(ctx, o.ID, models.StatusDone)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.CancelByOwner(ctx, o.ID, 1), domain.ErrCancelCompleted)

	_, err = svc.SetStatus(ctx, o.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.NoError(t, svc.CancelByOwner(ctx, o.ID, 1))
	_, err = svc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweepExpired(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	oldDone, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)
	freshDone, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)
	active, err := svc.Create(ctx, 1, SourceUser, "Завтра")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, oldDone.ID, models.StatusDone)
	require.NoError(t, err)

	store.now = store.now.Add(2 * time.Hour)
	_, err = svc.SetStatus(ctx, freshDone.ID, models.StatusDone)
	require.NoError(t, err)

	// 25 hours after the first completion, 23 after the second.
	store.now = store.now.Add(23 * time.Hour)

	deleted, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.Get(ctx, oldDone.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, freshDone.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, active.ID)
	assert.NoError(t, err)

	// Rerun deletes nothing further.
	deleted, err = svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestPagePartitions(t *testing.T) {
	store := newMemOrderStore()
	svc := newTestOrders(store)
	ctx := context.Background()

	// 12 active orders across users, 1 completed.
	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, int64(i+1), SourceUser, "Завтра")
		require.NoError(t, err)
	}
	done, err := svc.Create(ctx, 100, SourceAdmin, "утром")
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, done.ID, models.StatusDone)
	require.NoError(t, err)

	first, pages, err := svc.Page(ctx, false, 0)
	require.NoError(t, err)
	assert.Len(t, first, OrdersPerPage)
	assert.Equal(t, 2, pages)

	second, _, err := svc.Page(ctx, false, 1)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	// Completed orders live in their own partition.
	for _, o := range append(first, second...) {
		assert.NotEqual(t, done.ID, o.ID)
	}
	completed, pages, err := svc.Page(ctx, true, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)

	// Past the end: empty page, same page count.
	none, pages, err := svc.Page(ctx, false, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, 2, pages)
}

func TestSameDayPickup(t *testing.T) {
	assert.True(t, SameDayPickup(8, 0))
	assert.True(t, SameDayPickup(11, 29))
	assert.True(t, SameDayPickup(11, 30))
	assert.False(t, SameDayPickup(11, 31))
	assert.False(t, SameDayPickup(12, 0))
	assert.False(t, SameDayPickup(23, 59))
	assert.True(t, SameDayPickup(0, 0))
}

func TestPickupNotice(t *testing.T) {
	sameDay := "Мы заберём оборудование сегодня в ближайшее время!"
	nextDay := "Мы заберём оборудование завтра с 8:00 до 12:00."

	assert.Equal(t, sameDay, PickupNotice("Сегодня, 09:00"))
	assert.Equal(t, sameDay, PickupNotice("Сегодня, 11:30"))
	assert.Equal(t, nextDay, PickupNotice("Сегодня, 11:31"))
	assert.Equal(t, nextDay, PickupNotice("Завтра"))
	assert.Equal(t, nextDay, PickupNotice("после обеда"))
}

func TestDescriptors(t *testing.T) {
	assert.Equal(t, "Сегодня, 09:05", DescriptorToday(9, 5))
	assert.Equal(t, "Завтра", DescriptorTomorrow())
}
