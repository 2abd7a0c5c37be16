package handlers

import (
	"context"
	"database/sql"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/telegram/state"
	"github.com/m3rciful/pickupbot/internal/domain"
	"github.com/m3rciful/pickupbot/internal/models"
	"github.com/m3rciful/pickupbot/internal/service"
)

// testContext implements the slice of tele.Context the dialog handlers use.
// The embedded nil interface panics on anything unexpected, which keeps the
// fake honest.
type testContext struct {
	tele.Context

	sender *tele.User
	text   string
	data   string

	values    map[string]interface{}
	sent      []string
	responses []string
}

func newTextContext(userID int64, text string) *testContext {
	return &testContext{
		sender: &tele.User{ID: userID},
		text:   text,
		values: make(map[string]interface{}),
	}
}

func newCallbackContext(userID int64, data string) *testContext {
	c := newTextContext(userID, "")
	c.data = data
	return c
}

func (c *testContext) Sender() *tele.User  { return c.sender }
func (c *testContext) Chat() *tele.Chat    { return &tele.Chat{ID: c.sender.ID} }
func (c *testContext) Update() tele.Update { return tele.Update{} }
func (c *testContext) Text() string        { return c.text }

func (c *testContext) Callback() *tele.Callback {
	if c.data == "" {
		return nil
	}
	return &tele.Callback{Data: c.data}
}

func (c *testContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *testContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

func (c *testContext) Respond(resp ...*tele.CallbackResponse) error {
	for _, r := range resp {
		c.responses = append(c.responses, r.Text)
	}
	return nil
}

func (c *testContext) Get(key string) interface{}        { return c.values[key] }
func (c *testContext) Set(key string, value interface{}) { c.values[key] = value }

func (c *testContext) lastSent() string {
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

// stubUserStore is an in-memory service.UserStore that counts writes.
type stubUserStore struct {
	nextID  int64
	users   map[int64]*models.User
	creates int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[int64]*models.User)}
}

func (s *stubUserStore) Create(_ context.Context, u *models.User) error {
	s.creates++
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUserStore) ByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	for _, u := range s.users {
		if u.TelegramID.Valid && u.TelegramID.Int64 == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserStore) ByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserStore) countByTelegramID(telegramID int64) int {
	n := 0
	for _, u := range s.users {
		if u.TelegramID.Valid && u.TelegramID.Int64 == telegramID {
			n++
		}
	}
	return n
}

func (s *stubUserStore) set(id int64, apply func(*models.User)) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	apply(u)
	return nil
}

func (s *stubUserStore) SetUsername(_ context.Context, id int64, username string) error {
	return s.set(id, func(u *models.User) { u.Username = sql.NullString{String: username, Valid: true} })
}

func (s *stubUserStore) SetName(_ context.Context, id int64, name string) error {
	return s.set(id, func(u *models.User) { u.Name = name })
}

func (s *stubUserStore) SetPhone(_ context.Context, id int64, phone string) error {
	return s.set(id, func(u *models.User) { u.Phone = phone })
}

func (s *stubUserStore) SetAddress(_ context.Context, id int64, address string) error {
	return s.set(id, func(u *models.User) { u.Address = address })
}

func (s *stubUserStore) SetOrganization(_ context.Context, id int64, organization string) error {
	return s.set(id, func(u *models.User) { u.Organization = sql.NullString{String: organization, Valid: true} })
}

// stubOrderStore is an in-memory service.OrderStore.
type stubOrderStore struct {
	nextID int64
	orders map[int64]*models.Order

	nextOwnerID        int64
	owners             []*models.User
	createWithOwnerErr error
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{orders: make(map[int64]*models.Order)}
}

func (s *stubOrderStore) Create(_ context.Context, userID int64, status models.Status, preferredTime string, maxActive int) (*models.Order, error) {
	active := 0
	for _, o := range s.orders {
		if o.UserID == userID && !o.Status.Done() {
			active++
		}
	}
	if maxActive > 0 && active >= maxActive {
		return nil, domain.ErrQuotaExceeded
	}
	s.nextID++
	o := &models.Order{ID: s.nextID, UserID: userID, Status: status, PreferredTime: preferredTime, CreatedAt: time.Now()}
	s.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (s *stubOrderStore) CreateWithOwner(_ context.Context, owner *models.User, status models.Status, preferredTime string) (*models.Order, error) {
	if s.createWithOwnerErr != nil {
		return nil, s.createWithOwnerErr
	}
	s.nextOwnerID++
	owner.ID = s.nextOwnerID
	cp := *owner
	s.owners = append(s.owners, &cp)

	s.nextID++
	o := &models.Order{ID: s.nextID, UserID: owner.ID, Status: status, PreferredTime: preferredTime, CreatedAt: time.Now()}
	s.orders[o.ID] = o
	ocp := *o
	return &ocp, nil
}

func (s *stubOrderStore) ByID(_ context.Context, id int64) (*models.OrderWithUser, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &models.OrderWithUser{Order: *o}, nil
}

func (s *stubOrderStore) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderStore) ListPage(_ context.Context, done bool, page, perPage int) ([]models.OrderWithUser, int, error) {
	var all []models.OrderWithUser
	for _, o := range s.orders {
		if o.Status.Done() == done {
			all = append(all, models.OrderWithUser{Order: *o})
		}
	}
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

func (s *stubOrderStore) SetStatus(_ context.Context, id int64, status models.Status, now time.Time) (*models.Order, error) {
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

func (s *stubOrderStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *stubOrderStore) DeleteOwned(_ context.Context, id, userID int64) error {
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

func (s *stubOrderStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, o := range s.orders {
		if o.Status.Done() && o.CompletedAt.Valid && o.CompletedAt.Time.Before(before) {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

type inlineQueue struct{}

func (inlineQueue) Enqueue(_ context.Context, _, _ string, run func() error) error { return run() }

func newTestHandlers(adminIDs ...int64) (*Handlers, *stubUserStore, *stubOrderStore) {
	users := newStubUserStore()
	orders := newStubOrderStore()
	h := New(
		state.NewMemoryManager(),
		service.NewUsers(users),
		service.NewOrders(orders, time.UTC),
		service.NewNotifier(nil, inlineQueue{}, time.UTC),
		adminIDs,
	)
	return h, users, orders
}
