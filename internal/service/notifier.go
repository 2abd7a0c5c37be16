package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/hashicorp/go-multierror"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickupbot/core/logger"
	"github.com/m3rciful/pickupbot/core/telegram/format"
	"github.com/m3rciful/pickupbot/core/telegram/keyboard"
	"github.com/m3rciful/pickupbot/internal/models"
)

const adminOrdersToken = "admin_orders"

// Queue is the async outbound channel the notifier publishes through.
type Queue interface {
	Enqueue(ctx context.Context, action, endpoint string, run func() error) error
}

// Notifier fans order events out to all configured admins. Delivery is best
// effort: each recipient is an independent job, failures are aggregated into
// a log line and never surfaced to the user who triggered the event.
type Notifier struct {
	admins []int64
	queue  Queue
	loc    *time.Location

	bot atomic.Pointer[tele.Bot]

	// send delivers one message; replaced in tests.
	send func(chatID int64, text string, opts ...interface{}) error
}

// NewNotifier constructs the notifier. The bot handle is attached later,
// once the transport is up.
func NewNotifier(admins []int64, queue Queue, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	n := &Notifier{admins: admins, queue: queue, loc: loc}
	n.send = n.sendViaBot
	return n
}

// SetBot attaches the live bot once the transport has started.
func (n *Notifier) SetBot(bot *tele.Bot) {
	n.bot.Store(bot)
}

func (n *Notifier) sendViaBot(chatID int64, text string, opts ...interface{}) error {
	bot := n.bot.Load()
	if bot == nil {
		return fmt.Errorf("notifier: bot not attached")
	}
	_, err := bot.Send(&tele.User{ID: chatID}, text, opts...)
	return err
}

func listOrdersMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Список заявок", Data: adminOrdersToken},
	})
}

// OrderCreated announces a user-placed order to every admin.
func (n *Notifier) OrderCreated(ctx context.Context, order *models.Order, user *models.User, pickupNotice string) {
	text := fmt.Sprintf(
		"Новая заявка #%d\n"+
			"От: @%s\n"+
			"Пользователь выбрал: %s\n"+
			"Оформлена в %s\n"+
			"Статус: %s\n\n"+
			"%s",
		order.ID,
		handleOf(user),
		order.PreferredTime,
		order.CreatedAt.In(n.loc).Format("2006-01-02 15:04"),
		order.Status,
		pickupNotice,
	)
	n.broadcast(ctx, "notify_order_created", text, listOrdersMarkup())
}

// OrderCancelled announces a user-initiated cancellation to every admin.
func (n *Notifier) OrderCancelled(ctx context.Context, order models.Order, user *models.User) {
	text := fmt.Sprintf(
		"❌ Заявка #%d отменена пользователем\n"+
			"От: @%s\n"+
			"Пользователь выбрал: %s\n"+
			"Оформлена в %s\n"+
			"Статус: %s",
		order.ID,
		handleOf(user),
		order.PreferredTime,
		order.CreatedAt.In(n.loc).Format("2006-01-02 15:04"),
		order.Status,
	)
	n.broadcast(ctx, "notify_order_cancelled", text, listOrdersMarkup())
}

// DirectMessage forwards a user's free-form message with their profile.
func (n *Notifier) DirectMessage(ctx context.Context, user *models.User, telegramID int64, username, text string) {
	name := "Неизвестный"
	phone := "Не указан"
	if user != nil {
		name = user.Name
		if user.Phone != "" {
			phone = user.Phone
		}
	}
	if username == "" {
		username = "NoUsername"
	}
	body := fmt.Sprintf(
		"📩 <b>Новое сообщение от пользователя</b>\n\n"+
			"👤 <b>Имя:</b> %s\n"+
			"🆔 <b>ID:</b> %d\n"+
			"🔗 <b>Тег:</b> @%s\n"+
			"📞 <b>Телефон:</b> %s\n\n"+
			"✉️ <b>Текст сообщения:</b>\n%s",
		format.EscapeHTML(name),
		telegramID,
		format.EscapeHTML(username),
		format.EscapeHTML(phone),
		format.EscapeHTML(text),
	)
	n.broadcast(ctx, "notify_direct_message", body, tele.ModeHTML)
}

func (n *Notifier) broadcast(ctx context.Context, action, text string, opts ...interface{}) {
	var errs *multierror.Error
	for _, adminID := range n.admins {
		adminID := adminID
		err := n.queue.Enqueue(ctx, action, "send_message", func() error {
			return n.send(adminID, text, opts...)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("admin %d: %w", adminID, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		logger.Warn(ctx, "notifier", "notify.enqueue_failed",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
	}
}

func handleOf(user *models.User) string {
	if user != nil && user.Username.Valid && user.Username.String != "" {
		return user.Username.String
	}
	return "NoUsername"
}
