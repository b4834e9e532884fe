// Package telegram is the chat transport boundary. It turns Telegram
// updates into dialogue-engine events and delivers the engine's replies,
// serializing events per user so one user's pending transaction wait never
// blocks another user.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/escalate-labs/escalatebot/internal/render"
)

// Engine is the dialogue surface the transport drives.
type Engine interface {
	HandleCommand(ctx context.Context, userID int64, cmd string) (render.Reply, error)
	HandleCallback(ctx context.Context, userID int64, data string) (render.Reply, error)
	HandleMessage(ctx context.Context, userID int64, text string) (render.Reply, error)
}

// Config holds transport parameters.
type Config struct {
	Token string
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int
}

// Bot runs the long-poll update loop.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine Engine
	cfg    Config
	logger *slog.Logger

	// userLocks serializes event processing per user. Distinct users run
	// concurrently; events for one user run one at a time.
	userLocks sync.Map // int64 -> *sync.Mutex
}

// New authenticates against the Bot API and returns the transport.
func New(cfg Config, engine Engine, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticate: %w", err)
	}

	logger = logger.With(slog.String("component", "telegram"))
	logger.Info("authenticated", slog.String("username", api.Self.UserName))

	return &Bot{api: api, engine: engine, cfg: cfg, logger: logger}, nil
}

// Run consumes updates until ctx is cancelled. Each update is dispatched in
// its own goroutine behind the per-user lock.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.dispatch(ctx, update)
		}
	}
}

// dispatch routes one update while holding the originating user's lock.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		b.withUserLock(cb.From.ID, func() { b.handleCallback(ctx, cb) })
	case update.Message != nil:
		msg := update.Message
		b.withUserLock(msg.From.ID, func() { b.handleMessage(ctx, msg) })
	}
}

func (b *Bot) withUserLock(userID int64, fn func()) {
	muAny, _ := b.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	fn()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	var (
		reply render.Reply
		err   error
	)
	if msg.IsCommand() {
		reply, err = b.engine.HandleCommand(ctx, userID, msg.Command())
	} else {
		reply, err = b.engine.HandleMessage(ctx, userID, msg.Text)
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "message handling failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	b.send(ctx, chatID, reply)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID

	// Acknowledge immediately so the client stops its spinner; the actual
	// work (possibly a two-minute confirmation wait) follows.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.DebugContext(ctx, "callback ack failed", slog.String("error", err.Error()))
	}

	reply, err := b.engine.HandleCallback(ctx, userID, cb.Data)
	if err != nil {
		b.logger.ErrorContext(ctx, "callback handling failed",
			slog.Int64("user_id", userID),
			slog.String("data", cb.Data),
			slog.String("error", err.Error()),
		)
	}
	if reply.Text == "" {
		return
	}

	// Edit the originating message in place, falling back to a fresh
	// message when the edit is rejected (e.g. identical content).
	if cb.Message != nil {
		chatID := cb.Message.Chat.ID
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, reply.Text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if kb := toInlineKeyboard(reply.Keyboard); kb != nil {
			edit.ReplyMarkup = kb
		}
		if _, err := b.api.Send(edit); err == nil {
			return
		}
		b.send(ctx, chatID, reply)
	}
}

// send delivers a reply as a new Markdown message. Empty replies (ignored
// events) are dropped.
func (b *Bot) send(ctx context.Context, chatID int64, reply render.Reply) {
	if reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb := toInlineKeyboard(reply.Keyboard); kb != nil {
		msg.ReplyMarkup = *kb
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.ErrorContext(ctx, "send failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// toInlineKeyboard converts the transport-neutral keyboard into Telegram
// inline markup. Nil for replies without buttons.
func toInlineKeyboard(kb render.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
