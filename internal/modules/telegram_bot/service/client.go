package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	healthsvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/health/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
)

const (
	broadcastAttempts = 3
	broadcastBackoff  = 500 * time.Millisecond
)

// errBlocked — подписчик заблокировал бота, ретраить бессмысленно.
var errBlocked = pkgerrors.New("telegram: blocked by subscriber")

// Telegram — рассылка сигналов + управление подпиской.
// При пустом токене все методы — no-op, сканер работает «вхолостую» в логи.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	subs   SubscriberStore
	state  *healthsvc.State
	prices PriceSource
}

func NewTelegram(cfg *config.Config, subs SubscriberStore, state *healthsvc.State, prices PriceSource) (*Telegram, error) {
	t := &Telegram{
		cfg:    cfg,
		subs:   subs,
		state:  state,
		prices: prices,
	}
	if cfg.Telegram.Token == "" {
		logger.Warn("[TG] token is empty, notifier disabled")
		return t, nil
	}

	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	t.bot = b
	return t, nil
}

// BroadcastSignal шлёт сигнал всем подписчикам с ретраями.
// Постоянный отказ «заблокировал бота» снимает подписчика с рассылки.
func (t *Telegram) BroadcastSignal(ctx context.Context, sig *models.Signal) {
	if t == nil || t.bot == nil {
		return
	}

	subs, err := t.subs.List(ctx)
	if err != nil {
		logger.Error("[TG] list subscribers: %v", err)
		return
	}

	text := FormatSignal(sig)
	for _, sub := range subs {
		if err := t.sendWithRetry(ctx, sub.ChatID, text); err != nil {
			if pkgerrors.Is(err, errBlocked) {
				logger.Warn("[TG] %d blocked the bot, unsubscribing", sub.ChatID)
				if rmErr := t.subs.Remove(ctx, sub.ChatID); rmErr != nil {
					logger.Error("[TG] remove %d: %v", sub.ChatID, rmErr)
				}
				continue
			}
			logger.Error("[TG] send to %d: %v", sub.ChatID, err)
		}
	}
}

func (t *Telegram) sendWithRetry(ctx context.Context, chatID int64, text string) error {
	var lastErr error
	for attempt := 0; attempt < broadcastAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(broadcastBackoff << attempt):
			}
		}

		_, err := t.bot.Send(tgbot.NewMessage(chatID, text))
		if err == nil {
			return nil
		}
		if isBlockedErr(err) {
			return errBlocked
		}
		lastErr = err
	}
	return pkgerrors.Wrap(lastErr, "broadcast retries exhausted")
}

// isBlockedErr — постоянные отказы Bot API, после которых чат мёртв.
func isBlockedErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "blocked by the user") ||
		strings.Contains(s, "user is deactivated") ||
		strings.Contains(s, "chat not found")
}

// SendService — служебное сообщение админу (старт, аутажи источников).
func (t *Telegram) SendService(ctx context.Context, format string, args ...any) {
	if t == nil || t.bot == nil || t.cfg.Telegram.AdminChatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.cfg.Telegram.AdminChatID, fmt.Sprintf(format, args...)))
}

// Start: long-polling команд подписки.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil || !upd.Message.IsCommand() {
					continue
				}
				t.handleCommand(ctx, upd.Message)
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t != nil && t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
}

func (t *Telegram) handleCommand(ctx context.Context, msg *tgbot.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		sub := &models.Subscriber{
			ChatID:    chatID,
			Name:      strings.TrimSpace(msg.From.UserName),
			CreatedAt: time.Now().UTC(),
		}
		if err := t.subs.Add(ctx, sub); err != nil {
			logger.Error("[TG] subscribe %d: %v", chatID, err)
			t.reply(chatID, "❗️ Не удалось подписать, попробуйте позже")
			return
		}
		t.reply(chatID, fmt.Sprintf(
			"✅ Подписка оформлена\nИнструменты: %s\nТаймфрейм: %s",
			strings.Join(t.cfg.Scan.Instruments, ", "), t.cfg.Scan.Interval,
		))
	case "stop":
		if err := t.subs.Remove(ctx, chatID); err != nil {
			logger.Error("[TG] unsubscribe %d: %v", chatID, err)
		}
		t.reply(chatID, "📴 Подписка отключена")
	case "status":
		t.reply(chatID, t.statusText())
	}
}

func (t *Telegram) statusText() string {
	var b strings.Builder
	b.WriteString("📊 Статус сканера\n")
	fmt.Fprintf(&b, "Аптайм: %s\n", t.state.Uptime().Round(time.Second))
	if last := t.state.LastScan(); !last.IsZero() {
		fmt.Fprintf(&b, "Последний скан: %s назад\n", time.Since(last).Round(time.Second))
	} else {
		b.WriteString("Последний скан: ещё не было\n")
	}
	fmt.Fprintf(&b, "Сигналов отправлено: %d\n", t.state.SignalsSent())

	b.WriteString("\nИнструменты:\n")
	for _, inst := range t.cfg.Scan.Instruments {
		if px, ok := t.prices.LastPrice(inst); ok {
			fmt.Fprintf(&b, "• %s — %s\n", inst, formatPx(px))
		} else {
			fmt.Fprintf(&b, "• %s\n", inst)
		}
	}
	return b.String()
}

func (t *Telegram) reply(chatID int64, text string) {
	if t.bot == nil {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(chatID, text))
}
