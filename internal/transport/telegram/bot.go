// Package telegram exposes the assistant over a single-owner Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/internal/service/assistant"
	"github.com/sandevgo/agriaid/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	assistant *assistant.Assistant
	send      *sender
	ownerID   int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	asst *assistant.Assistant,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		assistant: asst,
		send:      newSender(b),
		ownerID:   cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/status", bot.handleStatus)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	ans, err := b.assistant.Ask(ctx, core.Query{
		Text:      c.Text(),
		SessionID: sessionID,
	})
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("question failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return b.send.sendMarkdown(ctx, c.Chat(), renderAnswer(ans), false)
}

func (b *Bot) handleStatus(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	st := b.assistant.Status(ctx)

	if !st.Connected {
		return c.Send(fmt.Sprintf("⚠️ Model %s is not reachable: %s", st.Model, st.Error))
	}
	return c.Send(fmt.Sprintf("✅ Model %s is ready", st.Model))
}

// renderAnswer appends the source list as Markdown links so the sender can
// convert the whole reply in one pass.
func renderAnswer(ans *assistant.Answer) string {
	var b strings.Builder
	b.WriteString(ans.Text)

	if len(ans.Sources) > 0 {
		b.WriteString("\n\n**Sources:**\n")
		for _, src := range ans.Sources {
			if src.URL != "" {
				b.WriteString(fmt.Sprintf("- [%s](%s)\n", src.Title, src.URL))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s\n", src.Title))
		}
	}
	return b.String()
}
