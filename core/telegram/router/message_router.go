package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/askbot/core/telegram"
	"github.com/m3rciful/askbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for a conversation state manager.
// Dispatch reports whether the update was consumed by an active conversation.
type FSM interface {
	Dispatch(c tele.Context) (bool, error)
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for free-text routing. Command-shaped text
// never enters a conversation: slash-texts that Telebot did not route are
// resolved via the command registry only. Plain text goes to the active
// conversation first; everything else falls back.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()
		isCommand := strings.HasPrefix(text, "/")

		if fsmMgr != nil && !isCommand {
			handled, err := fsmMgr.Dispatch(c)
			if handled || err != nil {
				logHandlerSummary(c, "fsm", start, "", "", err)
				return err
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
