package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/askbot/core/logger"
	tghelpers "github.com/m3rciful/askbot/core/telegram/helpers"
	"github.com/m3rciful/askbot/core/telegram/state"
)

// Fallback used when a session has no remembered display name.
const fallbackName = "there"

const (
	msgAskName       = "Hi! What is your name?"
	msgHelp          = "Help!"
	msgAskNewName    = "What is your new name?"
	msgGreetFmt      = "Nice to meet you, %s! Ask me anything."
	msgRenameFmt     = "Got it, I will call you %s from now on! Ask me anything."
	msgNoMatchFmt    = "I don't understand that question, %s."
	msgLostImageFmt  = "Sorry, %s, I couldn't find the image."
	msgURLCaptionFmt = "%s \nHope my answer is reasonable, %s."
	msgCaptionFmt    = "%s %s."
)

// handleStart opens (or restarts) the conversation and asks for a name.
// The session is persisted before the reply goes out.
func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	if _, err := a.fsm.Begin(ctx, c.Sender().ID, StateAwaitingName); err != nil {
		return err
	}
	return tghelpers.SendText(c, msgAskName)
}

// handleHelp replies with the help text and never touches session state.
func (a *App) handleHelp(c tele.Context) error {
	tghelpers.WithHandler(c, "help")
	return tghelpers.SendText(c, msgHelp)
}

// handleChangeName moves an idle conversation into the rename step. Outside
// the question-answering state the command is ignored.
func (a *App) handleChangeName(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "changename")
	userID := c.Sender().ID

	sess, err := a.fsm.Session(ctx, userID)
	if errors.Is(err, state.ErrNotFound) {
		logger.Debug(ctx, "service.sessions", "changename.skip",
			slog.Int64("user_id", userID),
			slog.String("reason", "no_session"),
		)
		return nil
	}
	if err != nil {
		return err
	}
	if sess.State != StateAwaitingQuestion {
		logger.Debug(ctx, "service.sessions", "changename.skip",
			slog.Int64("user_id", userID),
			slog.String("state", string(sess.State)),
		)
		return nil
	}

	if err := a.fsm.Transition(ctx, sess, StateAwaitingNewName); err != nil {
		return err
	}
	return tghelpers.SendText(c, msgAskNewName)
}

// handleNameProvided records the name given after /start.
func (a *App) handleNameProvided(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "ask_name")
	sess, ok := state.SessionFrom(c)
	if !ok {
		return nil
	}

	sess.DisplayName = strings.TrimSpace(c.Text())
	if err := a.fsm.Transition(ctx, sess, StateAwaitingQuestion); err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf(msgGreetFmt, sess.DisplayName))
}

// handleNameUpdated records the name given after /changename.
func (a *App) handleNameUpdated(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "change_name")
	sess, ok := state.SessionFrom(c)
	if !ok {
		return nil
	}

	sess.DisplayName = strings.TrimSpace(c.Text())
	if err := a.fsm.Transition(ctx, sess, StateAwaitingQuestion); err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf(msgRenameFmt, sess.DisplayName))
}

// handleQuestion resolves free text against the stored questions and replies
// with the best answer. The session stays in the question state.
func (a *App) handleQuestion(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "answer")
	sess, ok := state.SessionFrom(c)
	if !ok {
		return nil
	}
	name := sess.DisplayNameOr(fallbackName)

	answer, _, matched, err := a.qa.Lookup(ctx, c.Text())
	if err != nil {
		return err
	}
	if !matched {
		return tghelpers.SendText(c, fmt.Sprintf(msgNoMatchFmt, name))
	}
	return a.respond(c, answer, name)
}

// handleStats reports row counts to the admin.
func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "stats")

	questions, err := a.questions.CountQuestions(ctx)
	if err != nil {
		return err
	}
	sessions, err := a.sessions.CountSessions(ctx)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf("Questions: %d\nSessions: %d", questions, sessions))
}
