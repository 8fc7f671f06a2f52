package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/askbot/core/logger"
	"github.com/m3rciful/askbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendPhotoURL sends a photo hosted at a remote URL with the given caption.
// Telegram fetches the URL itself, so no local download happens.
func SendPhotoURL(c tele.Context, url, caption string) error {
	photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
	return sendAsync(c, "send.photo_url", "sendPhoto", func() error {
		return c.Send(photo)
	})
}

// SendPhotoFile uploads a photo from the local filesystem with the given caption.
// The caller is responsible for checking the file exists beforehand.
func SendPhotoFile(c tele.Context, path, caption string) error {
	photo := &tele.Photo{File: tele.FromDisk(path), Caption: caption}
	return sendAsync(c, "send.photo_file", "sendPhoto", func() error {
		return c.Send(photo)
	})
}
