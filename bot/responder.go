package bot

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/askbot/core/logger"
	tghelpers "github.com/m3rciful/askbot/core/telegram/helpers"
	"github.com/m3rciful/askbot/qa"
)

type replyKind int

const (
	replyText replyKind = iota
	replyPhotoURL
	replyPhotoFile
)

// reply is the fully planned outgoing message for one answered question.
type reply struct {
	kind  replyKind
	text  string
	image string

	// missingImage marks a local image reference that could not be found;
	// the reply degrades to an apology text.
	missingImage bool
}

// planReply decides how an answer is delivered. URL images are sent by
// reference with a two-line caption; local images are uploaded with a
// one-line caption. The caption formats intentionally differ.
func planReply(answer qa.Answer, name string, exists func(string) bool) reply {
	if answer.ImageRef == "" {
		return reply{kind: replyText, text: fmt.Sprintf(msgCaptionFmt, answer.Text, name)}
	}

	if strings.HasPrefix(answer.ImageRef, "http") {
		return reply{
			kind:  replyPhotoURL,
			image: answer.ImageRef,
			text:  fmt.Sprintf(msgURLCaptionFmt, answer.Text, name),
		}
	}

	if !exists(answer.ImageRef) {
		return reply{
			kind:         replyText,
			text:         fmt.Sprintf(msgLostImageFmt, name),
			image:        answer.ImageRef,
			missingImage: true,
		}
	}

	return reply{
		kind:  replyPhotoFile,
		image: answer.ImageRef,
		text:  fmt.Sprintf(msgCaptionFmt, answer.Text, name),
	}
}

func (a *App) respond(c tele.Context, answer qa.Answer, name string) error {
	r := planReply(answer, name, fileExists)

	if r.missingImage {
		ctx := tghelpers.BuildContext(c)
		logger.Error(ctx, "service.qa", "image.missing",
			slog.String("image", r.image),
		)
	}

	switch r.kind {
	case replyPhotoURL:
		return tghelpers.SendPhotoURL(c, r.image, r.text)
	case replyPhotoFile:
		return tghelpers.SendPhotoFile(c, r.image, r.text)
	default:
		return tghelpers.SendText(c, r.text)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
