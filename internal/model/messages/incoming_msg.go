package messages

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/conversation"
)

const sorryMessage = "Sorry, something went wrong. Please try again later."

type messageSender interface {
	SendMessage(text string, chatID int64) error
	SendPhoto(png []byte, fileName string, chatID int64) error
	SendDocument(doc []byte, fileName string, chatID int64) error
}

type MessageHandler interface {
	Handle(ctx context.Context, chatID int64, text string) ([]conversation.Reply, error)
}

type Service struct {
	bot      string
	tgClient messageSender
	handler  MessageHandler
}

func NewService(bot string, tgClient messageSender, handler MessageHandler) *Service {
	return &Service{
		bot:      bot,
		tgClient: tgClient,
		handler:  handler,
	}
}

type Message struct {
	Text   string
	ChatID int64
}

// FromUpdate extracts the text message of an update, other update kinds are
// not handled by the bots.
func FromUpdate(update tgbotapi.Update) (Message, bool) {
	if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
		return Message{}, false
	}
	return Message{
		Text:   update.Message.Text,
		ChatID: update.Message.Chat.ID,
	}, true
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()
	span.SetTag("bot", s.bot)

	start := time.Now()
	err := s.handle(ctx, msg)
	elapsed := time.Since(start)

	observeResponse(s.bot, elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	logger.Debug("incoming message", zap.String("bot", s.bot), zap.Int64("chatID", msg.ChatID), zap.Int("length", len(msg.Text)))

	replies, err := s.handler.Handle(ctx, msg.ChatID, msg.Text)
	if err != nil {
		_ = s.tgClient.SendMessage(sorryMessage, msg.ChatID)
		return err
	}

	// The conversation has already moved on, a failed send only loses the reply.
	for _, reply := range replies {
		if err = s.send(reply, msg.ChatID); err != nil {
			logger.Error("cannot send reply", zap.String("bot", s.bot), zap.Int64("chatID", msg.ChatID), zap.Error(err))
			return nil
		}
	}
	return nil
}

func (s *Service) send(reply conversation.Reply, chatID int64) error {
	var err error
	switch {
	case reply.Photo != nil:
		err = s.tgClient.SendPhoto(reply.Photo, reply.FileName, chatID)
	case reply.Document != nil:
		err = s.tgClient.SendDocument(reply.Document, reply.FileName, chatID)
	default:
		err = s.tgClient.SendMessage(reply.Text, chatID)
	}
	return errors.Wrap(err, "send reply")
}
