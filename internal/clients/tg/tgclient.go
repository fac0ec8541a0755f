package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	pollTimeoutSeconds  = 60
)

type tokenGetter interface {
	Token() string
}

type Client struct {
	client *tgbotapi.BotAPI
}

func New(tokenGetter tokenGetter) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(tokenGetter.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	return &Client{client}, nil
}

func (c *Client) UserName() string {
	return c.client.Self.UserName
}

func (c *Client) SendMessage(text string, chatID int64) error {
	_, err := c.client.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func (c *Client) SendPhoto(png []byte, fileName string, chatID int64) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: png})
	if _, err := c.client.Send(photo); err != nil {
		return errors.Wrap(err, "client.Send photo")
	}
	return nil
}

func (c *Client) SendDocument(doc []byte, fileName string, chatID int64) error {
	document := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: doc})
	if _, err := c.client.Send(document); err != nil {
		return errors.Wrap(err, "client.Send document")
	}
	return nil
}

// RegisterWebhook points the bot at url, replacing any previous webhook.
func (c *Client) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return errors.Wrap(err, "build webhook")
	}
	if _, err = c.client.Request(wh); err != nil {
		return errors.Wrap(err, "set webhook")
	}

	info, err := c.client.GetWebhookInfo()
	if err != nil {
		return errors.Wrap(err, "get webhook info")
	}
	if info.LastErrorDate != 0 {
		logger.Warn("telegram reports webhook errors",
			zap.String("bot", c.UserName()),
			zap.String("lastError", info.LastErrorMessage),
		)
	}
	logger.Info("webhook registered", zap.String("bot", c.UserName()), zap.String("url", url))
	return nil
}

// ListenUpdates long-polls Telegram instead of receiving a webhook, it is used
// when no public URL is configured.
func (c *Client) ListenUpdates(ctx context.Context, msgModel *messages.Service, timeout time.Duration) {
	if _, err := c.client.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Error("cannot delete webhook before polling", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = pollTimeoutSeconds

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages", zap.String("bot", c.UserName()))

	for {
		select {
		case <-ctx.Done():
			c.client.StopReceivingUpdates()
			logger.Info("Stop listening for messages", zap.String("bot", c.UserName()))
			return
		case update := <-updates:
			c.listenOnce(ctx, update, msgModel, timeout)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, msgModel *messages.Service, timeout time.Duration) {
	msg, ok := messages.FromUpdate(update)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := msgModel.HandleIncomingMessage(ctx, msg); err != nil {
		logger.Error("error processing message:", zap.Error(err))
	}
}
