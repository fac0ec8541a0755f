package messages

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finances-bots/finances-bots/internal/model/conversation"
)

const chatID int64 = 123

type senderMock struct {
	mock.Mock
}

func (m *senderMock) SendMessage(text string, chatID int64) error {
	return m.Called(text, chatID).Error(0)
}

func (m *senderMock) SendPhoto(png []byte, fileName string, chatID int64) error {
	return m.Called(png, fileName, chatID).Error(0)
}

func (m *senderMock) SendDocument(doc []byte, fileName string, chatID int64) error {
	return m.Called(doc, fileName, chatID).Error(0)
}

type handlerMock struct {
	mock.Mock
}

func (m *handlerMock) Handle(ctx context.Context, chatID int64, text string) ([]conversation.Reply, error) {
	args := m.Called(ctx, chatID, text)
	replies, _ := args.Get(0).([]conversation.Reply)
	return replies, args.Error(1)
}

func Test_OnTextReplies_ShouldSendEachInOrder(t *testing.T) {
	sender := &senderMock{}
	handler := &handlerMock{}
	handler.On("Handle", mock.Anything, chatID, "/start").
		Return([]conversation.Reply{{Text: "Hello!"}, {Text: "Log in"}}, nil)
	first := sender.On("SendMessage", "Hello!", chatID).Return(nil)
	sender.On("SendMessage", "Log in", chatID).Return(nil).NotBefore(first)

	model := NewService("financial", sender, handler)
	err := model.HandleIncomingMessage(context.Background(), Message{Text: "/start", ChatID: chatID})

	assert.NoError(t, err)
	sender.AssertExpectations(t)
}

func Test_OnPhotoAndDocument_ShouldSendFiles(t *testing.T) {
	sender := &senderMock{}
	handler := &handlerMock{}
	png, pdf := []byte("\x89PNG"), []byte("%PDF-")
	handler.On("Handle", mock.Anything, chatID, "/pdf_report").
		Return([]conversation.Reply{
			{Photo: png, FileName: "chart.png"},
			{Document: pdf, FileName: "report.pdf"},
		}, nil)
	sender.On("SendPhoto", png, "chart.png", chatID).Return(nil)
	sender.On("SendDocument", pdf, "report.pdf", chatID).Return(nil)

	model := NewService("report", sender, handler)
	err := model.HandleIncomingMessage(context.Background(), Message{Text: "/pdf_report", ChatID: chatID})

	assert.NoError(t, err)
	sender.AssertExpectations(t)
	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func Test_OnHandlerError_ShouldApologizeAndReturnError(t *testing.T) {
	sender := &senderMock{}
	handler := &handlerMock{}
	handler.On("Handle", mock.Anything, chatID, "confirm").
		Return(nil, errors.New("db is down"))
	sender.On("SendMessage", sorryMessage, chatID).Return(nil)

	model := NewService("financial", sender, handler)
	err := model.HandleIncomingMessage(context.Background(), Message{Text: "confirm", ChatID: chatID})

	assert.Error(t, err)
	sender.AssertExpectations(t)
}

func Test_OnSendErrorAfterHandled_ShouldNotReturnError(t *testing.T) {
	sender := &senderMock{}
	handler := &handlerMock{}
	handler.On("Handle", mock.Anything, chatID, "hi").
		Return([]conversation.Reply{{Text: "one"}, {Text: "two"}}, nil)
	sender.On("SendMessage", "one", chatID).Return(errors.New("telegram is down"))

	model := NewService("financial", sender, handler)
	err := model.HandleIncomingMessage(context.Background(), Message{Text: "hi", ChatID: chatID})

	assert.NoError(t, err)
	handler.AssertNumberOfCalls(t, "Handle", 1)
	sender.AssertNotCalled(t, "SendMessage", "two", chatID)
}

func Test_OnFromUpdate_ShouldKeepOnlyTextMessages(t *testing.T) {
	msg, ok := FromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "spent 10 reais on lunch via pix joe",
		Chat: &tgbotapi.Chat{ID: chatID},
	}})
	assert.True(t, ok)
	assert.Equal(t, Message{Text: "spent 10 reais on lunch via pix joe", ChatID: chatID}, msg)

	_, ok = FromUpdate(tgbotapi.Update{})
	assert.False(t, ok)

	_, ok = FromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}}})
	assert.False(t, ok)
}
