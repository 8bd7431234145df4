package bot

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
)

type sentMessage struct {
	chatId    int64
	text      string
	parseMode string
}

type fakeApi struct {
	sent     []sentMessage
	failures int
}

func (f *fakeApi) SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error) {
	f.sent = append(f.sent, sentMessage{chatId: chatId, text: text, parseMode: opts.ParseMode})
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("Bad Request: can't parse entities")
	}
	return &tgbotapi.Message{}, nil
}

func newTestBot(api *fakeApi) *TgBot {
	return newTgBot("schooldesk_bot", api, 42, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `school\-years \(id\=3\)\.`, sanitize("school-years (id=3)."))
	assert.Equal(t, "plain text", sanitize("plain text"))
}

func TestSendMessageToAdmin(t *testing.T) {
	api := &fakeApi{}
	newTestBot(api).SendMessage("api down!")

	assert.Equal(t, []sentMessage{{chatId: 42, text: `api down\!`, parseMode: "MarkdownV2"}}, api.sent)
}

func TestSendMessageFallsBackToPlainText(t *testing.T) {
	api := &fakeApi{failures: 1}
	newTestBot(api).SendMessage("x_y")

	assert.Len(t, api.sent, 2)
	assert.Equal(t, "x_y", api.sent[1].text)
	assert.Empty(t, api.sent[1].parseMode)
}

func TestEmptyMessageIsSkipped(t *testing.T) {
	api := &fakeApi{}
	newTestBot(api).SendMessage("")
	assert.Empty(t, api.sent)
}
