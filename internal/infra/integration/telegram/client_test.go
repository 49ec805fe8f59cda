package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/unic-leads/internal/usecase"
)

type sentMessage struct {
	path      string
	chatID    string
	text      string
	parseMode string
}

func fakeBotAPI(t *testing.T, reply string) (*httptest.Server, *[]sentMessage) {
	t.Helper()
	var sent []sentMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		sent = append(sent, sentMessage{
			path:      r.URL.Path,
			chatID:    r.Form.Get("chat_id"),
			text:      r.Form.Get("text"),
			parseMode: r.Form.Get("parse_mode"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &sent
}

const okReply = `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100500,"type":"channel"}}}`

func notice() usecase.ApplicationNotice {
	return usecase.ApplicationNotice{
		FullName:   "Ivan_Petrov",
		BirthDate:  "01.01.2000",
		Phone:      "+375291234567",
		ReceivedAt: time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC),
	}
}

func TestSendApplicationToNumericChat(t *testing.T) {
	srv, sent := fakeBotAPI(t, okReply)

	c := NewClient("123:abc", "-100500", WithAPIEndpoint(srv.URL+"/bot%s/%s"))
	require.NoError(t, c.SendApplication(context.Background(), notice()))

	require.Len(t, *sent, 1)
	msg := (*sent)[0]
	assert.Equal(t, "/bot123:abc/sendMessage", msg.path)
	assert.Equal(t, "-100500", msg.chatID)
	assert.Equal(t, "Markdown", msg.parseMode)
	assert.Contains(t, msg.text, "Новая заявка с сайта")
	assert.Contains(t, msg.text, `Ivan\_Petrov`)
	assert.Contains(t, msg.text, "+375291234567")
}

func TestSendApplicationToChannelUsername(t *testing.T) {
	srv, sent := fakeBotAPI(t, okReply)

	c := NewClient("123:abc", "unic_hr", WithAPIEndpoint(srv.URL+"/bot%s/%s"))
	require.NoError(t, c.SendApplication(context.Background(), notice()))

	require.Len(t, *sent, 1)
	assert.Equal(t, "@unic_hr", (*sent)[0].chatID)
}

func TestSendApplicationAPIError(t *testing.T) {
	srv, _ := fakeBotAPI(t, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)

	c := NewClient("123:abc", "-1", WithAPIEndpoint(srv.URL+"/bot%s/%s"))
	err := c.SendApplication(context.Background(), notice())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendApplicationCancelledContext(t *testing.T) {
	srv, sent := fakeBotAPI(t, okReply)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("123:abc", "-1", WithAPIEndpoint(srv.URL+"/bot%s/%s"))
	assert.ErrorIs(t, c.SendApplication(ctx, notice()), context.Canceled)
	assert.Empty(t, *sent)
}

func TestSendApplicationCancelledInFlight(t *testing.T) {
	arrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-arrived
		cancel()
	}()

	c := NewClient("123:abc", "-1", WithAPIEndpoint(srv.URL+"/bot%s/%s"))
	start := time.Now()
	err := c.SendApplication(ctx, notice())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFormatNotice(t *testing.T) {
	minsk := time.FixedZone("Europe/Minsk", 3*60*60)

	text := FormatNotice(notice(), minsk)

	lines := strings.Split(text, "\n")
	assert.Equal(t, "🔔 *Новая заявка с сайта*", lines[0])
	assert.Equal(t, `📋 *ФИО*: Ivan\_Petrov`, lines[2])
	assert.Equal(t, "🎂 *Дата рождения*: 01.01.2000", lines[3])
	assert.Equal(t, "📱 *Телефон*: +375291234567", lines[4])
	assert.Equal(t, "⏰ *Дата заявки*: 14.03.2025, 12:30:05", lines[6])
}
