package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xavierca1/unic-leads/internal/usecase"
)

const timestampLayout = "02.01.2006, 15:04:05"

// Client posts application notices to one chat or channel.
type Client struct {
	bot      *tgbotapi.BotAPI
	chatID   string
	location *time.Location
}

func NewClient(token, chatID string, opts ...func(*Client)) *Client {
	// Built directly instead of tgbotapi.NewBotAPI so startup does not depend
	// on a getMe round trip.
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)

	c := &Client{bot: bot, chatID: chatID, location: time.UTC}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAPIEndpoint points the client at another Bot API server, in the
// tgbotapi format "https://host/bot%s/%s".
func WithAPIEndpoint(endpoint string) func(*Client) {
	return func(c *Client) {
		c.bot.SetAPIEndpoint(endpoint)
	}
}

func WithLocation(loc *time.Location) func(*Client) {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

func (c *Client) SendApplication(ctx context.Context, notice usecase.ApplicationNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := c.newMessage(FormatNotice(notice, c.location))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := c.botFor(ctx).Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// botFor returns a copy of the bot whose HTTP calls carry ctx; tgbotapi
// itself takes no context.
func (c *Client) botFor(ctx context.Context) *tgbotapi.BotAPI {
	bot := *c.bot
	bot.Client = ctxClient{ctx: ctx, base: c.bot.Client}
	return &bot
}

type ctxClient struct {
	ctx  context.Context
	base tgbotapi.HTTPClient
}

func (c ctxClient) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req.WithContext(c.ctx))
}

func (c *Client) newMessage(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(c.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	username := c.chatID
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return tgbotapi.NewMessageToChannel(username, text)
}

// FormatNotice renders the recruiters' message. User input is escaped so a
// stray "_" or "*" cannot break the Markdown.
func FormatNotice(n usecase.ApplicationNotice, loc *time.Location) string {
	esc := func(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s) }

	var b strings.Builder
	b.WriteString("🔔 *Новая заявка с сайта*\n\n")
	b.WriteString("📋 *ФИО*: " + esc(n.FullName) + "\n")
	b.WriteString("🎂 *Дата рождения*: " + esc(n.BirthDate) + "\n")
	b.WriteString("📱 *Телефон*: " + esc(n.Phone) + "\n\n")
	b.WriteString("⏰ *Дата заявки*: " + n.ReceivedAt.In(loc).Format(timestampLayout))
	return b.String()
}
