// Package telegram delivers rasterized charts to Telegram chats.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/render/raster"
	tb "gopkg.in/tucnak/telebot.v2"
)

var ErrNoUsers = errors.New("no telegram users configured")

// markdown escapes the characters Telegram's Markdown mode treats as markup
var markdown = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// Sender sends messages to Telegram, *tb.Bot implements it
type Sender interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
}

// Renderer sends each rendered chart as a photo to every configured user
type Renderer struct {
	sender Sender
	bot    *tb.Bot
	users  []int64
	raster *raster.Rasterizer
	store  core.ChartStore
	log    logger.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithRaster sets the rasterizer producing the photos
func WithRaster(r *raster.Rasterizer) Option {
	return func(t *Renderer) {
		t.raster = r
	}
}

// WithStore answers the /charts and /chart commands from store
func WithStore(store core.ChartStore) Option {
	return func(t *Renderer) {
		t.store = store
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(t *Renderer) {
		t.log = log
	}
}

// New creates a Renderer backed by a bot with the given token. Only users can talk to the bot.
func New(token string, users []int64, options ...Option) (*Renderer, error) {
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	t := newRenderer(users, options)

	bot, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     token,
		Poller:    t.authMiddleware(poller),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	t.bot = bot
	t.sender = bot

	if t.store != nil {
		bot.Handle("/charts", t.handleList)
		bot.Handle("/chart", t.handleChart)
	}
	return t, nil
}

// NewWithSender creates a Renderer sending through sender, without command handling
func NewWithSender(sender Sender, users []int64, options ...Option) *Renderer {
	t := newRenderer(users, options)
	t.sender = sender
	return t
}

func newRenderer(users []int64, options []Option) *Renderer {
	t := &Renderer{
		users: users,
		log:   logger.Nop(),
	}
	for _, option := range options {
		option(t)
	}
	if t.raster == nil {
		t.raster = raster.New(raster.WithLogger(t.log))
	}
	return t
}

// authMiddleware drops updates from users that are not configured
func (t *Renderer) authMiddleware(poller tb.Poller) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			return false
		}
		if slices.Contains(t.users, u.Message.Sender.ID) {
			return true
		}

		t.log.Warn("unauthorized telegram user ", u.Message.Sender.ID)
		return false
	})
}

// Start polls for commands until ctx is done
func (t *Renderer) Start(ctx context.Context) {
	if t.bot == nil {
		return
	}

	go t.bot.Start()
	<-ctx.Done()
	t.bot.Stop()
}

// Render sends the chart to every user. Failures for some users do not stop
// delivery to the others, all of them are returned.
func (t *Renderer) Render(ctx context.Context, chart core.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.users) == 0 {
		return ErrNoUsers
	}

	image, err := t.photo(chart)
	if err != nil {
		return err
	}

	var errs []error
	for _, user := range t.users {
		if err := t.send(&tb.User{ID: user}, chart.Options.Title, image); err != nil {
			t.log.WithError(err).WithField("user", user).Error("failed to send chart")
			errs = append(errs, fmt.Errorf("user %d: %w", user, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Renderer) photo(chart core.Chart) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	if err := t.raster.Encode(buffer, chart); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (t *Renderer) send(to tb.Recipient, caption string, image []byte) error {
	photo := &tb.Photo{
		File:    tb.FromReader(bytes.NewReader(image)),
		Caption: markdown.Replace(caption),
	}
	_, err := t.sender.Send(to, photo)
	return err
}

// handleList answers /charts with the stored chart titles
func (t *Renderer) handleList(m *tb.Message) {
	records, err := t.store.List()
	if err != nil {
		t.log.WithError(err).Error("failed to list charts")
		t.reply(m, "Failed to list charts")
		return
	}

	if len(records) == 0 {
		t.reply(m, "No chart published yet")
		return
	}

	var text strings.Builder
	for _, record := range records {
		fmt.Fprintf(&text, "`%d` %s (%d series)\n", record.ID, markdown.Replace(record.Title), record.Series)
	}
	t.reply(m, text.String())
}

// handleChart answers /chart <id> with the chart image
func (t *Renderer) handleChart(m *tb.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(m.Payload), 10, 64)
	if err != nil {
		t.reply(m, "Usage: /chart <id>")
		return
	}

	chart, err := t.store.Chart(id)
	if errors.Is(err, core.ErrNotFound) {
		t.reply(m, fmt.Sprintf("Chart %d not found", id))
		return
	}
	if err != nil {
		t.log.WithError(err).Error("failed to load chart")
		t.reply(m, "Failed to load chart")
		return
	}

	image, err := t.photo(chart)
	if err != nil {
		t.log.WithError(err).Error("failed to draw chart")
		t.reply(m, "Failed to draw chart")
		return
	}

	if err := t.send(m.Sender, chart.Options.Title, image); err != nil {
		t.log.WithError(err).Error("failed to send chart")
	}
}

func (t *Renderer) reply(m *tb.Message, text string) {
	if _, err := t.sender.Send(m.Sender, text); err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}
