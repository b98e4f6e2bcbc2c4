package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/render/raster"
	"github.com/raykavin/miniplot/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

type sent struct {
	to   string
	what interface{}
}

type fakeSender struct {
	sent []sent
	fail map[string]bool
}

func (f *fakeSender) Send(to tb.Recipient, what interface{}, _ ...interface{}) (*tb.Message, error) {
	if f.fail[to.Recipient()] {
		return nil, errors.New("blocked")
	}
	f.sent = append(f.sent, sent{to: to.Recipient(), what: what})
	return &tb.Message{}, nil
}

func chart() core.Chart {
	return core.Chart{
		Options: core.Options{Title: "Squares"},
		Series:  []core.Series{{Name: "Line 0", Color: core.Red, Points: []core.Point{{X: 0, Y: 1}, {X: 1, Y: 4}}}},
	}
}

func smallRaster() Option {
	return WithRaster(raster.New(raster.WithSize(120, 90)))
}

func TestRenderer_Render(t *testing.T) {
	sender := &fakeSender{}
	r := NewWithSender(sender, []int64{10, 20}, smallRaster())

	require.NoError(t, r.Render(context.Background(), chart()))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "10", sender.sent[0].to)
	assert.Equal(t, "20", sender.sent[1].to)

	photo, ok := sender.sent[0].what.(*tb.Photo)
	require.True(t, ok)
	assert.Equal(t, "Squares", photo.Caption)
}

func TestRenderer_PartialFailure(t *testing.T) {
	sender := &fakeSender{fail: map[string]bool{"10": true}}
	r := NewWithSender(sender, []int64{10, 20}, smallRaster())

	err := r.Render(context.Background(), chart())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user 10")
	assert.Len(t, sender.sent, 1)
}

func TestRenderer_NoUsers(t *testing.T) {
	r := NewWithSender(&fakeSender{}, nil)
	require.ErrorIs(t, r.Render(context.Background(), chart()), ErrNoUsers)
}

func TestRenderer_Commands(t *testing.T) {
	store, err := storage.FromMemory()
	require.NoError(t, err)
	defer store.Close()

	sender := &fakeSender{}
	r := NewWithSender(sender, []int64{10}, smallRaster(), WithStore(store))
	user := &tb.User{ID: 10}

	r.handleList(&tb.Message{Sender: user})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "No chart published yet", sender.sent[0].what)

	id, err := store.Save(chart())
	require.NoError(t, err)

	r.handleList(&tb.Message{Sender: user})
	assert.Contains(t, sender.sent[1].what, "Squares")

	r.handleChart(&tb.Message{Sender: user, Payload: "abc"})
	assert.Equal(t, "Usage: /chart <id>", sender.sent[2].what)

	r.handleChart(&tb.Message{Sender: user, Payload: "99"})
	assert.Equal(t, "Chart 99 not found", sender.sent[3].what)

	r.handleChart(&tb.Message{Sender: user, Payload: " 1 "})
	require.Len(t, sender.sent, 5)
	assert.IsType(t, &tb.Photo{}, sender.sent[4].what)
	assert.Equal(t, int64(1), id)
}

func TestRenderer_EscapesTitles(t *testing.T) {
	store, err := storage.FromMemory()
	require.NoError(t, err)
	defer store.Close()

	titled := chart()
	titled.Options.Title = "joint_angles *raw* [v2]"
	_, err = store.Save(titled)
	require.NoError(t, err)

	sender := &fakeSender{}
	r := NewWithSender(sender, []int64{10}, smallRaster(), WithStore(store))
	user := &tb.User{ID: 10}

	r.handleList(&tb.Message{Sender: user})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "`1` joint\\_angles \\*raw\\* \\[v2] (1 series)\n", sender.sent[0].what)

	r.handleChart(&tb.Message{Sender: user, Payload: "1"})
	require.Len(t, sender.sent, 2)
	photo, ok := sender.sent[1].what.(*tb.Photo)
	require.True(t, ok)
	assert.Equal(t, "joint\\_angles \\*raw\\* \\[v2]", photo.Caption)
}
