package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeBoardKeepsOnlyMostRecent(t *testing.T) {
	b := NewNoticeBoard()
	_, ok := b.Current()
	assert.False(t, ok)

	first := b.Post(Notice{Message: "first"})
	second := b.Post(Notice{Message: "second"})
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.At.IsZero())

	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Message)

	assert.False(t, b.Dismiss(first.ID))
	assert.True(t, b.Dismiss(second.ID))
	_, ok = b.Current()
	assert.False(t, ok)
	assert.False(t, b.Dismiss(""))
}

func TestNoticeBoardSubscribers(t *testing.T) {
	b := NewNoticeBoard()
	ch, stop := b.Subscribe()

	b.Post(Notice{Message: "hello"})
	select {
	case n := <-ch:
		assert.Equal(t, "hello", n.Message)
	case <-time.After(time.Second):
		t.Fatal("notice not delivered")
	}

	stop()
	stop()
	_, open := <-ch
	assert.False(t, open)

	b.Post(Notice{Message: "after stop"})
}

func TestNoticeBoardDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := NewNoticeBoard()
	_, stop := b.Subscribe()
	defer stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Post(Notice{Message: "spam"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked on a full subscriber")
	}
}
