package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowTwice(t *testing.T) {
	b := NewBanner()
	assert.False(t, b.Current().Visible)

	b.Show("x")
	b.Show("x")

	n := b.Current()
	assert.True(t, n.Visible)
	assert.Equal(t, "x", n.Text)
}

func TestLastWriteWins(t *testing.T) {
	b := NewBanner()
	b.Show("⌛ Loading...")
	b.Show("Request failed")
	assert.Equal(t, "Request failed", b.Current().Text)

	b.Hide()
	n := b.Current()
	assert.False(t, n.Visible)
	assert.Equal(t, "Request failed", n.Text)

	b.Show("Swap successful")
	n = b.Current()
	assert.True(t, n.Visible)
	assert.Equal(t, "Swap successful", n.Text)
}

func TestUpdatedAt(t *testing.T) {
	b := NewBanner()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	b.Show("x")
	assert.Equal(t, fixed, b.Current().UpdatedAt)
}

func TestSubscribe(t *testing.T) {
	b := NewBanner()
	b.Show("first")

	ch, stop := b.Subscribe()
	defer stop()

	n := <-ch
	assert.Equal(t, "first", n.Text)

	// Nobody reads in between, only the latest state is delivered.
	b.Show("second")
	b.Show("third")
	b.Hide()

	n = <-ch
	assert.False(t, n.Visible)
	assert.Equal(t, "third", n.Text)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued notification: %+v", extra)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBanner()
	ch, stop := b.Subscribe()
	<-ch

	stop()
	stop()
	b.Show("after stop")

	_, ok := <-ch
	assert.False(t, ok)
}

func TestConcurrentWriters(t *testing.T) {
	b := NewBanner()
	ch, stop := b.Subscribe()
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Show("busy")
			b.Hide()
		}()
	}
	wg.Wait()

	b.Show("done")
	var last Notification
	require.Eventually(t, func() bool {
		select {
		case last = <-ch:
		default:
		}
		return last.Text == "done"
	}, time.Second, time.Millisecond)
	assert.True(t, last.Visible)
}
