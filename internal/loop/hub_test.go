package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegister(t *testing.T) {
	h := NewHub()
	a := h.RegisterClient("ace")
	b := h.RegisterClient("bob")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, h.Players())

	h.UnregisterClient(a.ID)
	h.UnregisterClient(999)
	assert.Equal(t, 1, h.Players())
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	h := NewHub()
	a := h.RegisterClient("ace")
	b := h.RegisterClient("bob")

	h.Broadcast(HubEvent{Type: EventHighScore, From: a.ID, Name: "ACE", Score: 4750})

	select {
	case ev := <-b.EventsCh:
		assert.Equal(t, EventHighScore, ev.Type)
		assert.Equal(t, 4750, ev.Score)
	default:
		t.Fatal("bob got nothing")
	}
	assert.Empty(t, a.EventsCh)
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()
	a := h.RegisterClient("ace")
	for i := 0; i < cap(a.EventsCh)+5; i++ {
		h.Broadcast(HubEvent{Type: EventHighScore, Score: i})
	}
	assert.Len(t, a.EventsCh, cap(a.EventsCh))
}

func TestHubShutdownReturnsWhenEmpty(t *testing.T) {
	h := NewHub()
	a := h.RegisterClient("ace")

	go func() {
		ev := <-a.EventsCh
		if ev.Type == EventServerShutdown {
			h.UnregisterClient(a.ID)
		}
	}()

	start := time.Now()
	h.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, h.Players())
}

func TestHubShutdownTimesOut(t *testing.T) {
	h := NewHub()
	h.RegisterClient("ace")

	start := time.Now()
	h.Shutdown(300 * time.Millisecond)
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Equal(t, 1, h.Players())
}
