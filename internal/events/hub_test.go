package events_test

import (
	"testing"
	"time"

	"comanda/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := events.NewHub(nil)

	id1, ch1 := hub.Subscribe()
	id2, ch2 := hub.Subscribe()
	defer hub.Unsubscribe(id1)
	defer hub.Unsubscribe(id2)

	hub.Publish(events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: 7})

	for _, ch := range []<-chan events.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, events.EntityOrder, ev.Entity)
			assert.Equal(t, int64(7), ev.ID)
			assert.False(t, ev.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := events.NewHub(nil)

	id, ch := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.SubscriberCount())

	_, ok := <-ch
	assert.False(t, ok)

	// 二重解除しても落ちない
	hub.Unsubscribe(id)
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := events.NewHub(nil)

	id, ch := hub.Subscribe()
	defer hub.Unsubscribe(id)

	// バッファを溢れさせてもPublishは戻ってくる
	for i := 0; i < 100; i++ {
		hub.Publish(events.Event{Entity: events.EntityOrderItem, Action: events.ActionCreated, ID: int64(i)})
	}

	// 溢れた分は捨てられている
	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			assert.Less(t, received, 100)
			return
		}
	}
}
