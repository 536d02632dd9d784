package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Hub は変更通知を購読者へベストエフォートで配る。
// 配信が遅い購読者のイベントは捨てる（コマンドを塞がない）
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]chan Event),
		log:         log,
	}
}

// Subscribe は購読者IDと受信チャネルを返す。
// 使い終わったら必ずUnsubscribeすること
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	h.log.Debug("subscriber added", "subscriber_id", id)
	return id, ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		h.log.Debug("subscriber removed", "subscriber_id", id)
	}
}

func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// バッファが一杯なら捨てる
			h.log.Debug("event dropped", "subscriber_id", id, "entity", string(ev.Entity))
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
