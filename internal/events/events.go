package events

import "time"

type Entity string

const (
	EntityTable     Entity = "tables"
	EntityProduct   Entity = "products"
	EntityOrder     Entity = "orders"
	EntityOrderItem Entity = "order_items"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// エンティティ種別ごとの変更通知。
// 購読側は受け取ったら再取得するだけ（通知の到達は正しさの前提にしない）
type Event struct {
	Entity Entity    `json:"entity"`
	Action Action    `json:"action"`
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
}

// UsecaseはコミットしたあとにPublishを呼ぶ
type Publisher interface {
	Publish(ev Event)
}

// 通知先が無い構成（テスト等）用
type NopPublisher struct{}

func (NopPublisher) Publish(ev Event) {}
