package model

import "time"

type OrderStatus string

const (
	OrderStatusOpen   OrderStatus = "open"
	OrderStatusPaid   OrderStatus = "paid"
	OrderStatusClosed OrderStatus = "closed"
)

// 1卓につきアクティブ（open|paid）は1つ。closedは履歴
type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   int64       `gorm:"not null;index" json:"table_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Total     int64       `gorm:"not null" json:"total"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
