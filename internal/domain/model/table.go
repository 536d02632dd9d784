package model

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusInService TableStatus = "in_service"
)

// 卓。statusはOrderのライフサイクルからのみ遷移する
type Table struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"identifier"`
	Status     TableStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
