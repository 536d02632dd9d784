package model

import (
	"time"

	"gorm.io/datatypes"
)

// 選択済みトッピングのスナップショット（Product.Extrasへの参照ではない）
type SelectedExtra struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// 注文明細
// 追加時点の価格を必ず保存。以後の商品編集は明細に影響しない。
type OrderItem struct {
	ID               int64                              `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64                              `gorm:"not null;index" json:"order_id"`
	ProductID        int64                              `gorm:"not null;index" json:"product_id"`
	Quantity         int64                              `gorm:"not null" json:"quantity"`
	SelectedExtras   datatypes.JSONSlice[SelectedExtra] `gorm:"type:jsonb" json:"selected_extras"`
	BasePriceAtOrder int64                              `gorm:"not null" json:"base_price_at_order"`
	UnitPrice        int64                              `gorm:"not null" json:"unit_price"`
	TotalPrice       int64                              `gorm:"not null" json:"total_price"`
	Notes            string                             `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time                          `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                          `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
