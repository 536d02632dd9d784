package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 追加トッピング。名前は商品内で一意
type ProductExtra struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type Product struct {
	ID        int64                             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string                            `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64                             `gorm:"not null" json:"price"`
	Extras    datatypes.JSONSlice[ProductExtra] `gorm:"type:jsonb" json:"extras"`
	CreatedAt time.Time                         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                         `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt                    `gorm:"index" json:"-"`
}
