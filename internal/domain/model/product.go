package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品カタログ。この系からは読み取り専用（CRUDは商品管理側）。
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID   int64           `gorm:"not null;index" json:"store_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsActive  bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
