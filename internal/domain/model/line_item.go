package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 見積の明細行。
// 未保存の行のIDはドキュメント内だけで一意なローカル採番。
// 保存時にサーバー側で正式なIDが振り直される。
// DiscountはUnitPriceを超えない（行合計ではなく単価に対するクランプ）。
type LineItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OfferID   string          `gorm:"type:uuid;not null;index" json:"offer_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
