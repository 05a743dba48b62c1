package model

import "time"

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

// 見積書。IDは初回保存までは空文字列。
// CustomerFeedbackは顧客側が書く欄（作成画面では読み取り専用）。
type OfferDocument struct {
	ID               string      `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID          int64       `gorm:"not null;index" json:"store_id"`
	Status           OfferStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes            string      `gorm:"type:text" json:"notes"`
	CustomerFeedback string      `gorm:"type:text" json:"customer_feedback"`
	ExpiryDate       time.Time   `gorm:"not null" json:"expiry_date"`
	CreatedAt        time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
	Items            []LineItem  `gorm:"foreignKey:OfferID" json:"items"`
}

// 新規作成時の有効期限（作成日+7日）
const DefaultOfferTTL = 7 * 24 * time.Hour
