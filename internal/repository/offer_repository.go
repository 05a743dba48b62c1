package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 見積の永続化ゲートウェイ。
// 作成と部分更新は動詞が分かれている：
// Createは全量payloadでサーバーが正式IDとCreatedAtを採番、
// UpdatePartialはIDをキーにメタ項目と明細を差し替える（CreatedAt/StoreIDは不変）。
type OfferRepository interface {
	FetchAll(ctx context.Context, storeID int64) ([]model.OfferDocument, error)
	FetchByID(ctx context.Context, id string) (model.OfferDocument, error)

	Create(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error)
	UpdatePartial(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error)

	// 一覧画面からのみ使う
	Delete(ctx context.Context, id string) error
}
