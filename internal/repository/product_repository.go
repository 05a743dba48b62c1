package repository

import (
	"app/internal/domain/model"
	"context"
)

// 商品カタログの読み取りだけを約束。CRUDは商品管理側の責務。
type ProductRepository interface {
	ListByStoreID(ctx context.Context, storeID int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
