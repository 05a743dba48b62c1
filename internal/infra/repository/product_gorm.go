package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// ListByStoreID は商品ピッカー用のカタログ。公開中の商品のみ。
func (r *ProductGormRepository) ListByStoreID(ctx context.Context, storeID int64) ([]model.Product, error) {
	var items []model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Product{}, err
	}
	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}
