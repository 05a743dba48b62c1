package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferGormRepository struct {
	db *gorm.DB
}

func NewOfferGormRepository(db *gorm.DB) *OfferGormRepository {
	return &OfferGormRepository{db: db}
}

func (r *OfferGormRepository) FetchAll(ctx context.Context, storeID int64) ([]model.OfferDocument, error) {
	var docs []model.OfferDocument
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID).
		Order("created_at desc").
		Find(&docs).Error
	if err != nil {
		return []model.OfferDocument{}, err
	}
	return docs, nil
}

func (r *OfferGormRepository) FetchByID(ctx context.Context, id string) (model.OfferDocument, error) {
	var doc model.OfferDocument
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OfferDocument{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OfferDocument{}, err
	}
	return doc, nil
}

// Create は全量payloadの新規作成。
// 正式IDとCreatedAtはここで採番し、クライアント側の仮IDは捨てる。
func (r *OfferGormRepository) Create(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error) {
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Time{}
	doc.UpdatedAt = time.Time{}

	for i := range doc.Items {
		doc.Items[i].ID = 0
		doc.Items[i].OfferID = doc.ID
		doc.Items[i].CreatedAt = time.Time{}
	}

	if err := r.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return model.OfferDocument{}, err
	}
	return doc, nil
}

// UpdatePartial はIDをキーにしたパッチ更新。
// メタ項目（status/notes/expiry_date）を更新し、明細は全行差し替える。
// CreatedAtとStoreIDには触らない。customer_feedbackは顧客側の欄なので更新しない。
func (r *OfferGormRepository) UpdatePartial(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.OfferDocument{}).
			Where("id = ?", doc.ID).
			Updates(map[string]interface{}{
				"status":      doc.Status,
				"notes":       doc.Notes,
				"expiry_date": doc.ExpiryDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		//明細の差し替え（IDはサーバーで振り直す）
		if err := tx.Where("offer_id = ?", doc.ID).Delete(&model.LineItem{}).Error; err != nil {
			return err
		}

		items := make([]model.LineItem, 0, len(doc.Items))
		for _, it := range doc.Items {
			it.ID = 0
			it.OfferID = doc.ID
			it.CreatedAt = time.Time{}
			items = append(items, it)
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return model.OfferDocument{}, err
	}

	return r.FetchByID(ctx, doc.ID)
}

func (r *OfferGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", id).Delete(&model.LineItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.OfferDocument{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
