package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/domain/pricing"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// OfferUsecase は見積の一覧・詳細画面の業務ロジック。
// 計算はすべてpricingに委譲する薄い層。
type OfferUsecase struct {
	offers   repo.OfferRepository
	products repo.ProductRepository
}

// DI
func NewOfferUsecase(offers repo.OfferRepository, products repo.ProductRepository) *OfferUsecase {
	return &OfferUsecase{offers: offers, products: products}
}

// 一覧の1行ぶん
type OfferSummary struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	ExpiryDate time.Time       `json:"expiry_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

type OfferListOutput struct {
	Items []OfferSummary `json:"items"`
	Total int            `json:"total"`
}

type OfferDetailItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OfferDetailOutput struct {
	ID               string            `json:"id"`
	StoreID          int64             `json:"store_id"`
	Status           string            `json:"status"`
	Notes            string            `json:"notes"`
	CustomerFeedback string            `json:"customer_feedback"`
	ExpiryDate       time.Time         `json:"expiry_date"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OfferDetailItem `json:"items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	Tax              decimal.Decimal   `json:"tax"`
	GrandTotal       decimal.Decimal   `json:"grand_total"`
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// ListOffers は店舗の見積一覧。保存後の画面遷移先で、毎回取り直す。
func (u *OfferUsecase) ListOffers(ctx context.Context, storeID int64) (OfferListOutput, error) {
	if storeID <= 0 {
		return OfferListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}

	docs, err := u.offers.FetchAll(ctx, storeID)
	if err != nil {
		return OfferListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]OfferSummary, 0, len(docs))
	for _, doc := range docs {
		sub := pricing.Subtotal(doc)
		items = append(items, OfferSummary{
			ID:         doc.ID,
			Status:     string(doc.Status),
			ItemCount:  len(doc.Items),
			Subtotal:   sub,
			Tax:        pricing.Tax(sub),
			GrandTotal: pricing.GrandTotal(sub),
			ExpiryDate: doc.ExpiryDate,
			CreatedAt:  doc.CreatedAt,
		})
	}

	return OfferListOutput{Items: items, Total: len(items)}, nil
}

// GetOffer は見積の詳細。明細に商品名を引き当てて返す。
func (u *OfferUsecase) GetOffer(ctx context.Context, storeID int64, offerID string) (OfferDetailOutput, error) {
	if storeID <= 0 {
		return OfferDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}
	if offerID == "" {
		return OfferDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid offer id")
	}

	doc, err := u.offers.FetchByID(ctx, offerID)
	if err == repo.ErrNotFound {
		return OfferDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OfferDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他店舗の見積は見せない
	if doc.StoreID != storeID {
		return OfferDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items := make([]OfferDetailItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		name := ""
		if p, perr := u.products.FindByID(ctx, it.ProductID); perr == nil {
			name = p.Name
		}

		items = append(items, OfferDetailItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			LineTotal:   pricing.LineTotal(it),
		})
	}

	sub := pricing.Subtotal(doc)

	return OfferDetailOutput{
		ID:               doc.ID,
		StoreID:          doc.StoreID,
		Status:           string(doc.Status),
		Notes:            doc.Notes,
		CustomerFeedback: doc.CustomerFeedback,
		ExpiryDate:       doc.ExpiryDate,
		CreatedAt:        doc.CreatedAt,
		Items:            items,
		Subtotal:         sub,
		Tax:              pricing.Tax(sub),
		GrandTotal:       pricing.GrandTotal(sub),
	}, nil
}

// DeleteOffer は一覧画面からの削除。
func (u *OfferUsecase) DeleteOffer(ctx context.Context, storeID int64, offerID string) error {
	if storeID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}
	if offerID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid offer id")
	}

	//所有チェック（他店舗の見積は消させない）
	doc, err := u.offers.FetchByID(ctx, offerID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if doc.StoreID != storeID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.offers.Delete(ctx, offerID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ListProducts は商品ピッカー用のカタログ（読み取り専用）。
func (u *OfferUsecase) ListProducts(ctx context.Context, storeID int64) (ProductListOutput, error) {
	if storeID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}

	items, err := u.products.ListByStoreID(ctx, storeID)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: len(items)}, nil
}
