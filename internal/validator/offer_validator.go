package validator

import (
	"errors"

	"app/internal/domain/model"

	"github.com/samber/lo"
)

var (
	// 明細が1行も無い
	ErrNoItems = errors.New("add at least one item")

	// 商品未選択の行がある
	ErrMissingProduct = errors.New("every item needs a product")

	// 数量・単価・値引きが不正な行がある
	ErrInvalidFields = errors.New("fix invalid fields")
)

// ValidateOffer は保存直前のゲート。入力中には呼ばない。
// 3カテゴリを独立に全件走査し、該当したものを優先度順に返す。
// 戻りが空なら保存可能。
func ValidateOffer(doc model.OfferDocument) []error {
	var errs []error

	if len(doc.Items) == 0 {
		errs = append(errs, ErrNoItems)
	}

	if lo.SomeBy(doc.Items, func(it model.LineItem) bool {
		return it.ProductID == 0
	}) {
		errs = append(errs, ErrMissingProduct)
	}

	if lo.SomeBy(doc.Items, hasInvalidFields) {
		errs = append(errs, ErrInvalidFields)
	}

	return errs
}

// Submittable はゲートを全て通るかどうか。
func Submittable(doc model.OfferDocument) bool {
	return len(ValidateOffer(doc)) == 0
}

// 値引きの上限は行合計ではなく単価
func hasInvalidFields(it model.LineItem) bool {
	if it.Quantity < 1 {
		return true
	}
	if !it.UnitPrice.IsPositive() {
		return true
	}
	if it.Discount.IsNegative() {
		return true
	}
	return it.Discount.GreaterThan(it.UnitPrice)
}
