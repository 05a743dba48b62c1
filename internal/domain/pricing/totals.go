package pricing

import (
	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 税率は15%固定（設定値ではない）
var taxRate = decimal.New(15, -2)

// LineTotal は明細1行の金額。
// 値引きは行全体に1回だけ適用される（単価×数量ごとではない）。
// 負になってもゼロに丸めない。
func LineTotal(it model.LineItem) decimal.Decimal {
	qty := decimal.NewFromInt(it.Quantity)
	return it.UnitPrice.Mul(qty).Sub(it.Discount)
}

// Subtotal は全明細のLineTotalの合計。
func Subtotal(doc model.OfferDocument) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range doc.Items {
		sum = sum.Add(LineTotal(it))
	}
	return sum
}

// Tax は小計に対する税額。
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

// GrandTotal は税込み合計。
func GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(Tax(subtotal))
}
