package usecase

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/domain/pricing"
	repo "app/internal/repository"
	"app/internal/store"
	"app/internal/validator"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// 編集セッションの状態。
// 読み込み中はOpen呼び出しの中で完結するので状態としては持たない。
// 保存成功はスロットを空にしてIDLEへ、保存失敗はEDITINGに留まる。
type ComposerState string

const (
	ComposerStateIdle    ComposerState = "IDLE"
	ComposerStateEditing ComposerState = "EDITING"
	ComposerStateSaving  ComposerState = "SAVING"
)

// UpdateItemで編集できるフィールド名
const (
	ItemFieldProductID = "product_id"
	ItemFieldQuantity  = "quantity"
	ItemFieldUnitPrice = "unit_price"
	ItemFieldDiscount  = "discount"
)

// ComposerUsecase は見積作成画面の業務ロジック。
// 編集中ドキュメントはDocumentStoreだけが実体を持ち、
// ここは全操作を1本のmutexで直列化する（書き手は常に1人）。
// ゲートウェイ呼び出し（保存）だけが待ちの入る処理で、
// その間はSAVING状態が再入をはじく。
type ComposerUsecase struct {
	mu      sync.Mutex
	state   ComposerState
	errMsg  string
	docs    *store.DocumentStore
	catalog []model.Product

	offers   repo.OfferRepository
	products repo.ProductRepository

	now func() time.Time
}

func NewComposerUsecase(
	docs *store.DocumentStore,
	offers repo.OfferRepository,
	products repo.ProductRepository,
) *ComposerUsecase {
	return &ComposerUsecase{
		state:    ComposerStateIdle,
		docs:     docs,
		offers:   offers,
		products: products,
		now:      time.Now,
	}
}

type ComposerItemView struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// 商品ピッカー用
type CatalogProductView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ComposerView は画面が読む度に合計を計算し直して返す。
// ErrorMessageは直近の保存失敗メッセージ（画面の1枠ぶん）。
type ComposerView struct {
	State            string               `json:"state"`
	OfferID          string               `json:"offer_id"`
	StoreID          int64                `json:"store_id"`
	Status           string               `json:"status"`
	Notes            string               `json:"notes"`
	CustomerFeedback string               `json:"customer_feedback"`
	ExpiryDate       time.Time            `json:"expiry_date"`
	CreatedAt        time.Time            `json:"created_at"`
	Items            []ComposerItemView   `json:"items"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Tax              decimal.Decimal      `json:"tax"`
	GrandTotal       decimal.Decimal      `json:"grand_total"`
	Catalog          []CatalogProductView `json:"catalog"`
	ErrorMessage     string               `json:"error_message,omitempty"`
}

type UpdateItemInput struct {
	Field string
	Value string
}

type UpdateDocumentInput struct {
	Notes      *string
	ExpiryDate *time.Time
}

type SaveOutput struct {
	Offer model.OfferDocument `json:"offer"`
}

// OpenCreate は新規の見積をスロットに用意する。
// 編集を始める前に必ずどちらかのOpenを通す。暗黙の初期化はしない。
func (u *ComposerUsecase) OpenCreate(ctx context.Context, storeID int64) (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if storeID <= 0 {
		return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}
	if u.state == ComposerStateSaving {
		return ComposerView{}, NewHTTPError(http.StatusConflict, "save in progress")
	}

	catalog, err := u.products.ListByStoreID(ctx, storeID)
	if err != nil {
		//読み込み失敗はこの画面では回復不能（戻るだけ）
		u.resetLocked()
		return ComposerView{}, NewHTTPError(http.StatusBadGateway, "load failed")
	}

	now := u.now()
	u.docs.Set(model.OfferDocument{
		StoreID:    storeID,
		Status:     model.OfferStatusPending,
		CreatedAt:  now,
		ExpiryDate: now.Add(model.DefaultOfferTTL),
		Items:      []model.LineItem{},
	})
	u.catalog = catalog
	u.state = ComposerStateEditing
	u.errMsg = ""

	return u.viewLocked(), nil
}

// OpenEdit は既存の見積を読み込んでスロットに入れる。
func (u *ComposerUsecase) OpenEdit(ctx context.Context, storeID int64, offerID string) (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if storeID <= 0 {
		return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid store_id")
	}
	if offerID == "" {
		return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid offer id")
	}
	if u.state == ComposerStateSaving {
		return ComposerView{}, NewHTTPError(http.StatusConflict, "save in progress")
	}

	catalog, err := u.products.ListByStoreID(ctx, storeID)
	if err != nil {
		u.resetLocked()
		return ComposerView{}, NewHTTPError(http.StatusBadGateway, "load failed")
	}

	doc, err := u.offers.FetchByID(ctx, offerID)
	if err == repo.ErrNotFound {
		u.resetLocked()
		return ComposerView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.resetLocked()
		return ComposerView{}, NewHTTPError(http.StatusBadGateway, "load failed")
	}

	//他店舗の見積は見せない
	if doc.StoreID != storeID {
		u.resetLocked()
		return ComposerView{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	u.docs.Set(doc)
	u.catalog = catalog
	u.state = ComposerStateEditing
	u.errMsg = ""

	return u.viewLocked(), nil
}

// View は編集中ドキュメントと計算し直した合計を返す。
func (u *ComposerUsecase) View() (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.docs.Get() == nil {
		return ComposerView{}, NewHTTPError(http.StatusConflict, "no document open")
	}
	return u.viewLocked(), nil
}

// AddItem は空の明細行を末尾に足す。
func (u *ComposerUsecase) AddItem() (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	doc, err := u.editingDocLocked()
	if err != nil {
		return ComposerView{}, err
	}

	doc.Items = append(doc.Items, model.LineItem{
		ID:        u.docs.NextItemID(),
		OfferID:   doc.ID,
		ProductID: 0,
		Quantity:  1,
		UnitPrice: decimal.Zero,
		Discount:  decimal.Zero,
	})

	return u.viewLocked(), nil
}

// RemoveItem はIDで明細を取り除く。確認ステップなし。
// 保存前ならリロード（OpenEditし直し）で戻せる。
func (u *ComposerUsecase) RemoveItem(itemID int64) (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	doc, err := u.editingDocLocked()
	if err != nil {
		return ComposerView{}, err
	}

	doc.Items = lo.Filter(doc.Items, func(it model.LineItem, _ int) bool {
		return it.ID != itemID
	})

	return u.viewLocked(), nil
}

// UpdateItem は明細の1フィールドを差し替える。
// 単価と値引きの編集では「値引き≦単価」を黙ってクランプで保ち、
// どの単一フィールド編集の後でも不変条件が崩れないようにする。
func (u *ComposerUsecase) UpdateItem(itemID int64, in UpdateItemInput) (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	doc, err := u.editingDocLocked()
	if err != nil {
		return ComposerView{}, err
	}

	_, idx, found := lo.FindIndexOf(doc.Items, func(it model.LineItem) bool {
		return it.ID == itemID
	})
	if !found {
		return ComposerView{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	it := doc.Items[idx]

	switch in.Field {
	case ItemFieldProductID:
		v, perr := strconv.ParseInt(in.Value, 10, 64)
		if perr != nil || v < 0 {
			return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		it.ProductID = v

	case ItemFieldQuantity:
		v, perr := strconv.ParseInt(in.Value, 10, 64)
		if perr != nil || v < 1 {
			return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		it.Quantity = v

	case ItemFieldUnitPrice:
		v, perr := decimal.NewFromString(in.Value)
		if perr != nil || v.IsNegative() {
			return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid unit_price")
		}
		it.UnitPrice = v
		//単価が値引きを下回ったら値引きを単価まで下げる
		if it.Discount.GreaterThan(it.UnitPrice) {
			it.Discount = it.UnitPrice
		}

	case ItemFieldDiscount:
		v, perr := decimal.NewFromString(in.Value)
		if perr != nil || v.IsNegative() {
			return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid discount")
		}
		//単価を超える値引きは単価までクランプ
		if v.GreaterThan(it.UnitPrice) {
			v = it.UnitPrice
		}
		it.Discount = v

	default:
		return ComposerView{}, NewHTTPError(http.StatusBadRequest, "invalid field")
	}

	doc.Items[idx] = it

	return u.viewLocked(), nil
}

// UpdateDocument はメタ項目（備考・有効期限）を更新する。
// CustomerFeedbackとStoreIDとCreatedAtはこの画面からは変更できない。
func (u *ComposerUsecase) UpdateDocument(in UpdateDocumentInput) (ComposerView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	doc, err := u.editingDocLocked()
	if err != nil {
		return ComposerView{}, err
	}

	if in.Notes != nil {
		doc.Notes = *in.Notes
	}
	if in.ExpiryDate != nil {
		doc.ExpiryDate = *in.ExpiryDate
	}

	return u.viewLocked(), nil
}

// Save はゲートを通った場合だけゲートウェイを呼ぶ。
// 動詞はIDの有無で決まる：空なら全量create、あればパッチupdate。
// 成功したらスロットを空にする（画面は一覧へ戻る）。
// 失敗しても編集内容はそのまま残り、自動リトライはしない。
func (u *ComposerUsecase) Save(ctx context.Context) (SaveOutput, error) {
	payload, isUpdate, err := u.beginSave()
	if err != nil {
		return SaveOutput{}, err
	}

	var saved model.OfferDocument
	var saveErr error
	if isUpdate {
		saved, saveErr = u.offers.UpdatePartial(ctx, payload)
	} else {
		saved, saveErr = u.offers.Create(ctx, payload)
	}

	return u.finishSave(saved, saveErr)
}

// Close は画面を閉じる＝スロットを空にする。
func (u *ComposerUsecase) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == ComposerStateSaving {
		return NewHTTPError(http.StatusConflict, "save in progress")
	}

	u.resetLocked()
	return nil
}

// =====================
// 内部
// =====================

func (u *ComposerUsecase) beginSave() (model.OfferDocument, bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	//連打対策：保存中の再入はここではじく
	if u.state == ComposerStateSaving {
		return model.OfferDocument{}, false, NewHTTPError(http.StatusConflict, "save in progress")
	}

	doc := u.docs.Get()
	if doc == nil {
		return model.OfferDocument{}, false, NewHTTPError(http.StatusConflict, "no document open")
	}

	//ゲートを通らなければゲートウェイは呼ばない
	if errs := validator.ValidateOffer(*doc); len(errs) > 0 {
		u.errMsg = errs[0].Error()
		return model.OfferDocument{}, false, NewHTTPError(http.StatusUnprocessableEntity, errs[0].Error())
	}

	payload := *doc
	payload.Items = append([]model.LineItem(nil), doc.Items...)

	u.state = ComposerStateSaving
	u.errMsg = ""

	return payload, payload.ID != "", nil
}

func (u *ComposerUsecase) finishSave(saved model.OfferDocument, saveErr error) (SaveOutput, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if saveErr != nil {
		//編集内容は残したままEDITINGへ戻る
		u.state = ComposerStateEditing
		u.errMsg = "save failed"
		return SaveOutput{}, NewHTTPError(http.StatusBadGateway, "save failed")
	}

	u.resetLocked()
	return SaveOutput{Offer: saved}, nil
}

func (u *ComposerUsecase) editingDocLocked() (*model.OfferDocument, error) {
	if u.state == ComposerStateSaving {
		return nil, NewHTTPError(http.StatusConflict, "save in progress")
	}

	doc := u.docs.Get()
	if doc == nil {
		//Openを通していない編集は受け付けない
		return nil, NewHTTPError(http.StatusConflict, "no document open")
	}
	return doc, nil
}

func (u *ComposerUsecase) resetLocked() {
	u.docs.Clear()
	u.catalog = nil
	u.state = ComposerStateIdle
	u.errMsg = ""
}

func (u *ComposerUsecase) viewLocked() ComposerView {
	doc := u.docs.Get()

	items := make([]ComposerItemView, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, ComposerItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			LineTotal: pricing.LineTotal(it),
		})
	}

	sub := pricing.Subtotal(*doc)

	catalog := lo.Map(u.catalog, func(p model.Product, _ int) CatalogProductView {
		return CatalogProductView{ID: p.ID, Name: p.Name}
	})

	return ComposerView{
		State:            string(u.state),
		OfferID:          doc.ID,
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
		Catalog:          catalog,
		ErrorMessage:     u.errMsg,
	}
}
