package store

import "app/internal/domain/model"

// DocumentStore は「いま編集中の見積」を1つだけ持つ置き場。
// プロセス内で編集セッションは常に1つなので、スロットも1つ。
// 同期はComposerUsecase側で行う（ここからは同一ゴルーチンでのみ触る）。
type DocumentStore struct {
	doc    *model.OfferDocument
	nextID int64
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Get は編集中ドキュメントへのハンドルを返す。未オープンならnil。
// 返したポインタの指す先がストアの所有する唯一の実体で、
// 呼び出し側が別コピーを持って乖離することはない。
func (s *DocumentStore) Get() *model.OfferDocument {
	return s.doc
}

// Set はドキュメントをスロットに入れ、明細のローカル採番を初期化する。
// 採番は既存明細の最大IDの続きから始まるので、サーバー採番のIDと
// セッション中に衝突しない。
func (s *DocumentStore) Set(doc model.OfferDocument) {
	d := doc
	s.doc = &d

	s.nextID = 0
	for _, it := range d.Items {
		if it.ID > s.nextID {
			s.nextID = it.ID
		}
	}
}

// Clear はスロットを空にする（画面を閉じた・保存が完了した）。
func (s *DocumentStore) Clear() {
	s.doc = nil
	s.nextID = 0
}

// NextItemID はドキュメント内で一意な明細IDを採番する。
// 乱数ではなく単調増加カウンタなので衝突せず、テストも決定的。
func (s *DocumentStore) NextItemID() int64 {
	s.nextID++
	return s.nextID
}
