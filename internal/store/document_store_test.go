package store

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStore_EmptyUntilSet(t *testing.T) {
	s := NewDocumentStore()
	assert.Nil(t, s.Get())
}

func TestDocumentStore_SetThenGetReturnsSameHandle(t *testing.T) {
	s := NewDocumentStore()
	s.Set(model.OfferDocument{StoreID: 5, Notes: "a"})

	doc := s.Get()
	assert.NotNil(t, doc)
	assert.Equal(t, int64(5), doc.StoreID)

	// ハンドル経由の変更はストアの実体に反映される
	doc.Notes = "b"
	assert.Equal(t, "b", s.Get().Notes)
}

func TestDocumentStore_Clear(t *testing.T) {
	s := NewDocumentStore()
	s.Set(model.OfferDocument{StoreID: 5})
	s.Clear()
	assert.Nil(t, s.Get())
}

func TestDocumentStore_NextItemIDMonotonic(t *testing.T) {
	s := NewDocumentStore()
	s.Set(model.OfferDocument{})

	assert.Equal(t, int64(1), s.NextItemID())
	assert.Equal(t, int64(2), s.NextItemID())
	assert.Equal(t, int64(3), s.NextItemID())
}

func TestDocumentStore_NextItemIDStartsAfterExistingItems(t *testing.T) {
	s := NewDocumentStore()
	s.Set(model.OfferDocument{Items: []model.LineItem{
		{ID: 3}, {ID: 41}, {ID: 7},
	}})

	// サーバー採番済みの明細とは衝突しない
	assert.Equal(t, int64(42), s.NextItemID())
}

func TestDocumentStore_SetResetsCounter(t *testing.T) {
	s := NewDocumentStore()
	s.Set(model.OfferDocument{Items: []model.LineItem{{ID: 9}}})
	assert.Equal(t, int64(10), s.NextItemID())

	s.Set(model.OfferDocument{})
	assert.Equal(t, int64(1), s.NextItemID())
}
