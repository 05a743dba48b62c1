package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（OfferUsecase専用）
// =====================

type ListOfferRepoMock struct{ mock.Mock }

func (m *ListOfferRepoMock) FetchAll(ctx context.Context, storeID int64) ([]model.OfferDocument, error) {
	args := m.Called(ctx, storeID)
	docs, _ := args.Get(0).([]model.OfferDocument)
	return docs, args.Error(1)
}

func (m *ListOfferRepoMock) FetchByID(ctx context.Context, id string) (model.OfferDocument, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(model.OfferDocument)
	return doc, args.Error(1)
}

func (m *ListOfferRepoMock) Create(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error) {
	panic("not used in OfferUsecase tests")
}

func (m *ListOfferRepoMock) UpdatePartial(ctx context.Context, doc model.OfferDocument) (model.OfferDocument, error) {
	panic("not used in OfferUsecase tests")
}

func (m *ListOfferRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.OfferRepository = (*ListOfferRepoMock)(nil)

type ListProductRepoMock struct{ mock.Mock }

func (m *ListProductRepoMock) ListByStoreID(ctx context.Context, storeID int64) ([]model.Product, error) {
	args := m.Called(ctx, storeID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ListProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

var _ repo.ProductRepository = (*ListProductRepoMock)(nil)

// =====================
// List
// =====================

func TestOfferUsecase_ListOffers_ComputesTotalsPerRow(t *testing.T) {
	offers := new(ListOfferRepoMock)
	uc := usecase.NewOfferUsecase(offers, new(ListProductRepoMock))

	offers.On("FetchAll", mock.Anything, int64(5)).Return([]model.OfferDocument{
		{
			ID:      "a",
			StoreID: 5,
			Status:  model.OfferStatusPending,
			Items: []model.LineItem{
				{ID: 1, ProductID: 7, Quantity: 3, UnitPrice: dec("10"), Discount: dec("5")},
			},
		},
		{
			ID:      "b",
			StoreID: 5,
			Status:  model.OfferStatusAccepted,
			Items:   []model.LineItem{},
		},
	}, nil)

	out, err := uc.ListOffers(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, 2, out.Total)

	assert.Equal(t, 1, out.Items[0].ItemCount)
	assert.True(t, out.Items[0].Subtotal.Equal(dec("25")))
	assert.True(t, out.Items[0].Tax.Equal(dec("3.75")))
	assert.True(t, out.Items[0].GrandTotal.Equal(dec("28.75")))

	assert.Equal(t, 0, out.Items[1].ItemCount)
	assert.True(t, out.Items[1].GrandTotal.Equal(dec("0")))
}

func TestOfferUsecase_ListOffers_InvalidStore(t *testing.T) {
	uc := usecase.NewOfferUsecase(new(ListOfferRepoMock), new(ListProductRepoMock))

	_, err := uc.ListOffers(context.Background(), 0)
	assertErrContains(t, err, "invalid store_id")
}

// =====================
// Detail
// =====================

func TestOfferUsecase_GetOffer_ResolvesProductNames(t *testing.T) {
	offers := new(ListOfferRepoMock)
	products := new(ListProductRepoMock)
	uc := usecase.NewOfferUsecase(offers, products)

	offers.On("FetchByID", mock.Anything, "a").Return(model.OfferDocument{
		ID:               "a",
		StoreID:          5,
		Status:           model.OfferStatusPending,
		CustomerFeedback: "too expensive",
		Items: []model.LineItem{
			{ID: 1, ProductID: 7, Quantity: 2, UnitPrice: dec("19.99"), Discount: dec("0.50")},
		},
	}, nil)
	products.On("FindByID", mock.Anything, int64(7)).Return(model.Product{ID: 7, Name: "Mug"}, nil)

	out, err := uc.GetOffer(context.Background(), 5, "a")
	assert.NoError(t, err)

	assert.Equal(t, "too expensive", out.CustomerFeedback)
	assert.Equal(t, "Mug", out.Items[0].ProductName)
	assert.True(t, out.Items[0].LineTotal.Equal(dec("39.48")))
	assert.True(t, out.Subtotal.Equal(dec("39.48")))
}

func TestOfferUsecase_GetOffer_OtherStoreHidden(t *testing.T) {
	offers := new(ListOfferRepoMock)
	uc := usecase.NewOfferUsecase(offers, new(ListProductRepoMock))

	offers.On("FetchByID", mock.Anything, "a").Return(model.OfferDocument{ID: "a", StoreID: 99}, nil)

	_, err := uc.GetOffer(context.Background(), 5, "a")
	assertErrContains(t, err, "not found")
}

// =====================
// Delete
// =====================

func TestOfferUsecase_DeleteOffer_OwnershipChecked(t *testing.T) {
	offers := new(ListOfferRepoMock)
	uc := usecase.NewOfferUsecase(offers, new(ListProductRepoMock))

	offers.On("FetchByID", mock.Anything, "a").Return(model.OfferDocument{ID: "a", StoreID: 99}, nil)

	err := uc.DeleteOffer(context.Background(), 5, "a")
	assertErrContains(t, err, "not found")
	offers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOfferUsecase_DeleteOffer_Success(t *testing.T) {
	offers := new(ListOfferRepoMock)
	uc := usecase.NewOfferUsecase(offers, new(ListProductRepoMock))

	offers.On("FetchByID", mock.Anything, "a").Return(model.OfferDocument{ID: "a", StoreID: 5}, nil)
	offers.On("Delete", mock.Anything, "a").Return(nil)

	err := uc.DeleteOffer(context.Background(), 5, "a")
	assert.NoError(t, err)
	offers.AssertCalled(t, "Delete", mock.Anything, "a")
}
