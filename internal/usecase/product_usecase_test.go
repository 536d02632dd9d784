package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"comanda/internal/domain/model"
	"comanda/internal/events"
	repo "comanda/internal/repository"
	"comanda/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// 発行されたイベントを貯めるだけ
type recordPublisher struct {
	published []events.Event
}

func (p *recordPublisher) Publish(ev events.Event) {
	p.published = append(p.published, ev)
}

// =====================
// Create / Update
// =====================

func TestProductUsecase_CreateProduct_Success(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProdProductRepoMock)
	pub := &recordPublisher{}
	uc := usecase.NewProductUsecase(pRepo, pub)

	expected := model.Product{
		Name:   "X-Burger",
		Price:  1000,
		Extras: []model.ProductExtra{{Name: "Bacon", Price: 200}},
	}
	pRepo.On("Create", mock.Anything, expected).Return(model.Product{ID: 1, Name: "X-Burger", Price: 1000}, nil)

	out, err := uc.CreateProduct(ctx, usecase.SaveProductInput{
		Name:  "  X-Burger  ",
		Price: 1000,
		Extras: []usecase.ProductExtraInput{
			{Name: " Bacon ", Price: 200},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	pRepo.AssertExpectations(t)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.EntityProduct, pub.published[0].Entity)
	assert.Equal(t, events.ActionCreated, pub.published[0].Action)
}

func TestProductUsecase_CreateProduct_NegativePrice(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{Name: "Chopp", Price: -1})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	pRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_EmptyName(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), nil)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{Name: "   ", Price: 100})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_CreateProduct_DuplicateExtraName(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), nil)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:  "X-Burger",
		Price: 1000,
		Extras: []usecase.ProductExtraInput{
			{Name: "Bacon", Price: 200},
			{Name: "Bacon", Price: 300},
		},
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_CreateProduct_NegativeExtraPrice(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock), nil)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:   "X-Burger",
		Price:  1000,
		Extras: []usecase.ProductExtraInput{{Name: "Bacon", Price: -200}},
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_UpdateProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil)

	pRepo.On("Update", mock.Anything, mock.Anything).Return(repo.ErrNotFound)

	_, err := uc.UpdateProduct(ctx, 7, usecase.SaveProductInput{Name: "Chopp", Price: 1200})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Delete / Get
// =====================

func TestProductUsecase_DeleteProduct_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProdProductRepoMock)
	pub := &recordPublisher{}
	uc := usecase.NewProductUsecase(pRepo, pub)

	pRepo.On("SoftDelete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, uc.DeleteProduct(ctx, 3))

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.ActionDeleted, pub.published[0].Action)
	assert.Equal(t, int64(3), pub.published[0].ID)
}

func TestProductUsecase_DeleteProduct_NotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil)

	pRepo.On("SoftDelete", mock.Anything, int64(9)).Return(repo.ErrNotFound)

	err := uc.DeleteProduct(context.Background(), 9)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_GetProduct_NotFound(t *testing.T) {
	pRepo := new(ProdProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil)

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProduct(context.Background(), 5)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
