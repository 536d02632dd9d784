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

type TableRepoMock struct{ mock.Mock }

func (m *TableRepoMock) List(ctx context.Context) ([]model.Table, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Table)
	return items, args.Error(1)
}

func (m *TableRepoMock) FindByID(ctx context.Context, id int64) (model.Table, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByIdentifier(ctx context.Context, identifier string) (model.Table, bool, error) {
	args := m.Called(ctx, identifier)
	t, _ := args.Get(0).(model.Table)
	return t, args.Bool(1), args.Error(2)
}

func (m *TableRepoMock) Create(ctx context.Context, t model.Table) (model.Table, error) {
	args := m.Called(ctx, t)
	created, _ := args.Get(0).(model.Table)
	return created, args.Error(1)
}

func (m *TableRepoMock) UpdateStatus(ctx context.Context, tableID int64, status model.TableStatus) error {
	args := m.Called(ctx, tableID, status)
	return args.Error(0)
}

func (m *TableRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTableUsecase_CreateTable_Success(t *testing.T) {
	ctx := context.Background()
	tRepo := new(TableRepoMock)
	pub := &recordPublisher{}
	uc := usecase.NewTableUsecase(tRepo, pub)

	tRepo.On("FindByIdentifier", mock.Anything, "Mesa 01").Return(model.Table{}, false, nil)
	tRepo.On("Create", mock.Anything, model.Table{Identifier: "Mesa 01", Status: model.TableStatusAvailable}).
		Return(model.Table{ID: 1, Identifier: "Mesa 01", Status: model.TableStatusAvailable}, nil)

	out, err := uc.CreateTable(ctx, "  Mesa 01  ")
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, model.TableStatusAvailable, out.Status)
	tRepo.AssertExpectations(t)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.EntityTable, pub.published[0].Entity)
}

func TestTableUsecase_CreateTable_EmptyIdentifier(t *testing.T) {
	uc := usecase.NewTableUsecase(new(TableRepoMock), nil)

	_, err := uc.CreateTable(context.Background(), "   ")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestTableUsecase_CreateTable_DuplicateIdentifier(t *testing.T) {
	ctx := context.Background()
	tRepo := new(TableRepoMock)
	uc := usecase.NewTableUsecase(tRepo, nil)

	tRepo.On("FindByIdentifier", mock.Anything, "Mesa 01").
		Return(model.Table{ID: 1, Identifier: "Mesa 01"}, true, nil)

	_, err := uc.CreateTable(ctx, "Mesa 01")
	assertHTTPStatus(t, err, http.StatusConflict)
	tRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTableUsecase_DeleteTable_RejectsInService(t *testing.T) {
	ctx := context.Background()
	tRepo := new(TableRepoMock)
	uc := usecase.NewTableUsecase(tRepo, nil)

	tRepo.On("FindByID", mock.Anything, int64(2)).
		Return(model.Table{ID: 2, Identifier: "Mesa 02", Status: model.TableStatusInService}, nil)

	err := uc.DeleteTable(ctx, 2)
	assertHTTPStatus(t, err, http.StatusConflict)
	tRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTableUsecase_DeleteTable_Success(t *testing.T) {
	ctx := context.Background()
	tRepo := new(TableRepoMock)
	pub := &recordPublisher{}
	uc := usecase.NewTableUsecase(tRepo, pub)

	tRepo.On("FindByID", mock.Anything, int64(3)).
		Return(model.Table{ID: 3, Identifier: "Mesa 03", Status: model.TableStatusAvailable}, nil)
	tRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, uc.DeleteTable(ctx, 3))

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.ActionDeleted, pub.published[0].Action)
}

func TestTableUsecase_DeleteTable_NotFound(t *testing.T) {
	tRepo := new(TableRepoMock)
	uc := usecase.NewTableUsecase(tRepo, nil)

	tRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Table{}, repo.ErrNotFound)

	err := uc.DeleteTable(context.Background(), 9)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
