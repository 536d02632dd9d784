package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"comanda/internal/domain/model"
	"comanda/internal/events"
	repo "comanda/internal/repository"
)

// 卓の登録・一覧・削除。
// statusの遷移はOrderUsecase側だけが行う
type TableUsecase struct {
	tableRepo repo.TableRepository
	ev        events.Publisher
}

// DI
func NewTableUsecase(tableRepo repo.TableRepository, ev events.Publisher) *TableUsecase {
	if ev == nil {
		ev = events.NopPublisher{}
	}
	return &TableUsecase{
		tableRepo: tableRepo,
		ev:        ev,
	}
}

func (u *TableUsecase) ListTables(ctx context.Context) ([]model.Table, error) {
	tables, err := u.tableRepo.List(ctx)
	if err != nil {
		return []model.Table{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return tables, nil
}

func (u *TableUsecase) CreateTable(ctx context.Context, identifier string) (model.Table, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.Table{}, NewHTTPError(http.StatusBadRequest, "identifier is required")
	}
	if len(identifier) > 100 {
		return model.Table{}, NewHTTPError(http.StatusBadRequest, "identifier too long")
	}

	// identifierは店内で一意（最終防衛はDBのunique index）
	_, found, err := u.tableRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return model.Table{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if found {
		return model.Table{}, NewHTTPError(http.StatusConflict, "identifier already exists")
	}

	created, err := u.tableRepo.Create(ctx, model.Table{
		Identifier: identifier,
		Status:     model.TableStatusAvailable,
	})
	if err != nil {
		return model.Table{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.ev.Publish(events.Event{Entity: events.EntityTable, Action: events.ActionCreated, ID: created.ID, At: time.Now()})
	return created, nil
}

// 接客中の卓は消せない。closed履歴からの参照は許容する
func (u *TableUsecase) DeleteTable(ctx context.Context, tableID int64) error {
	if tableID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	t, err := u.tableRepo.FindByID(ctx, tableID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if t.Status == model.TableStatusInService {
		return NewHTTPError(http.StatusConflict, "table is in service")
	}

	if err := u.tableRepo.Delete(ctx, tableID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.ev.Publish(events.Event{Entity: events.EntityTable, Action: events.ActionDeleted, ID: tableID, At: time.Now()})
	return nil
}
