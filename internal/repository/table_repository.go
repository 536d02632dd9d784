package repository

import (
	"context"
	"errors"

	"comanda/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 卓の永続化（保存・取得）だけを約束。
type TableRepository interface {
	List(ctx context.Context) ([]model.Table, error)
	FindByID(ctx context.Context, id int64) (model.Table, error)
	// identifierで検索（無ければfound=false）
	FindByIdentifier(ctx context.Context, identifier string) (model.Table, bool, error)

	Create(ctx context.Context, t model.Table) (model.Table, error)
	UpdateStatus(ctx context.Context, tableID int64, status model.TableStatus) error
	Delete(ctx context.Context, id int64) error
}
