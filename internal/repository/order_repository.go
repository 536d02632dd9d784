package repository

import (
	"context"

	"comanda/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByTableID(ctx context.Context, tableID int64) ([]model.Order, error)

	// open|paidの注文を検索（無ければfound=false）
	FindActiveByTableID(ctx context.Context, tableID int64) (model.Order, bool, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateTotal(ctx context.Context, orderID int64, total int64) error
}
