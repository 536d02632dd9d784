package repository

import (
	"context"

	"comanda/internal/domain/model"
)

type OrderItemRepository interface {
	FindByID(ctx context.Context, itemID int64) (model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error)
	// unit_priceは不変なのでtotal_priceも一緒に更新する
	UpdateQuantity(ctx context.Context, itemID int64, qty int64, totalPrice int64) error
	DeleteByID(ctx context.Context, itemID int64) error
}
