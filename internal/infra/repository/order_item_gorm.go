package repository

import (
	"context"
	"errors"

	"comanda/internal/domain/model"
	repo "comanda/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.OrderItem, error) {
	var item model.OrderItem

	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

// 明細を一覧取得（追加順）
func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.OrderItem{}, err
	}

	return items, nil
}

func (r *OrderItemGormRepository) Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

// 数量と確定済みtotal_priceをまとめて更新
func (r *OrderItemGormRepository) UpdateQuantity(ctx context.Context, itemID int64, qty int64, totalPrice int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":    qty,
			"total_price": totalPrice,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderItemGormRepository) DeleteByID(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.OrderItem{}, itemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
