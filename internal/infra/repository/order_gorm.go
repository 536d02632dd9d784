package repository

import (
	"context"
	"errors"

	"comanda/internal/domain/model"
	repo "comanda/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order

	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 卓の注文履歴（新しい順）
func (r *OrderGormRepository) ListByTableID(ctx context.Context, tableID int64) ([]model.Order, error) {
	var orders []model.Order

	if err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Order("id desc").
		Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}

	return orders, nil
}

// open|paidの注文を行ロック付きで検索。
// openTableの冪等性はこのロックに乗っている
func (r *OrderGormRepository) FindActiveByTableID(ctx context.Context, tableID int64) (model.Order, bool, error) {
	var o model.Order

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("table_id = ? AND status IN ?", tableID, []model.OrderStatus{model.OrderStatusOpen, model.OrderStatusPaid}).
		Order("id desc").
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// キャッシュされたtotalを明細と同じTx内で更新する
func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total", total)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
