package repository

import (
	"context"
	"errors"

	"comanda/internal/domain/model"
	repo "comanda/internal/repository"

	"gorm.io/gorm"
)

type TableGormRepository struct {
	db *gorm.DB
}

// DI
func NewTableGormRepository(db *gorm.DB) *TableGormRepository {
	return &TableGormRepository{db: db}
}

// 卓を一覧取得（identifier順）
func (r *TableGormRepository) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table

	if err := r.db.WithContext(ctx).
		Order("identifier asc").
		Find(&tables).Error; err != nil {
		return []model.Table{}, err
	}

	return tables, nil
}

func (r *TableGormRepository) FindByID(ctx context.Context, id int64) (model.Table, error) {
	var t model.Table

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (r *TableGormRepository) FindByIdentifier(ctx context.Context, identifier string) (model.Table, bool, error) {
	var t model.Table

	err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, false, nil
	}
	if err != nil {
		return model.Table{}, false, err
	}
	return t, true, nil
}

func (r *TableGormRepository) Create(ctx context.Context, t model.Table) (model.Table, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Table{}, err
	}
	return t, nil
}

// tables.statusを更新
func (r *TableGormRepository) UpdateStatus(ctx context.Context, tableID int64, status model.TableStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("id = ?", tableID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TableGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Table{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
