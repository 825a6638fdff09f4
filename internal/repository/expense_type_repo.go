package repository

import (
	"context"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseTypeRepository interface {
	Create(ctx context.Context, et *model.ExpenseType) error
	FindPaginated(ctx context.Context, q model.PageQuery) ([]model.ExpenseType, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseType, error)
	Update(ctx context.Context, et *model.ExpenseType) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type expenseTypeRepo struct {
	db *gorm.DB
}

func NewExpenseTypeRepo(db *gorm.DB) ExpenseTypeRepository {
	return &expenseTypeRepo{db}
}

func (r *expenseTypeRepo) Create(ctx context.Context, et *model.ExpenseType) error {
	return r.db.WithContext(ctx).Create(et).Error
}

func (r *expenseTypeRepo) FindPaginated(ctx context.Context, q model.PageQuery) ([]model.ExpenseType, int64, error) {
	var (
		types []model.ExpenseType
		total int64
	)
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.ExpenseType{}).Scopes(searchLike(q.Search, "name"))
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().Scopes(paginate(q)).Order("name ASC").Find(&types).Error
	return types, total, err
}

func (r *expenseTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseType, error) {
	var et model.ExpenseType
	if err := r.db.WithContext(ctx).First(&et, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *expenseTypeRepo) Update(ctx context.Context, et *model.ExpenseType) error {
	return r.db.WithContext(ctx).Save(et).Error
}

func (r *expenseTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.ExpenseType{}, id)
}

func (r *expenseTypeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ExpenseType{}).Count(&count).Error
	return count, err
}
