package repository

import (
	"context"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindPaginated(ctx context.Context, q model.PageQuery, brandID *uuid.UUID) ([]model.Item, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Omit("Brand").Create(item).Error
}

func (r *itemRepo) FindPaginated(ctx context.Context, q model.PageQuery, brandID *uuid.UUID) ([]model.Item, int64, error) {
	var (
		items []model.Item
		total int64
	)
	query := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&model.Item{}).Scopes(searchLike(q.Search, "display_name", "model_name"))
		if brandID != nil {
			db = db.Where("brand_id = ?", *brandID)
		}
		return db
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().Scopes(paginate(q)).Preload("Brand").Order("display_name ASC").Find(&items).Error
	return items, total, err
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Brand").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Omit("Brand").Save(item).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Item{}, id)
}

func (r *itemRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Count(&count).Error
	return count, err
}
