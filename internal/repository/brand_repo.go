package repository

import (
	"context"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	FindPaginated(ctx context.Context, q model.PageQuery) ([]model.Brand, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	FindByName(ctx context.Context, name string) (*model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type brandRepo struct {
	db *gorm.DB
}

func NewBrandRepo(db *gorm.DB) BrandRepository {
	return &brandRepo{db}
}

func (r *brandRepo) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *brandRepo) FindPaginated(ctx context.Context, q model.PageQuery) ([]model.Brand, int64, error) {
	var (
		brands []model.Brand
		total  int64
	)
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Brand{}).Scopes(searchLike(q.Search, "name"))
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().Scopes(paginate(q)).Order("name ASC").Find(&brands).Error
	return brands, total, err
}

func (r *brandRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) Update(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *brandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Brand{}, id)
}

func (r *brandRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Brand{}).Count(&count).Error
	return count, err
}
