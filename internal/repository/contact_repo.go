package repository

import (
	"context"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindPaginated(ctx context.Context, q model.PageQuery) ([]model.Contact, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	FindByNamePhone(ctx context.Context, name, phone string) (*model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Exists dipakai di dalam transaksi (tx) oleh pipeline transaksi
	Exists(tx *gorm.DB, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepository {
	return &contactRepo{db}
}

func (r *contactRepo) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepo) FindPaginated(ctx context.Context, q model.PageQuery) ([]model.Contact, int64, error) {
	var (
		contacts []model.Contact
		total    int64
	)
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Contact{}).Scopes(searchLike(q.Search, "name", "phone"))
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().Scopes(paginate(q)).Order("name ASC").Find(&contacts).Error
	return contacts, total, err
}

func (r *contactRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepo) FindByNamePhone(ctx context.Context, name, phone string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Where("name = ? AND phone = ?", name, phone).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepo) Update(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Contact{}, id)
}

func (r *contactRepo) Exists(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&model.Contact{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *contactRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error
	return count, err
}
