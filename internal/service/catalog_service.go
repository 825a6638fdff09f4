package service

import (
	"context"
	"errors"
	"strings"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInUse: baris masih direferensikan transaksi (FK restrict).
var ErrInUse = errors.New("record is still referenced by transactions")

// CatalogService mengelola master data: contacts, brands, items, expense types.
type CatalogService interface {
	ListContacts(ctx context.Context, q model.PageQuery) (*model.Page[model.Contact], error)
	GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	CreateContact(ctx context.Context, req *model.Contact, actorID string) error
	UpdateContact(ctx context.Context, id uuid.UUID, req *model.Contact, actorID string) (*model.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context, q model.PageQuery) (*model.Page[model.Brand], error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	CreateBrand(ctx context.Context, req *model.Brand, actorID string) error
	UpdateBrand(ctx context.Context, id uuid.UUID, req *model.Brand, actorID string) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, q model.PageQuery, brandID *uuid.UUID) (*model.Page[model.Item], error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
	CreateItem(ctx context.Context, req *model.Item, actorID string) error
	UpdateItem(ctx context.Context, id uuid.UUID, req *model.Item, actorID string) (*model.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListExpenseTypes(ctx context.Context, q model.PageQuery) (*model.Page[model.ExpenseType], error)
	GetExpenseType(ctx context.Context, id uuid.UUID) (*model.ExpenseType, error)
	CreateExpenseType(ctx context.Context, req *model.ExpenseType, actorID string) error
	UpdateExpenseType(ctx context.Context, id uuid.UUID, req *model.ExpenseType, actorID string) (*model.ExpenseType, error)
	DeleteExpenseType(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	contactRepo     repository.ContactRepository
	brandRepo       repository.BrandRepository
	itemRepo        repository.ItemRepository
	expenseTypeRepo repository.ExpenseTypeRepository
}

func NewCatalogService(contactRepo repository.ContactRepository, brandRepo repository.BrandRepository, itemRepo repository.ItemRepository, expenseTypeRepo repository.ExpenseTypeRepository) CatalogService {
	return &catalogService{
		contactRepo:     contactRepo,
		brandRepo:       brandRepo,
		itemRepo:        itemRepo,
		expenseTypeRepo: expenseTypeRepo,
	}
}

// ===== Contacts =====

func (s *catalogService) ListContacts(ctx context.Context, q model.PageQuery) (*model.Page[model.Contact], error) {
	q = q.Normalize()
	rows, total, err := s.contactRepo.FindPaginated(ctx, q)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *catalogService) GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	return c, notFound(err, "Contact not found")
}

func (s *catalogService) CreateContact(ctx context.Context, req *model.Contact, actorID string) error {
	req.Name, req.Phone = strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if err := validate(req); err != nil {
		return err
	}
	// Cek duplikasi name + phone
	if existing, err := s.contactRepo.FindByNamePhone(ctx, req.Name, req.Phone); err == nil && existing != nil {
		return ErrContactExists
	}
	req.ID = uuid.Nil
	req.Audit(actorOrDefault(actorID))
	return s.contactRepo.Create(ctx, req)
}

func (s *catalogService) UpdateContact(ctx context.Context, id uuid.UUID, req *model.Contact, actorID string) (*model.Contact, error) {
	existing, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Contact not found")
	}
	req.Name, req.Phone = strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if err := validate(req); err != nil {
		return nil, err
	}
	if dup, err := s.contactRepo.FindByNamePhone(ctx, req.Name, req.Phone); err == nil && dup.ID != id {
		return nil, ErrContactExists
	}
	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.UpdatedBy = actorOrDefault(actorID)
	if err := s.contactRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return deleteError(s.contactRepo.Delete(ctx, id), "Contact not found")
}

// ===== Brands =====

func (s *catalogService) ListBrands(ctx context.Context, q model.PageQuery) (*model.Page[model.Brand], error) {
	q = q.Normalize()
	rows, total, err := s.brandRepo.FindPaginated(ctx, q)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *catalogService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	return b, notFound(err, "Brand not found")
}

func (s *catalogService) CreateBrand(ctx context.Context, req *model.Brand, actorID string) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return err
	}
	if existing, err := s.brandRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return ErrBrandExists
	}
	req.ID = uuid.Nil
	req.Items = nil
	req.Audit(actorOrDefault(actorID))
	return s.brandRepo.Create(ctx, req)
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req *model.Brand, actorID string) (*model.Brand, error) {
	existing, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Brand not found")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	if dup, err := s.brandRepo.FindByName(ctx, req.Name); err == nil && dup.ID != id {
		return nil, ErrBrandExists
	}
	existing.Name = req.Name
	existing.UpdatedBy = actorOrDefault(actorID)
	if err := s.brandRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return deleteError(s.brandRepo.Delete(ctx, id), "Brand not found")
}

// ===== Items =====

func (s *catalogService) ListItems(ctx context.Context, q model.PageQuery, brandID *uuid.UUID) (*model.Page[model.Item], error) {
	q = q.Normalize()
	rows, total, err := s.itemRepo.FindPaginated(ctx, q, brandID)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *catalogService) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	return item, notFound(err, "Item not found")
}

func (s *catalogService) CreateItem(ctx context.Context, req *model.Item, actorID string) error {
	if err := validate(req); err != nil {
		return err
	}
	brand, err := s.brandRepo.FindByID(ctx, req.BrandID)
	if err != nil {
		return notFound(err, "Brand not found")
	}
	req.ID = uuid.Nil
	req.DisplayName = req.BuildDisplayName(brand.Name)
	req.Audit(actorOrDefault(actorID))
	if err := s.itemRepo.Create(ctx, req); err != nil {
		return err
	}
	req.Brand = brand
	return nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *model.Item, actorID string) (*model.Item, error) {
	existing, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	brand, err := s.brandRepo.FindByID(ctx, req.BrandID)
	if err != nil {
		return nil, notFound(err, "Brand not found")
	}
	existing.BrandID = req.BrandID
	existing.ModelName = req.ModelName
	existing.RamGB = req.RamGB
	existing.StorageGB = req.StorageGB
	existing.DisplayName = existing.BuildDisplayName(brand.Name)
	existing.UpdatedBy = actorOrDefault(actorID)
	if err := s.itemRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	existing.Brand = brand
	return existing, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return deleteError(s.itemRepo.Delete(ctx, id), "Item not found")
}

// ===== Expense types =====

func (s *catalogService) ListExpenseTypes(ctx context.Context, q model.PageQuery) (*model.Page[model.ExpenseType], error) {
	q = q.Normalize()
	rows, total, err := s.expenseTypeRepo.FindPaginated(ctx, q)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *catalogService) GetExpenseType(ctx context.Context, id uuid.UUID) (*model.ExpenseType, error) {
	et, err := s.expenseTypeRepo.FindByID(ctx, id)
	return et, notFound(err, "Expense type not found")
}

func (s *catalogService) CreateExpenseType(ctx context.Context, req *model.ExpenseType, actorID string) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return err
	}
	req.ID = uuid.Nil
	req.Audit(actorOrDefault(actorID))
	return s.expenseTypeRepo.Create(ctx, req)
}

func (s *catalogService) UpdateExpenseType(ctx context.Context, id uuid.UUID, req *model.ExpenseType, actorID string) (*model.ExpenseType, error) {
	existing, err := s.expenseTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Expense type not found")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.UpdatedBy = actorOrDefault(actorID)
	if err := s.expenseTypeRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteExpenseType(ctx context.Context, id uuid.UUID) error {
	return deleteError(s.expenseTypeRepo.Delete(ctx, id), "Expense type not found")
}

// ===== Helpers =====

func newPage[T any](rows []T, q model.PageQuery, total int64) *model.Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return &model.Page[T]{Data: rows, Meta: model.NewPagination(q, total)}
}

func validate(data interface{}) error {
	if msg := validator.FirstError(data); msg != "" {
		return &ValidationError{Message: msg}
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to a NotFoundError and passes other errors through.
func notFound(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(message)
	}
	return err
}

func deleteError(err error, message string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInUse
	}
	return notFound(err, message)
}
