package seed

import (
	"context"
	"fmt"
	"log/slog"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/internal/service"

	"gorm.io/gorm"
)

const actor = "seeder"

var brands = []string{
	"Apple", "Samsung", "Xiaomi", "OPPO", "Vivo", "Realme", "OnePlus", "Google",
	"Huawei", "ASUS", "Nokia", "Motorola", "Sony", "LG", "HTC",
}

type itemSeed struct {
	brand     string
	model     string
	ramGB     int
	storageGB int
}

var items = []itemSeed{
	{"Apple", "iPhone 15 Pro Max", 8, 256},
	{"Apple", "iPhone 15 Pro", 8, 128},
	{"Apple", "iPhone 15", 6, 128},
	{"Apple", "iPhone 14 Pro", 6, 256},
	{"Samsung", "Galaxy S24 Ultra", 12, 256},
	{"Samsung", "Galaxy S24", 8, 128},
	{"Samsung", "Galaxy A55", 8, 256},
	{"Xiaomi", "Redmi Note 13 Pro", 8, 256},
	{"Xiaomi", "Xiaomi 14", 12, 512},
	{"OPPO", "Reno 11", 8, 256},
	{"Vivo", "V30", 12, 256},
	{"Google", "Pixel 8", 8, 128},
}

var contacts = []model.Contact{
	{Name: "John Smith", Phone: "+6281234567890"},
	{Name: "Sarah Johnson", Phone: "+6282345678901"},
	{Name: "Michael Chen", Phone: "+6283456789012"},
	{Name: "Emily Davis", Phone: "+6284567890123"},
	{Name: "David Wilson", Phone: "+6285678901234"},
}

var expenseTypes = []string{"Ongkos Kirim", "Servis", "Aksesoris", "Biaya Admin", "Lain-lain"}

// Run mengisi master data. Tiap tabel dilewati bila sudah berisi.
func Run(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	contactRepo := repository.NewContactRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	itemRepo := repository.NewItemRepo(db)
	expenseTypeRepo := repository.NewExpenseTypeRepo(db)
	catalog := service.NewCatalogService(contactRepo, brandRepo, itemRepo, expenseTypeRepo)

	// 1. Brands
	brandsByName := make(map[string]model.Brand)
	if n, err := brandRepo.Count(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Info("brands already exist, skipping", "count", n)
	} else {
		for _, name := range brands {
			b := &model.Brand{Name: name}
			if err := catalog.CreateBrand(ctx, b, actor); err != nil {
				return fmt.Errorf("seed brand %s: %w", name, err)
			}
		}
		log.Info("brands seeded", "count", len(brands))
	}
	existing, err := catalog.ListBrands(ctx, model.PageQuery{Page: 1, Limit: model.MaxPageLimit})
	if err != nil {
		return err
	}
	for _, b := range existing.Data {
		brandsByName[b.Name] = b
	}

	// 2. Items
	if n, err := itemRepo.Count(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Info("items already exist, skipping", "count", n)
	} else {
		created := 0
		for _, it := range items {
			brand, ok := brandsByName[it.brand]
			if !ok {
				log.Warn("brand not found for item, skipping", "brand", it.brand, "model", it.model)
				continue
			}
			item := &model.Item{BrandID: brand.ID, ModelName: it.model, RamGB: it.ramGB, StorageGB: it.storageGB}
			if err := catalog.CreateItem(ctx, item, actor); err != nil {
				return fmt.Errorf("seed item %s: %w", it.model, err)
			}
			created++
		}
		log.Info("items seeded", "count", created)
	}

	// 3. Contacts
	if n, err := contactRepo.Count(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Info("contacts already exist, skipping", "count", n)
	} else {
		for _, c := range contacts {
			contact := c
			if err := catalog.CreateContact(ctx, &contact, actor); err != nil {
				return fmt.Errorf("seed contact %s: %w", c.Name, err)
			}
		}
		log.Info("contacts seeded", "count", len(contacts))
	}

	// 4. Expense types
	if n, err := expenseTypeRepo.Count(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Info("expense types already exist, skipping", "count", n)
	} else {
		for _, name := range expenseTypes {
			if err := catalog.CreateExpenseType(ctx, &model.ExpenseType{Name: name}, actor); err != nil {
				return fmt.Errorf("seed expense type %s: %w", name, err)
			}
		}
		log.Info("expense types seeded", "count", len(expenseTypes))
	}
	return nil
}
