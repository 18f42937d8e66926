package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garage-service/internal/model"
)

// GormStore implements TxStore on top of a GORM Postgres handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTx opens one database transaction and binds a GormStore to it.
func (s *GormStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Inventory").
		First(&p, "product_id = ?", productID).Error
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, translate(err))
	}
	return &p, nil
}

func (s *GormStore) ProductExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count products by name: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ProductNameInUse(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("name = ? AND product_id != ?", name, excludeID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count products by name: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) CategoryExists(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Category{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListProducts(ctx context.Context, categoryID *uint, offset, limit int) ([]model.Product, error) {
	query := s.db.WithContext(ctx).Preload("Category").Preload("Inventory")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []model.Product
	if err := query.Offset(offset).Order("product_id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *model.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", translate(err))
	}
	return nil
}

func (s *GormStore) SaveProduct(ctx context.Context, p *model.Product) error {
	if err := s.db.WithContext(ctx).Omit("Category", "Inventory").Save(p).Error; err != nil {
		return fmt.Errorf("save product %d: %w", p.ID, translate(err))
	}
	return nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, productID uint) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Product{}, "product_id = ?", productID)
	if result.Error != nil {
		return 0, fmt.Errorf("delete product %d: %w", productID, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) GetInventory(ctx context.Context, productID uint) (*model.Inventory, error) {
	var inv model.Inventory
	err := s.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error
	if err != nil {
		return nil, fmt.Errorf("get inventory %d: %w", productID, translate(err))
	}
	return &inv, nil
}

// GetInventoryForUpdate reads the inventory row with SELECT ... FOR UPDATE
// so a concurrent mutation of the same product blocks until this
// transaction commits or rolls back.
func (s *GormStore) GetInventoryForUpdate(ctx context.Context, productID uint) (*model.Inventory, error) {
	var inv model.Inventory
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "product_id = ?", productID).Error
	if err != nil {
		return nil, fmt.Errorf("lock inventory %d: %w", productID, translate(err))
	}
	return &inv, nil
}

func (s *GormStore) CreateInventory(ctx context.Context, inv *model.Inventory) error {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create inventory %d: %w", inv.ProductID, translate(err))
	}
	return nil
}

func (s *GormStore) SaveInventory(ctx context.Context, inv *model.Inventory) error {
	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		return fmt.Errorf("save inventory %d: %w", inv.ProductID, translate(err))
	}
	return nil
}

func (s *GormStore) DeleteInventory(ctx context.Context, productID uint) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Inventory{}, "product_id = ?", productID)
	if result.Error != nil {
		return 0, fmt.Errorf("delete inventory %d: %w", productID, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) ListInventoriesBelowReorderPoint(ctx context.Context) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := s.db.WithContext(ctx).
		Where("min_stock_level IS NOT NULL AND current_stock <= min_stock_level").
		Order("product_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list inventories below reorder point: %w", err)
	}
	return rows, nil
}
