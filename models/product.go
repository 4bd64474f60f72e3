package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `gorm:"primary_key" json:"id"`
	Sku        string          `gorm:"size:50;not null;unique;index" json:"sku" binding:"required"`
	Name       string          `gorm:"size:255;index;not null" json:"name" binding:"required"`
	CategoryId int             `gorm:"index" json:"category_id"`
	BuyPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"buy_price"`
	SellPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sell_price"`
	Unit       string          `gorm:"size:20;default:'pcs'" json:"unit"`
	MinStock   int             `gorm:"default:5" json:"min_stock"`
	// CurrentStock is a running balance: it must always equal the signed sum
	// of the product's stock_movements rows. ApplyStockMovement is the only
	// writer.
	CurrentStock int       `gorm:"default:0" json:"current_stock"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	Category     *Category `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Sku        string          `json:"sku" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	CategoryId int             `json:"category_id"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	SellPrice  decimal.Decimal `json:"sell_price"`
	Unit       string          `json:"unit"`
	MinStock   *int            `json:"min_stock"`
}

type UpdateProductInput struct {
	Name       *string          `json:"name"`
	CategoryId *int             `json:"category_id"`
	BuyPrice   *decimal.Decimal `json:"buy_price"`
	SellPrice  *decimal.Decimal `json:"sell_price"`
	Unit       *string          `json:"unit"`
	MinStock   *int             `json:"min_stock"`
}

// validate input for create
func (input *NewProduct) validate(ctx context.Context) error {
	if err := utils.ValidateUnique[Product](ctx, "sku", input.Sku, 0); err != nil {
		return err
	}
	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
			return err
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}
	minStock := 5
	if input.MinStock != nil {
		minStock = *input.MinStock
	}

	product := Product{
		Sku:        input.Sku,
		Name:       input.Name,
		CategoryId: input.CategoryId,
		BuyPrice:   input.BuyPrice,
		SellPrice:  input.SellPrice,
		Unit:       unit,
		MinStock:   minStock,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Category")
}

// ListProducts returns products, optionally only those below their reorder
// threshold.
func ListProducts(ctx context.Context, lowStockOnly bool) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Category")
	if lowStockOnly {
		dbCtx = dbCtx.Where("current_stock < min_stock")
	}
	var results []*Product
	if err := dbCtx.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateProduct changes descriptive fields only. CurrentStock is off limits
// here: stock changes go through ApplyStockMovement.
func UpdateProduct(ctx context.Context, id int, input *UpdateProductInput) (*Product, error) {

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CategoryId != nil && *input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, *input.CategoryId); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["Name"] = *input.Name
	}
	if input.CategoryId != nil {
		updates["CategoryId"] = *input.CategoryId
	}
	if input.BuyPrice != nil {
		updates["BuyPrice"] = *input.BuyPrice
	}
	if input.SellPrice != nil {
		updates["SellPrice"] = *input.SellPrice
	}
	if input.Unit != nil {
		updates["Unit"] = *input.Unit
	}
	if input.MinStock != nil {
		updates["MinStock"] = *input.MinStock
	}
	if len(updates) == 0 {
		return product, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct soft-deletes: products are never removed because stock
// movements reference them forever.
func DeactivateProduct(ctx context.Context, id int) (*Product, error) {

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(product).UpdateColumn("IsActive", false).Error; err != nil {
		return nil, err
	}
	return product, nil
}
