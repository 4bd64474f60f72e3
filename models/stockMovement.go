package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockMovement is an immutable event: append-only, never updated or
// deleted. Product.CurrentStock must always equal the signed sum of its
// movements.
type StockMovement struct {
	ID        int               `gorm:"primary_key" json:"id"`
	ProductId int               `gorm:"index;not null" json:"product_id"`
	Type      StockMovementType `gorm:"type:enum('in','out','adjustment');not null" json:"type"`
	// Quantity is signed: positive for in/adjustment-up, negative for
	// out/adjustment-down.
	Quantity      int                `gorm:"not null" json:"quantity"`
	ReferenceId   *int               `json:"reference_id"`
	ReferenceType StockReferenceType `gorm:"size:50" json:"reference_type"`
	Notes         string             `gorm:"size:255" json:"notes"`
	CreatedBy     int                `json:"created_by"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

// ApplyStockMovement is the single writer of Product.CurrentStock. It locks
// the product row, applies the signed quantity as a relative update and
// appends the movement, all on the caller's transaction. Two concurrent
// movements on the same product serialize on the row lock; movements on
// different products do not contend.
//
// Stock is allowed to go negative (oversell is accepted business policy).
func ApplyStockMovement(tx *gorm.DB, ctx context.Context, productId int, movementType StockMovementType, quantity int, referenceId *int, referenceType StockReferenceType, notes string) (*StockMovement, error) {

	var product Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productId).Error; err != nil {
		// Only a genuinely missing row is NotFound; anything else (lost
		// connection, lock wait timeout, cancelled context) must abort the
		// caller's transaction, not masquerade as a skippable line.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	// Relative update so the balance reflects every committed movement even
	// under interleaved transactions.
	if err := tx.WithContext(ctx).
		Exec("UPDATE products SET current_stock = current_stock + ? WHERE id = ?", quantity, productId).Error; err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	movement := StockMovement{
		ProductId:     productId,
		Type:          movementType,
		Quantity:      quantity,
		ReferenceId:   referenceId,
		ReferenceType: referenceType,
		Notes:         notes,
		CreatedBy:     userId,
	}
	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

type NewStockAdjustment struct {
	ProductId int    `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Notes     string `json:"notes"`
}

// CreateStockAdjustment records a manual count correction. The movement is
// typed "adjustment" regardless of direction; the sign of Quantity carries
// the direction.
func CreateStockAdjustment(ctx context.Context, input *NewStockAdjustment) (*StockMovement, error) {

	db := config.GetDB()
	tx := db.Begin()

	movement, err := ApplyStockMovement(tx, ctx, input.ProductId, StockMovementTypeAdjustment, input.Quantity, nil, StockReferenceTypeManual, input.Notes)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// ListProductMovements returns a product's movement log, newest first.
func ListProductMovements(ctx context.Context, productId int) ([]*StockMovement, error) {

	if err := utils.ValidateResourceId[Product](ctx, productId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var movements []*StockMovement
	if err := db.WithContext(ctx).
		Where("product_id = ?", productId).
		Order("created_at DESC, id DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
