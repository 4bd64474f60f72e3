package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
)

type GoodsReceipt struct {
	ID            int                `gorm:"primary_key" json:"id"`
	ReceiptNumber string             `gorm:"size:50;unique;index" json:"receipt_number"`
	PoId          int                `gorm:"index;not null" json:"po_id"`
	ReceiptDate   time.Time          `gorm:"not null" json:"receipt_date"`
	Notes         string             `gorm:"type:text" json:"notes"`
	CreatedBy     int                `json:"created_by"`
	Items         []GoodsReceiptItem `gorm:"foreignKey:ReceiptId" json:"items"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

type GoodsReceiptItem struct {
	ID          int `gorm:"primary_key" json:"id"`
	ReceiptId   int `gorm:"index;not null" json:"receipt_id"`
	ProductId   int `gorm:"index;not null" json:"product_id"`
	QtyReceived int `gorm:"not null" json:"qty_received"`
}

type NewGoodsReceipt struct {
	Notes string                `json:"notes"`
	Items []NewGoodsReceiptItem `json:"items" binding:"required,min=1,dive"`
}

type NewGoodsReceiptItem struct {
	ProductId   int `json:"product_id" binding:"required"`
	QtyReceived int `json:"qty_received" binding:"required,gt=0"`
}

// ReceiveGoods posts a goods receipt against a purchase order: receipt
// header, receipt items, per-line stock additions and the order's status
// flip to "received" commit as one transaction.
//
// The status flip is unconditional; a partial delivery still marks the
// order "received". Lines whose product cannot be resolved are kept on the
// receipt without a stock movement, mirroring the sales path.
func ReceiveGoods(ctx context.Context, poId int, input *NewGoodsReceipt) (*GoodsReceipt, error) {

	po, err := utils.FetchModel[PurchaseOrder](ctx, poId)
	if err != nil {
		return nil, err
	}

	// Redis lock is a best-effort optimization to keep concurrent receipts
	// of the same order from contending on row locks. Correctness does not
	// depend on it: the product row locks inside the transaction serialize
	// the balance updates.
	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, fmt.Sprintf("receive-po:%d", poId), 30*time.Second, nil)
		if lockErr == nil {
			defer lock.Release(ctx)
		}
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	receipt := GoodsReceipt{
		PoId:        po.ID,
		ReceiptDate: time.Now().UTC(),
		Notes:       input.Notes,
		CreatedBy:   userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Omit("Items").Create(&receipt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	receipt.ReceiptNumber = fmt.Sprintf("GR-%06d", receipt.ID)
	if err := tx.WithContext(ctx).Model(&receipt).UpdateColumn("ReceiptNumber", receipt.ReceiptNumber).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, line := range input.Items {
		item := GoodsReceiptItem{
			ReceiptId:   receipt.ID,
			ProductId:   line.ProductId,
			QtyReceived: line.QtyReceived,
		}
		if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		refId := receipt.ID
		_, err := ApplyStockMovement(tx, ctx, line.ProductId, StockMovementTypeIn, line.QtyReceived, &refId, StockReferenceTypePurchase, "Received PO "+po.PoNumber)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				continue
			}
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Model(po).UpdateColumn("Status", PurchaseOrderStatusReceived).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetGoodsReceipt(ctx, receipt.ID)
}

func GetGoodsReceipt(ctx context.Context, id int) (*GoodsReceipt, error) {
	return utils.FetchModel[GoodsReceipt](ctx, id, "Items")
}

// ListGoodsReceipts returns receipts newest first, optionally scoped to one
// purchase order.
func ListGoodsReceipts(ctx context.Context, poId int) ([]*GoodsReceipt, error) {

	db := config.GetDB()
	query := db.WithContext(ctx).Preload("Items")
	if poId != 0 {
		if err := utils.ValidateResourceId[PurchaseOrder](ctx, poId); err != nil {
			return nil, err
		}
		query = query.Where("po_id = ?", poId)
	}

	var receipts []*GoodsReceipt
	if err := query.
		Order("receipt_date DESC, id DESC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}
