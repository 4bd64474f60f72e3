package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	ID         int                 `gorm:"primary_key" json:"id"`
	PoNumber   string              `gorm:"size:50;unique;index" json:"po_number"`
	SupplierId int                 `gorm:"index;not null" json:"supplier_id"`
	OrderDate  time.Time           `gorm:"index;not null" json:"order_date"`
	Subtotal   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	Total      decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status     PurchaseOrderStatus `gorm:"type:enum('draft','ordered','received','cancelled');default:'draft'" json:"status"`
	Notes      string              `gorm:"type:text" json:"notes"`
	CreatedBy  int                 `json:"created_by"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:PoId" json:"items"`
	Receipts   []GoodsReceipt      `gorm:"foreignKey:PoId" json:"receipts,omitempty"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	PoId      int             `gorm:"index;not null" json:"po_id"`
	ProductId int             `gorm:"index;not null" json:"product_id"`
	Qty       int             `gorm:"not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
}

type NewPurchaseOrder struct {
	SupplierId int                    `json:"supplier_id" binding:"required"`
	Notes      string                 `json:"notes"`
	Items      []NewPurchaseOrderItem `json:"items" binding:"required,min=1,dive"`
}

type NewPurchaseOrderItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Qty       int             `json:"qty" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (input *NewPurchaseOrder) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return errors.New("supplier not found")
	}
	return nil
}

func receivePurchaseOrderItems(input *NewPurchaseOrder) ([]PurchaseOrderItem, decimal.Decimal) {
	items := make([]PurchaseOrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		itemSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		subtotal = subtotal.Add(itemSubtotal)
		items = append(items, PurchaseOrderItem{
			ProductId: line.ProductId,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Subtotal:  itemSubtotal,
		})
	}
	return items, subtotal
}

// CreatePurchaseOrder records the order only. Stock moves on receipt, never
// here.
func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	items, subtotal := receivePurchaseOrderItems(input)
	userId, _ := utils.GetUserIdFromContext(ctx)

	order := PurchaseOrder{
		SupplierId: input.SupplierId,
		OrderDate:  time.Now().UTC(),
		Subtotal:   subtotal,
		Total:      subtotal,
		Status:     PurchaseOrderStatusOrdered,
		Notes:      input.Notes,
		CreatedBy:  userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Omit("Items", "Supplier", "Receipts").Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	order.PoNumber = fmt.Sprintf("PO-%06d", order.ID)
	if err := tx.WithContext(ctx).Model(&order).UpdateColumn("PoNumber", order.PoNumber).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i := range items {
		items[i].PoId = order.ID
		if err := tx.WithContext(ctx).Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetPurchaseOrder(ctx, order.ID)
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return utils.FetchModel[PurchaseOrder](ctx, id, "Items", "Supplier")
}

func ListPurchaseOrders(ctx context.Context) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder
	if err := db.WithContext(ctx).
		Preload("Items").Preload("Supplier").
		Order("order_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
