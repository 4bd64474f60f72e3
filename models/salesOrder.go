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

type SalesOrder struct {
	ID          int              `gorm:"primary_key" json:"id"`
	OrderNumber string           `gorm:"size:50;unique;index" json:"order_number"`
	CustomerId  *int             `gorm:"index" json:"customer_id"`
	OrderDate   time.Time        `gorm:"index;not null" json:"order_date"`
	Subtotal    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	Discount    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Total       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status      SalesOrderStatus `gorm:"type:enum('draft','unpaid','partial','paid','cancelled');default:'draft'" json:"status"`
	Notes       string           `gorm:"type:text" json:"notes"`
	CreatedBy   int              `json:"created_by"`
	Customer    *Customer        `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Items       []SalesOrderItem `gorm:"foreignKey:OrderId" json:"items"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// SalesOrderItem snapshots unit price and discount at order time; later
// product price changes never rewrite history.
type SalesOrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   int             `gorm:"index;not null" json:"order_id"`
	ProductId int             `gorm:"index;not null" json:"product_id"`
	Qty       int             `gorm:"not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
}

type NewSalesOrder struct {
	CustomerId *int                `json:"customer_id"`
	Discount   decimal.Decimal     `json:"discount"`
	Notes      string              `json:"notes"`
	Items      []NewSalesOrderItem `json:"items" binding:"required,min=1,dive"`
}

type NewSalesOrderItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Qty       int             `json:"qty" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

func (input *NewSalesOrder) validate(ctx context.Context) error {
	// walk-in sales carry no customer
	if input.CustomerId != nil && *input.CustomerId > 0 {
		if err := utils.ValidateResourceId[Customer](ctx, *input.CustomerId); err != nil {
			return errors.New("customer not found")
		}
	}
	return nil
}

// receiveSalesOrderItems builds the item rows and the header subtotal from
// the request lines: item_subtotal = unit_price*qty - discount.
func receiveSalesOrderItems(input *NewSalesOrder) ([]SalesOrderItem, decimal.Decimal) {
	items := make([]SalesOrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		itemSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))).Sub(line.Discount)
		subtotal = subtotal.Add(itemSubtotal)
		items = append(items, SalesOrderItem{
			ProductId: line.ProductId,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
			Subtotal:  itemSubtotal,
		})
	}
	return items, subtotal
}

// CreateSalesOrder records a point-of-sale order: header, items and the
// per-line stock deductions commit as one transaction or not at all. The
// order lands directly on "paid" (no credit terms in this flow).
//
// A line whose product no longer exists stays on the order and contributes
// to the total, but produces no stock movement. That asymmetry is accepted
// behavior, not an oversight.
func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	items, subtotal := receiveSalesOrderItems(input)
	total := subtotal.Sub(input.Discount)
	userId, _ := utils.GetUserIdFromContext(ctx)

	order := SalesOrder{
		CustomerId: input.CustomerId,
		OrderDate:  time.Now().UTC(),
		Subtotal:   subtotal,
		Discount:   input.Discount,
		Total:      total,
		Status:     SalesOrderStatusPaid,
		Notes:      input.Notes,
		CreatedBy:  userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Omit("Items", "Customer").Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Number derives from the store-generated id, so it is unique by
	// construction (no same-second collisions).
	order.OrderNumber = fmt.Sprintf("SO-%06d", order.ID)
	if err := tx.WithContext(ctx).Model(&order).UpdateColumn("OrderNumber", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i := range items {
		items[i].OrderId = order.ID
		if err := tx.WithContext(ctx).Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		refId := order.ID
		_, err := ApplyStockMovement(tx, ctx, items[i].ProductId, StockMovementTypeOut, -items[i].Qty, &refId, StockReferenceTypeSales, "Sold via POS "+order.OrderNumber)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				// unresolvable product: keep the line, skip the movement
				continue
			}
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetSalesOrder(ctx, order.ID)
}

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	return utils.FetchModel[SalesOrder](ctx, id, "Items", "Customer")
}

func ListSalesOrders(ctx context.Context) ([]*SalesOrder, error) {
	db := config.GetDB()
	var results []*SalesOrder
	if err := db.WithContext(ctx).
		Preload("Items").Preload("Customer").
		Order("order_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
