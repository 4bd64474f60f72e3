package models_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

func createTestSupplier(t *testing.T, ctx context.Context, name string) *models.Supplier {
	t.Helper()
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: name})
	if err != nil {
		t.Fatalf("CreateSupplier(%s): %v", name, err)
	}
	return supplier
}

func TestCreatePurchaseOrder_NoStockEffect(t *testing.T) {
	ctx := setupIntegration(t)

	supplier := createTestSupplier(t, ctx, "Acme Wholesale")
	product := createTestProduct(t, ctx, "PO-001", 10)

	order, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseOrderItem{
			{ProductId: product.ID, Qty: 40, UnitPrice: decimal.NewFromInt(700)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	if order.Status != models.PurchaseOrderStatusOrdered {
		t.Fatalf("expected status ordered, got %s", order.Status)
	}
	if order.PoNumber != "PO-000001" {
		t.Fatalf("expected PO-000001, got %s", order.PoNumber)
	}
	if !order.Total.Equal(decimal.NewFromInt(28000)) {
		t.Fatalf("expected total 28000, got %s", order.Total)
	}

	// Ordering never moves stock.
	if got := requireStockConsistent(t, ctx, product.ID); got != 10 {
		t.Fatalf("expected stock unchanged at 10, got %d", got)
	}
}

func TestCreatePurchaseOrder_UnknownSupplierRejected(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "POS-001", 0)

	_, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId: 999999,
		Items: []models.NewPurchaseOrderItem{
			{ProductId: product.ID, Qty: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown supplier")
	}
}

func TestReceiveGoods_AddsStockAndFlipsStatus(t *testing.T) {
	ctx := setupIntegration(t)

	supplier := createTestSupplier(t, ctx, "Beta Traders")
	product := createTestProduct(t, ctx, "RCV-001", 5)

	order, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseOrderItem{
			{ProductId: product.ID, Qty: 40, UnitPrice: decimal.NewFromInt(700)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	// Partial delivery: 25 of 40.
	receipt, err := models.ReceiveGoods(ctx, order.ID, &models.NewGoodsReceipt{
		Items: []models.NewGoodsReceiptItem{
			{ProductId: product.ID, QtyReceived: 25},
		},
	})
	if err != nil {
		t.Fatalf("ReceiveGoods: %v", err)
	}
	if receipt.ReceiptNumber != "GR-000001" {
		t.Fatalf("expected GR-000001, got %s", receipt.ReceiptNumber)
	}
	if len(receipt.Items) != 1 || receipt.Items[0].QtyReceived != 25 {
		t.Fatalf("unexpected receipt items: %+v", receipt.Items)
	}

	if got := requireStockConsistent(t, ctx, product.ID); got != 30 {
		t.Fatalf("expected stock 30, got %d", got)
	}

	// Any receipt flips the order to received, short delivery included.
	order, err = models.GetPurchaseOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder: %v", err)
	}
	if order.Status != models.PurchaseOrderStatusReceived {
		t.Fatalf("expected status received, got %s", order.Status)
	}

	movements, err := models.ListProductMovements(ctx, product.ID)
	if err != nil {
		t.Fatalf("ListProductMovements: %v", err)
	}
	in := movements[0]
	if in.Type != models.StockMovementTypeIn || in.Quantity != 25 {
		t.Fatalf("expected in movement qty 25, got %s/%d", in.Type, in.Quantity)
	}
	if in.ReferenceType != models.StockReferenceTypePurchase || in.ReferenceId == nil || *in.ReferenceId != receipt.ID {
		t.Fatalf("expected purchase reference to receipt %d, got %+v", receipt.ID, in)
	}
}

func TestReceiveGoods_MissingOrder(t *testing.T) {
	ctx := setupIntegration(t)

	_, err := models.ReceiveGoods(ctx, 999999, &models.NewGoodsReceipt{
		Items: []models.NewGoodsReceiptItem{
			{ProductId: 1, QtyReceived: 1},
		},
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestReceiveGoods_SkipsUnresolvableLines(t *testing.T) {
	ctx := setupIntegration(t)

	supplier := createTestSupplier(t, ctx, "Gamma Goods")
	product := createTestProduct(t, ctx, "GHO-001", 0)

	order, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseOrderItem{
			{ProductId: product.ID, Qty: 10, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	receipt, err := models.ReceiveGoods(ctx, order.ID, &models.NewGoodsReceipt{
		Items: []models.NewGoodsReceiptItem{
			{ProductId: product.ID, QtyReceived: 10},
			{ProductId: 999999, QtyReceived: 4},
		},
	})
	if err != nil {
		t.Fatalf("ReceiveGoods: %v", err)
	}

	// Both lines stay on the receipt; only the resolvable one moved stock.
	if len(receipt.Items) != 2 {
		t.Fatalf("expected 2 receipt items, got %d", len(receipt.Items))
	}
	if got := requireStockConsistent(t, ctx, product.ID); got != 10 {
		t.Fatalf("expected stock 10, got %d", got)
	}
}
