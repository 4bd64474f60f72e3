package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReceiveSalesOrderItems_Totals(t *testing.T) {
	items, subtotal := receiveSalesOrderItems(&NewSalesOrder{
		Items: []NewSalesOrderItem{
			{ProductId: 1, Qty: 2, UnitPrice: decimal.NewFromInt(2500)},
			{ProductId: 2, Qty: 3, UnitPrice: decimal.NewFromInt(1200), Discount: decimal.NewFromInt(600)},
		},
	})

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Subtotal.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected line 1 subtotal 5000, got %s", items[0].Subtotal)
	}
	// 3*1200 - 600
	if !items[1].Subtotal.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected line 2 subtotal 3000, got %s", items[1].Subtotal)
	}
	if !subtotal.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("expected subtotal 8000, got %s", subtotal)
	}
}

func TestReceiveSalesOrderItems_DiscountCanExceedLine(t *testing.T) {
	// No clamping: a discount above the line value yields a negative line.
	items, subtotal := receiveSalesOrderItems(&NewSalesOrder{
		Items: []NewSalesOrderItem{
			{ProductId: 1, Qty: 1, UnitPrice: decimal.NewFromInt(100), Discount: decimal.NewFromInt(150)},
		},
	})

	if !items[0].Subtotal.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expected line subtotal -50, got %s", items[0].Subtotal)
	}
	if !subtotal.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expected subtotal -50, got %s", subtotal)
	}
}

func TestReceivePurchaseOrderItems_Totals(t *testing.T) {
	items, subtotal := receivePurchaseOrderItems(&NewPurchaseOrder{
		Items: []NewPurchaseOrderItem{
			{ProductId: 1, Qty: 40, UnitPrice: decimal.NewFromInt(700)},
			{ProductId: 2, Qty: 5, UnitPrice: decimal.NewFromFloat(19.99)},
		},
	})

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Subtotal.Equal(decimal.NewFromInt(28000)) {
		t.Fatalf("expected line 1 subtotal 28000, got %s", items[0].Subtotal)
	}
	if !items[1].Subtotal.Equal(decimal.NewFromFloat(99.95)) {
		t.Fatalf("expected line 2 subtotal 99.95, got %s", items[1].Subtotal)
	}
	if !subtotal.Equal(decimal.NewFromFloat(28099.95)) {
		t.Fatalf("expected subtotal 28099.95, got %s", subtotal)
	}
}
