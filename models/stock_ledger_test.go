package models_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/models"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

func createTestProduct(t *testing.T, ctx context.Context, sku string, openingStock int) *models.Product {
	t.Helper()
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:       sku,
		Name:      "Product " + sku,
		BuyPrice:  decimal.NewFromInt(700),
		SellPrice: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s): %v", sku, err)
	}
	if openingStock != 0 {
		if _, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
			ProductId: product.ID,
			Quantity:  openingStock,
			Notes:     "opening stock",
		}); err != nil {
			t.Fatalf("opening stock adjustment: %v", err)
		}
	}
	return product
}

// requireStockConsistent asserts the ledger invariant: the cached balance
// equals the signed sum of the product's movements.
func requireStockConsistent(t *testing.T, ctx context.Context, productId int) int {
	t.Helper()
	db := config.GetDB()

	product, err := models.GetProduct(ctx, productId)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	var sum int
	if err := db.WithContext(ctx).Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productId).
		Scan(&sum).Error; err != nil {
		t.Fatalf("sum movements: %v", err)
	}
	if product.CurrentStock != sum {
		t.Fatalf("stock ledger out of sync: current_stock=%d sum(movements)=%d", product.CurrentStock, sum)
	}
	return product.CurrentStock
}

func TestStockAdjustment_UpdatesBalanceAndLedger(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "ADJ-001", 10)

	movement, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
		ProductId: product.ID,
		Quantity:  -3,
		Notes:     "damaged during count",
	})
	if err != nil {
		t.Fatalf("CreateStockAdjustment: %v", err)
	}
	if movement.Type != models.StockMovementTypeAdjustment {
		t.Fatalf("expected adjustment type, got %s", movement.Type)
	}
	if movement.ReferenceType != models.StockReferenceTypeManual {
		t.Fatalf("expected manual reference, got %s", movement.ReferenceType)
	}
	if movement.CreatedBy != 1 {
		t.Fatalf("expected created_by=1, got %d", movement.CreatedBy)
	}

	if got := requireStockConsistent(t, ctx, product.ID); got != 7 {
		t.Fatalf("expected stock 7, got %d", got)
	}
}

func TestStockAdjustment_AllowsNegativeStock(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "NEG-001", 2)

	if _, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
		ProductId: product.ID,
		Quantity:  -5,
	}); err != nil {
		t.Fatalf("CreateStockAdjustment: %v", err)
	}

	if got := requireStockConsistent(t, ctx, product.ID); got != -3 {
		t.Fatalf("expected stock -3, got %d", got)
	}
}

func TestStockAdjustment_MissingProduct(t *testing.T) {
	ctx := setupIntegration(t)

	_, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
		ProductId: 999999,
		Quantity:  1,
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

// Concurrent movements on the same product must serialize on the row lock;
// the final balance is the sum of all of them, no lost updates.
func TestStockAdjustment_ConcurrentNoLostUpdates(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "CONC-001", 100)

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
				ProductId: product.ID,
				Quantity:  -1,
				Notes:     fmt.Sprintf("worker %d", n),
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent adjustment: %v", err)
		}
	}

	if got := requireStockConsistent(t, ctx, product.ID); got != 80 {
		t.Fatalf("expected stock 80 after 20 concurrent decrements, got %d", got)
	}

	// opening adjustment + one row per worker, none lost
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&models.StockMovement{}).
		Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != workers+1 {
		t.Fatalf("expected %d movement rows, got %d", workers+1, count)
	}
}

// A store error on the lock-read must surface as itself so the caller's
// transaction aborts; only a genuinely missing row may read as NotFound,
// since orchestrators skip that sentinel per line.
func TestApplyStockMovement_StoreErrorIsNotNotFound(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "ERR-001", 10)

	db := config.GetDB()
	tx := db.Begin()
	defer tx.Rollback()

	deadCtx, cancel := context.WithCancel(ctx)
	cancel()

	_, err := models.ApplyStockMovement(tx, deadCtx, product.ID, models.StockMovementTypeAdjustment, 1, nil, models.StockReferenceTypeManual, "")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("store error collapsed into record not found: %v", err)
	}
}

func TestListProducts_LowStockFilter(t *testing.T) {
	ctx := setupIntegration(t)

	// min_stock defaults to 5
	low := createTestProduct(t, ctx, "LOW-001", 2)
	createTestProduct(t, ctx, "OK-001", 50)

	products, err := models.ListProducts(ctx, true)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", len(products))
	}
	if products[0].ID != low.ID {
		t.Fatalf("expected product %d, got %d", low.ID, products[0].ID)
	}
}

func TestListProductMovements_NewestFirst(t *testing.T) {
	ctx := setupIntegration(t)

	product := createTestProduct(t, ctx, "MOV-001", 5)
	if _, err := models.CreateStockAdjustment(ctx, &models.NewStockAdjustment{
		ProductId: product.ID,
		Quantity:  3,
	}); err != nil {
		t.Fatalf("CreateStockAdjustment: %v", err)
	}

	movements, err := models.ListProductMovements(ctx, product.ID)
	if err != nil {
		t.Fatalf("ListProductMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].Quantity != 3 {
		t.Fatalf("expected newest movement first (qty 3), got %d", movements[0].Quantity)
	}
}
