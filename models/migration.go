package models

import (
	"log"

	"bitbucket.org/mmdatafocus/erp_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Category{}, &Product{}, &StockMovement{},
		&Customer{}, &SalesOrder{}, &SalesOrderItem{},
		&Supplier{}, &PurchaseOrder{}, &PurchaseOrderItem{},
		&GoodsReceipt{}, &GoodsReceiptItem{},
		&CashAccount{}, &JournalEntry{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
