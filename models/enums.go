package models

// Wire and column values below are load-bearing: downstream balances are
// computed as sums over rows carrying these exact strings.

type StockMovementType string

const (
	StockMovementTypeIn         StockMovementType = "in"
	StockMovementTypeOut        StockMovementType = "out"
	StockMovementTypeAdjustment StockMovementType = "adjustment"
)

func (t StockMovementType) IsValid() bool {
	switch t {
	case StockMovementTypeIn, StockMovementTypeOut, StockMovementTypeAdjustment:
		return true
	}
	return false
}

type StockReferenceType string

const (
	StockReferenceTypeSales    StockReferenceType = "sales"
	StockReferenceTypePurchase StockReferenceType = "purchase"
	StockReferenceTypeManual   StockReferenceType = "manual"
)

type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "draft"
	SalesOrderStatusUnpaid    SalesOrderStatus = "unpaid"
	SalesOrderStatusPartial   SalesOrderStatus = "partial"
	SalesOrderStatusPaid      SalesOrderStatus = "paid"
	SalesOrderStatusCancelled SalesOrderStatus = "cancelled"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

type CashAccountType string

const (
	CashAccountTypeCash    CashAccountType = "cash"
	CashAccountTypeBank    CashAccountType = "bank"
	CashAccountTypeEwallet CashAccountType = "ewallet"
)

func (t CashAccountType) IsValid() bool {
	switch t {
	case CashAccountTypeCash, CashAccountTypeBank, CashAccountTypeEwallet:
		return true
	}
	return false
}

type JournalEntryType string

const (
	JournalEntryTypeIncome  JournalEntryType = "income"
	JournalEntryTypeExpense JournalEntryType = "expense"
)

func (t JournalEntryType) IsValid() bool {
	switch t {
	case JournalEntryTypeIncome, JournalEntryTypeExpense:
		return true
	}
	return false
}
