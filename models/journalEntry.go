package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalEntry is an immutable event, same discipline as StockMovement:
// append-only, never updated or deleted. CashAccount.Balance must always
// equal the opening balance plus the signed sum of the account's entries.
type JournalEntry struct {
	ID            int              `gorm:"primary_key" json:"id"`
	CashAccountId int              `gorm:"index;not null" json:"cash_account_id"`
	Type          JournalEntryType `gorm:"type:enum('income','expense');not null" json:"type"`
	// Amount is a positive magnitude; Type carries the direction.
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"size:100" json:"category"`
	Reference   string          `gorm:"size:100" json:"reference"`
	EntryDate   time.Time       `json:"entry_date"`
	CreatedBy   int             `json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	CashAccount *CashAccount `json:"cash_account,omitempty"`
}

// ApplyJournalEntry is the single writer of CashAccount.Balance after
// creation. It locks the account row, applies the signed delta as a relative
// update and appends the entry, all on the caller's transaction. Entries on
// the same account serialize on the row lock; entries on different accounts
// do not contend. Income adds, expense subtracts.
//
// The balance is allowed to go negative.
func ApplyJournalEntry(tx *gorm.DB, ctx context.Context, accountId int, entryType JournalEntryType, amount decimal.Decimal, description string, category string, reference string, entryDate time.Time) (*JournalEntry, error) {

	var account CashAccount
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, accountId).Error; err != nil {
		// Same distinction as the stock engine: NotFound only for a missing
		// row, every other store error propagates and rolls the caller back.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	delta := amount
	if entryType == JournalEntryTypeExpense {
		delta = amount.Neg()
	}
	if err := tx.WithContext(ctx).
		Exec("UPDATE cash_accounts SET balance = balance + ? WHERE id = ?", delta, accountId).Error; err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	entry := JournalEntry{
		CashAccountId: accountId,
		Type:          entryType,
		Amount:        amount,
		Description:   description,
		Category:      category,
		Reference:     reference,
		EntryDate:     entryDate,
		CreatedBy:     userId,
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

type NewJournalEntry struct {
	CashAccountId int              `json:"cash_account_id" binding:"required"`
	Type          JournalEntryType `json:"type" binding:"required"`
	Amount        decimal.Decimal  `json:"amount" binding:"required,dgt0"`
	Description   string           `json:"description" binding:"required"`
	Category      string           `json:"category"`
	Reference     string           `json:"reference"`
	EntryDate     *time.Time       `json:"entry_date"`
}

func (input *NewJournalEntry) validate() error {
	if !input.Type.IsValid() {
		return errors.New("invalid journal entry type")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be positive")
	}
	return nil
}

func CreateJournalEntry(ctx context.Context, input *NewJournalEntry) (*JournalEntry, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	entryDate := time.Now()
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}

	db := config.GetDB()
	tx := db.Begin()

	entry, err := ApplyJournalEntry(tx, ctx, input.CashAccountId, input.Type, input.Amount, input.Description, input.Category, input.Reference, entryDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListJournalEntries returns entries newest first, optionally scoped to one
// account.
func ListJournalEntries(ctx context.Context, accountId int) ([]*JournalEntry, error) {

	db := config.GetDB()
	query := db.WithContext(ctx).Preload("CashAccount")
	if accountId != 0 {
		if err := utils.ValidateResourceId[CashAccount](ctx, accountId); err != nil {
			return nil, err
		}
		query = query.Where("cash_account_id = ?", accountId)
	}

	var entries []*JournalEntry
	if err := query.Order("entry_date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
