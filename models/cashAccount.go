package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
)

type CashAccount struct {
	ID   int             `gorm:"primary_key" json:"id"`
	Name string          `gorm:"size:100;not null;unique;index" json:"name" binding:"required"`
	Type CashAccountType `gorm:"type:enum('cash','bank','ewallet');default:'cash'" json:"type"`
	// Balance is a running total: opening balance plus the signed sum of the
	// account's journal entries. ApplyJournalEntry is the only writer after
	// creation.
	Balance   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	IsActive  *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCashAccount struct {
	Name           string          `json:"name" binding:"required"`
	Type           CashAccountType `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type UpdateCashAccountInput struct {
	Name *string          `json:"name"`
	Type *CashAccountType `json:"type"`
}

func CreateCashAccount(ctx context.Context, input *NewCashAccount) (*CashAccount, error) {

	if err := utils.ValidateUnique[CashAccount](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}
	accountType := input.Type
	if accountType == "" {
		accountType = CashAccountTypeCash
	}
	if !accountType.IsValid() {
		return nil, errors.New("invalid cash account type")
	}

	account := CashAccount{
		Name:     input.Name,
		Type:     accountType,
		Balance:  input.OpeningBalance,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func GetCashAccount(ctx context.Context, id int) (*CashAccount, error) {
	return utils.FetchModel[CashAccount](ctx, id)
}

func ListCashAccounts(ctx context.Context) ([]*CashAccount, error) {
	return utils.FetchAllModels[CashAccount](ctx)
}

// UpdateCashAccount changes descriptive fields only; Balance belongs to the
// ledger.
func UpdateCashAccount(ctx context.Context, id int, input *UpdateCashAccountInput) (*CashAccount, error) {

	account, err := utils.FetchModel[CashAccount](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		if err := utils.ValidateUnique[CashAccount](ctx, "name", *input.Name, id); err != nil {
			return nil, err
		}
		updates["Name"] = *input.Name
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, errors.New("invalid cash account type")
		}
		updates["Type"] = *input.Type
	}
	if len(updates) == 0 {
		return account, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func DeactivateCashAccount(ctx context.Context, id int) (*CashAccount, error) {

	account, err := utils.FetchModel[CashAccount](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(account).UpdateColumn("IsActive", false).Error; err != nil {
		return nil, err
	}
	return account, nil
}

type FinanceSummary struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalReceivables decimal.Decimal `json:"total_receivables"`
	TotalPayables    decimal.Decimal `json:"total_payables"`
}

// GetFinanceSummary sums active account balances. Receivables/payables are
// zero until an invoicing flow exists.
func GetFinanceSummary(ctx context.Context) (*FinanceSummary, error) {

	db := config.GetDB()
	var totalBalance decimal.Decimal
	if err := db.WithContext(ctx).Model(&CashAccount{}).
		Select("COALESCE(SUM(balance), 0)").
		Where("is_active = ?", true).
		Scan(&totalBalance).Error; err != nil {
		return nil, err
	}

	return &FinanceSummary{
		TotalBalance:     totalBalance,
		TotalReceivables: decimal.Zero,
		TotalPayables:    decimal.Zero,
	}, nil
}
