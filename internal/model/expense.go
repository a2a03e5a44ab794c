package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ExpenseCategoryTransportation = "Transportation"
	ExpenseCategoryMaterials      = "Materials"
	ExpenseCategoryEquipment      = "Equipment"
	ExpenseCategoryOther          = "Other"
)

type Expense struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

func (e *Expense) AuthorizationScope() int64 { return e.ProjectID }

func ValidExpenseCategory(s string) bool {
	switch s {
	case ExpenseCategoryTransportation, ExpenseCategoryMaterials,
		ExpenseCategoryEquipment, ExpenseCategoryOther:
		return true
	}
	return false
}
