package model

import "time"

// TransactionType indicates whether a transaction is income or an expense.
type TransactionType string

const (
	// TypeIncome represents money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money going out.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single income or expense event.
type Transaction struct {
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category,omitempty"`
	Date        Date            `json:"date"`
	Amount      float64         `json:"amount"`
}

// TransactionPatch holds the optional fields of a partial update.
// Nil fields are left untouched.
type TransactionPatch struct {
	Type        *TransactionType
	Name        *string
	Description *string
	Amount      *float64
	Date        *Date
	CategoryID  *string
}

// Apply merges the patch over a transaction in place.
func (p TransactionPatch) Apply(txn *Transaction) {
	if p.Type != nil {
		txn.Type = *p.Type
	}
	if p.Name != nil {
		txn.Name = *p.Name
	}
	if p.Description != nil {
		txn.Description = *p.Description
	}
	if p.Amount != nil {
		txn.Amount = *p.Amount
	}
	if p.Date != nil {
		txn.Date = *p.Date
	}
	if p.CategoryID != nil {
		txn.CategoryID = *p.CategoryID
	}
}
