package model

import (
	"testing"
	"time"
)

func TestTransactionTypeValid(t *testing.T) {
	tests := []struct {
		txnType TransactionType
		valid   bool
	}{
		{TypeIncome, true},
		{TypeExpense, true},
		{TransactionType(""), false},
		{TransactionType("transfer"), false},
		{TransactionType("Income"), false},
	}

	for _, tt := range tests {
		if got := tt.txnType.Valid(); got != tt.valid {
			t.Errorf("TransactionType(%q).Valid() = %v, want %v", tt.txnType, got, tt.valid)
		}
	}
}

func TestTransactionPatchApply(t *testing.T) {
	original := Transaction{
		ID:          "t1",
		Type:        TypeExpense,
		Name:        "Coffee",
		Description: "morning",
		Amount:      4.5,
		Date:        NewDate(2024, time.May, 30),
		CategoryID:  "cat-1",
	}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		txn := original
		TransactionPatch{}.Apply(&txn)
		if txn != original {
			t.Errorf("empty patch modified transaction: %+v", txn)
		}
	})

	t.Run("set fields are merged", func(t *testing.T) {
		txn := original
		name := "Espresso"
		amount := 3.0
		TransactionPatch{Name: &name, Amount: &amount}.Apply(&txn)

		if txn.Name != "Espresso" || txn.Amount != 3.0 {
			t.Errorf("patched fields not applied: %+v", txn)
		}
		if txn.Type != original.Type || txn.Description != original.Description {
			t.Errorf("unpatched fields changed: %+v", txn)
		}
	})

	t.Run("empty string clears a field", func(t *testing.T) {
		txn := original
		cleared := ""
		TransactionPatch{CategoryID: &cleared}.Apply(&txn)

		if txn.CategoryID != "" {
			t.Errorf("CategoryID = %q, want empty", txn.CategoryID)
		}
	})
}

func TestCategoryTypeValid(t *testing.T) {
	tests := []struct {
		catType CategoryType
		valid   bool
	}{
		{CategoryTypeIncome, true},
		{CategoryTypeExpense, true},
		{CategoryTypeBoth, true},
		{CategoryType(""), false},
		{CategoryType("mixed"), false},
	}

	for _, tt := range tests {
		if got := tt.catType.Valid(); got != tt.valid {
			t.Errorf("CategoryType(%q).Valid() = %v, want %v", tt.catType, got, tt.valid)
		}
	}
}
