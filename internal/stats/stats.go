// Package stats computes summary statistics over the stored transaction set.
package stats

import (
	"context"
	"strings"

	"github.com/tallyledger/tally/internal/model"
	"github.com/tallyledger/tally/internal/service"
)

// Summary is a flat global aggregate over all transactions.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
	Count        int
}

// Service derives aggregates by scanning the store. It keeps no state of
// its own; every call recomputes from scratch.
type Service struct {
	source service.TransactionReader
}

// New creates a stats service over the given transaction source.
func New(source service.TransactionReader) *Service {
	return &Service{source: source}
}

// Compute scans all transactions and sums amounts into income and expense
// totals. Balance is income minus expense.
func (s *Service) Compute(ctx context.Context) (*Summary, error) {
	transactions, err := s.source.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Count: len(transactions)}
	for _, txn := range transactions {
		switch txn.Type {
		case model.TypeIncome:
			summary.TotalIncome += txn.Amount
		case model.TypeExpense:
			summary.TotalExpense += txn.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	return summary, nil
}

// Search returns the transactions whose name or description contains text,
// case-insensitively. An empty query matches everything.
func (s *Service) Search(ctx context.Context, text string) ([]model.Transaction, error) {
	transactions, err := s.source.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(text)
	var matches []model.Transaction
	for _, txn := range transactions {
		if strings.Contains(strings.ToLower(txn.Name), needle) ||
			strings.Contains(strings.ToLower(txn.Description), needle) {
			matches = append(matches, txn)
		}
	}

	return matches, nil
}
