package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

func TestExportSnapshot(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	_, err := store.AddCategory(ctx, &model.Category{Name: "Food", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		txn := testTransaction("txn", model.TypeExpense, 10, model.NewDate(2024, 1, i+1))
		_, err = store.AddTransaction(ctx, &txn)
		require.NoError(t, err)
	}

	snap, err := store.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.ExportedAt.IsZero())
	assert.Equal(t, 3, snap.Count)
	assert.Len(t, snap.Transactions, 3)
	assert.Len(t, snap.Categories, 1)
}

func TestImportSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip reproduces the transaction set", func(t *testing.T) {
		store := createTestStore(t)

		for i := 0; i < 4; i++ {
			txn := testTransaction("txn", model.TypeExpense, float64(10*(i+1)), model.NewDate(2024, 2, i+1))
			_, err := store.AddTransaction(ctx, &txn)
			require.NoError(t, err)
		}
		before, err := store.ListTransactions(ctx)
		require.NoError(t, err)

		snap, err := store.ExportSnapshot(ctx)
		require.NoError(t, err)

		count, err := store.ImportSnapshot(ctx, snap)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		after, err := store.ListTransactions(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, before, after)
	})

	t.Run("replaces existing transactions", func(t *testing.T) {
		store := createTestStore(t)

		old := testTransaction("old", model.TypeExpense, 5, model.NewDate(2023, 6, 1))
		_, err := store.AddTransaction(ctx, &old)
		require.NoError(t, err)

		restored := testTransaction("restored", model.TypeIncome, 100, model.NewDate(2024, 1, 1))
		restored.ID = "snap-1"
		count, err := store.ImportSnapshot(ctx, &model.Snapshot{
			Transactions: []model.Transaction{restored},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		all, err := store.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "restored", all[0].Name)
	})

	t.Run("nil transactions is rejected", func(t *testing.T) {
		store := createTestStore(t)

		_, err := store.ImportSnapshot(ctx, &model.Snapshot{})
		assert.ErrorIs(t, err, common.ErrInvalidFormat)

		_, err = store.ImportSnapshot(ctx, nil)
		assert.ErrorIs(t, err, common.ErrInvalidFormat)
	})

	t.Run("failed import leaves the store unchanged", func(t *testing.T) {
		store := createTestStore(t)

		keep := testTransaction("keep", model.TypeExpense, 5, model.NewDate(2024, 3, 1))
		_, err := store.AddTransaction(ctx, &keep)
		require.NoError(t, err)

		good := testTransaction("good", model.TypeIncome, 10, model.NewDate(2024, 3, 2))
		good.ID = "dup"
		bad := testTransaction("bad", model.TypeIncome, 20, model.NewDate(2024, 3, 3))
		bad.ID = "dup"

		_, err = store.ImportSnapshot(ctx, &model.Snapshot{
			Transactions: []model.Transaction{good, bad},
		})
		require.Error(t, err)

		all, listErr := store.ListTransactions(ctx)
		require.NoError(t, listErr)
		require.Len(t, all, 1)
		assert.Equal(t, "keep", all[0].Name)
	})

	t.Run("restores into a different seeded store", func(t *testing.T) {
		source := createTestStore(t)
		require.NoError(t, source.SeedDefaultCategories(ctx))

		entertainment, err := source.GetCategoryByName(ctx, "Entertainment")
		require.NoError(t, err)
		require.NotNil(t, entertainment)

		txn := testTransaction("Cinema", model.TypeExpense, 15, model.NewDate(2024, 4, 6))
		txn.CategoryID = entertainment.ID
		_, err = source.AddTransaction(ctx, &txn)
		require.NoError(t, err)

		snap, err := source.ExportSnapshot(ctx)
		require.NoError(t, err)

		// A second store seeds its own default categories under fresh ids.
		dest := createTestStore(t)
		require.NoError(t, dest.SeedDefaultCategories(ctx))

		destEntertainment, err := dest.GetCategoryByName(ctx, "Entertainment")
		require.NoError(t, err)
		require.NotNil(t, destEntertainment)
		require.NotEqual(t, entertainment.ID, destEntertainment.ID)

		count, err := dest.ImportSnapshot(ctx, snap)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		all, err := dest.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Cinema", all[0].Name)
		assert.Equal(t, destEntertainment.ID, all[0].CategoryID)

		// No duplicate Entertainment row was created.
		cats, err := dest.CategoriesByType(ctx, model.CategoryTypeExpense)
		require.NoError(t, err)
		names := make(map[string]int)
		for _, c := range cats {
			names[c.Name]++
		}
		assert.Equal(t, 1, names["Entertainment"])
	})

	t.Run("reassigns a category id taken by a different name", func(t *testing.T) {
		store := createTestStore(t)

		local, err := store.AddCategory(ctx, &model.Category{
			ID:   "cat-1",
			Name: "Utilities",
			Type: model.CategoryTypeExpense,
		})
		require.NoError(t, err)

		restored := testTransaction("Lunch", model.TypeExpense, 12, model.NewDate(2024, 4, 7))
		restored.CategoryID = "cat-1"
		count, err := store.ImportSnapshot(ctx, &model.Snapshot{
			Transactions: []model.Transaction{restored},
			Categories: []model.Category{
				{ID: "cat-1", Name: "Dining", Type: model.CategoryTypeExpense},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		kept, err := store.GetCategory(ctx, "cat-1")
		require.NoError(t, err)
		require.NotNil(t, kept)
		assert.Equal(t, "Utilities", kept.Name)

		dining, err := store.GetCategoryByName(ctx, "Dining")
		require.NoError(t, err)
		require.NotNil(t, dining)
		assert.NotEqual(t, local.ID, dining.ID)

		all, err := store.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, dining.ID, all[0].CategoryID)
	})

	t.Run("restores snapshot categories", func(t *testing.T) {
		store := createTestStore(t)

		count, err := store.ImportSnapshot(ctx, &model.Snapshot{
			Transactions: []model.Transaction{},
			Categories: []model.Category{
				{Name: "Restored", Type: model.CategoryTypeBoth},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		cat, err := store.GetCategoryByName(ctx, "Restored")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.NotEmpty(t, cat.ID)
	})
}

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
		want    int
	}{
		{
			name:    "valid snapshot",
			payload: `{"exportedAt":"2024-06-01T10:00:00Z","count":1,"transactions":[{"id":"a","type":"expense","name":"Coffee","amount":4.5,"date":"2024-05-30","createdAt":"2024-05-30T09:00:00Z","updatedAt":"2024-05-30T09:00:00Z"}]}`,
			want:    1,
		},
		{
			name:    "empty transactions array",
			payload: `{"exportedAt":"2024-06-01T10:00:00Z","count":0,"transactions":[]}`,
			want:    0,
		},
		{
			name:    "missing transactions field",
			payload: `{"exportedAt":"2024-06-01T10:00:00Z","count":0}`,
			wantErr: true,
		},
		{
			name:    "transactions is null",
			payload: `{"transactions":null}`,
			wantErr: true,
		},
		{
			name:    "transactions is not an array",
			payload: `{"transactions":"nope"}`,
			wantErr: true,
		},
		{
			name:    "not a JSON object",
			payload: `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "not JSON at all",
			payload: `hello`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := ParseSnapshot([]byte(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Len(t, snap.Transactions, tt.want)
		})
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	txn := testTransaction("Coffee", model.TypeExpense, 4.5, model.NewDate(2024, 5, 30))
	_, err := store.AddTransaction(ctx, &txn)
	require.NoError(t, err)

	snap, err := store.ExportSnapshot(ctx)
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "exportedAt")
	assert.Contains(t, doc, "count")
	assert.Contains(t, doc, "transactions")

	transactions, ok := doc["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, transactions, 1)

	first, ok := transactions[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-05-30", first["date"])
	assert.Equal(t, "expense", first["type"])
}
