package storage

import (
	"context"
	"path/filepath"
	"testing"

	"alugueis/internal/core"
	"alugueis/internal/ledger"
	"alugueis/internal/ledger/ledgertest"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) ledger.Store { return newTestRepo(t) })
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)

	d := civil.Date{Year: 2024, Month: 3, Day: 1}
	_, err = repo.Insert(context.Background(), core.Rental{Date: d, Amount: 42.5, PaymentMethod: "Pix"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	total, err := reopened.SumByDay(context.Background(), d)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, total, 1e-9)
}

func TestSQLiteRepositoryRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Insert(context.Background(), core.Rental{PaymentMethod: "Cash"})
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestSQLiteRepositoryPing(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
