// Package ledgertest holds the behaviour every ledger.Store must share.
package ledgertest

import (
	"context"
	"testing"
	"time"

	"alugueis/internal/core"
	"alugueis/internal/ledger"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

// Seed inserts rentals in order and fails the test on error.
func Seed(t *testing.T, s ledger.RentalWriter, rs ...core.Rental) []core.Rental {
	t.Helper()
	out := make([]core.Rental, 0, len(rs))
	for _, r := range rs {
		got, err := s.Insert(context.Background(), r)
		require.NoError(t, err)
		out = append(out, got)
	}
	return out
}

// Run exercises a fresh store returned by newStore in each subtest.
func Run(t *testing.T, newStore func(t *testing.T) ledger.Store) {
	ctx := context.Background()

	t.Run("empty sums are zero", func(t *testing.T) {
		s := newStore(t)
		d := day(2024, 3, 1)

		total, err := s.SumByDay(ctx, d)
		require.NoError(t, err)
		assert.Zero(t, total)

		total, err = s.SumByMonth(ctx, 2024, 3)
		require.NoError(t, err)
		assert.Zero(t, total)

		total, err = s.SumByMethod(ctx, "Cash")
		require.NoError(t, err)
		assert.Zero(t, total)

		total, err = s.SumByRange(ctx, d, d)
		require.NoError(t, err)
		assert.Zero(t, total)

		rs, err := s.ListByDay(ctx, d)
		require.NoError(t, err)
		assert.Empty(t, rs)

		mts, err := s.MethodTotalsByDay(ctx, d)
		require.NoError(t, err)
		assert.Empty(t, mts)
	})

	t.Run("ids strictly increase", func(t *testing.T) {
		s := newStore(t)
		got := Seed(t, s,
			core.Rental{Date: day(2024, 3, 1), Amount: 1, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 1, 1), Amount: 2, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 3, PaymentMethod: "Card"},
		)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i].ID, got[i-1].ID)
		}
	})

	t.Run("worked example", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s,
			core.Rental{Date: day(2024, 3, 1), Amount: 100, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 50, PaymentMethod: "Card"},
			core.Rental{Date: day(2024, 3, 2), Amount: 200, PaymentMethod: "Cash"},
		)
		d := day(2024, 3, 1)

		dayTotal, err := s.SumByDay(ctx, d)
		require.NoError(t, err)
		assert.InDelta(t, 150, dayTotal, 1e-9)

		monthTotal, err := s.SumByMonth(ctx, 2024, 3)
		require.NoError(t, err)
		assert.InDelta(t, 350, monthTotal, 1e-9)

		cash, err := s.SumByMethod(ctx, "Cash")
		require.NoError(t, err)
		assert.InDelta(t, 300, cash, 1e-9)

		mts, err := s.MethodTotalsByDay(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, []core.MethodTotal{
			{Method: "Card", Count: 1, Total: 50},
			{Method: "Cash", Count: 1, Total: 100},
		}, mts)
	})

	t.Run("day list is id descending across dates", func(t *testing.T) {
		s := newStore(t)
		seeded := Seed(t, s,
			core.Rental{Date: day(2024, 3, 1), Amount: 1, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 2), Amount: 2, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 3, PaymentMethod: "Pix"},
			core.Rental{Date: day(2024, 2, 28), Amount: 4, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 5, PaymentMethod: "Card"},
		)
		rs, err := s.ListByDay(ctx, day(2024, 3, 1))
		require.NoError(t, err)
		require.Len(t, rs, 3)
		assert.Equal(t, []int64{seeded[4].ID, seeded[2].ID, seeded[0].ID},
			[]int64{rs[0].ID, rs[1].ID, rs[2].ID})
		assert.Equal(t, seeded[4], rs[0])
	})

	t.Run("month excludes neighbours", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s,
			core.Rental{Date: day(2024, 2, 29), Amount: 1, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 10, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 31), Amount: 100, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 4, 1), Amount: 1000, PaymentMethod: "Cash"},
			core.Rental{Date: day(2023, 3, 15), Amount: 10000, PaymentMethod: "Cash"},
		)
		total, err := s.SumByMonth(ctx, 2024, 3)
		require.NoError(t, err)
		assert.InDelta(t, 110, total, 1e-9)
	})

	t.Run("range is inclusive", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s,
			core.Rental{Date: day(2024, 2, 29), Amount: 1, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 1), Amount: 10, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 3), Amount: 20, PaymentMethod: "Card"},
			core.Rental{Date: day(2024, 3, 5), Amount: 100, PaymentMethod: "Cash"},
			core.Rental{Date: day(2024, 3, 6), Amount: 1000, PaymentMethod: "Cash"},
		)
		start, end := day(2024, 3, 1), day(2024, 3, 5)

		rs, err := s.ListByRange(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, rs, 3)
		assert.Equal(t, day(2024, 3, 5), rs[0].Date)
		assert.Equal(t, day(2024, 3, 3), rs[1].Date)
		assert.Equal(t, day(2024, 3, 1), rs[2].Date)

		total, err := s.SumByRange(ctx, start, end)
		require.NoError(t, err)
		assert.InDelta(t, 130, total, 1e-9)
	})

	t.Run("zero amount is stored", func(t *testing.T) {
		s := newStore(t)
		got := Seed(t, s, core.Rental{Date: day(2024, 3, 1), Amount: 0, PaymentMethod: "Cash"})
		rs, err := s.ListByDay(ctx, day(2024, 3, 1))
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, got[0], rs[0])
		assert.Zero(t, rs[0].Amount)
	})
}
