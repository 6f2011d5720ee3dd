package ledger

import (
	"context"

	"alugueis/internal/core"

	"cloud.google.com/go/civil"
)

// Ports for storage adapters.
type (
	RentalWriter interface {
		// Insert stores r and returns it with its assigned ID.
		Insert(ctx context.Context, r core.Rental) (core.Rental, error)
	}

	RentalReader interface {
		// ListByDay returns the rentals dated day, newest insert first.
		ListByDay(ctx context.Context, day civil.Date) ([]core.Rental, error)
		// ListByRange returns rentals with start <= date <= end, latest date first.
		ListByRange(ctx context.Context, start, end civil.Date) ([]core.Rental, error)
	}

	// RentalAggregator answers the sum queries behind the dashboards.
	// Every sum is 0 when no row matches.
	RentalAggregator interface {
		SumByDay(ctx context.Context, day civil.Date) (float64, error)
		SumByMonth(ctx context.Context, year int, month int) (float64, error)
		SumByMethod(ctx context.Context, method string) (float64, error)
		SumByRange(ctx context.Context, start, end civil.Date) (float64, error)
		MethodTotalsByDay(ctx context.Context, day civil.Date) ([]core.MethodTotal, error)
	}

	Store interface {
		RentalWriter
		RentalReader
		RentalAggregator
	}
)
