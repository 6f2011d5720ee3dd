package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"alugueis/internal/core"
	applog "alugueis/internal/log"

	"cloud.google.com/go/civil"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements ledger.Store on a single SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database connection is usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert implements ledger.RentalWriter
func (r *SQLiteRepository) Insert(ctx context.Context, rental core.Rental) (core.Rental, error) {
	if err := rental.Validate(); err != nil {
		return core.Rental{}, err
	}
	row, err := r.queries.CreateRental(ctx, CreateRentalParams{
		Date:          rental.Date.String(),
		Amount:        rental.Amount,
		PaymentMethod: rental.PaymentMethod,
	})
	if err != nil {
		return core.Rental{}, fmt.Errorf("create rental: %w", err)
	}

	slog.DebugContext(ctx, "Rental saved to SQLite",
		"id", row.ID,
		applog.FieldRentalDate, row.Date,
		applog.FieldAmount, row.Amount,
		applog.FieldPaymentMethod, row.PaymentMethod)

	return toCore(row)
}

// ListByDay implements ledger.RentalReader
func (r *SQLiteRepository) ListByDay(ctx context.Context, day civil.Date) ([]core.Rental, error) {
	rows, err := r.queries.GetRentalsByDay(ctx, day.String())
	if err != nil {
		return nil, fmt.Errorf("get rentals by day %s: %w", day, err)
	}
	return toCoreSlice(rows)
}

// ListByRange implements ledger.RentalReader
func (r *SQLiteRepository) ListByRange(ctx context.Context, start, end civil.Date) ([]core.Rental, error) {
	rows, err := r.queries.GetRentalsByRange(ctx, DateRangeParams{Start: start.String(), End: end.String()})
	if err != nil {
		return nil, fmt.Errorf("get rentals between %s and %s: %w", start, end, err)
	}
	return toCoreSlice(rows)
}

func (r *SQLiteRepository) SumByDay(ctx context.Context, day civil.Date) (float64, error) {
	total, err := r.queries.GetDayTotal(ctx, day.String())
	if err != nil {
		return 0, fmt.Errorf("get day total: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) SumByMonth(ctx context.Context, year int, month int) (float64, error) {
	total, err := r.queries.GetMonthTotal(ctx, core.MonthKey(civil.Date{Year: year, Month: time.Month(month), Day: 1}))
	if err != nil {
		return 0, fmt.Errorf("get month total: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) SumByMethod(ctx context.Context, method string) (float64, error) {
	total, err := r.queries.GetMethodTotal(ctx, method)
	if err != nil {
		return 0, fmt.Errorf("get method total: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) SumByRange(ctx context.Context, start, end civil.Date) (float64, error) {
	total, err := r.queries.GetRangeTotal(ctx, DateRangeParams{Start: start.String(), End: end.String()})
	if err != nil {
		return 0, fmt.Errorf("get range total: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) MethodTotalsByDay(ctx context.Context, day civil.Date) ([]core.MethodTotal, error) {
	rows, err := r.queries.GetMethodTotalsByDay(ctx, day.String())
	if err != nil {
		return nil, fmt.Errorf("get method totals by day: %w", err)
	}
	out := make([]core.MethodTotal, len(rows))
	for i, row := range rows {
		out[i] = core.MethodTotal{Method: row.PaymentMethod, Count: row.Count, Total: row.Total}
	}
	return out, nil
}

func toCore(row Rental) (core.Rental, error) {
	d, err := civil.ParseDate(row.Date)
	if err != nil {
		return core.Rental{}, fmt.Errorf("parse stored date %q for rental %d: %w", row.Date, row.ID, err)
	}
	return core.Rental{
		ID:            row.ID,
		Date:          d,
		Amount:        row.Amount,
		PaymentMethod: row.PaymentMethod,
	}, nil
}

func toCoreSlice(rows []Rental) ([]core.Rental, error) {
	out := make([]core.Rental, 0, len(rows))
	for _, row := range rows {
		r, err := toCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
