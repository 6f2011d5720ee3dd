package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Rental is a row of the rentals table. Date is kept as YYYY-MM-DD text.
type Rental struct {
	ID            int64
	Date          string
	Amount        float64
	PaymentMethod string
}

type MethodTotalRow struct {
	PaymentMethod string
	Count         int64
	Total         float64
}

const createRental = `INSERT INTO rentals (date, amount, payment_method)
VALUES (?, ?, ?)
RETURNING id, date, amount, payment_method`

type CreateRentalParams struct {
	Date          string
	Amount        float64
	PaymentMethod string
}

func (q *Queries) CreateRental(ctx context.Context, arg CreateRentalParams) (Rental, error) {
	row := q.db.QueryRowContext(ctx, createRental, arg.Date, arg.Amount, arg.PaymentMethod)
	var i Rental
	err := row.Scan(&i.ID, &i.Date, &i.Amount, &i.PaymentMethod)
	return i, err
}

const getRentalsByDay = `SELECT id, date, amount, payment_method FROM rentals
WHERE date = ?
ORDER BY id DESC`

func (q *Queries) GetRentalsByDay(ctx context.Context, date string) ([]Rental, error) {
	return q.listRentals(ctx, getRentalsByDay, date)
}

const getRentalsByRange = `SELECT id, date, amount, payment_method FROM rentals
WHERE date >= ? AND date <= ?
ORDER BY date DESC, id DESC`

type DateRangeParams struct {
	Start string
	End   string
}

func (q *Queries) GetRentalsByRange(ctx context.Context, arg DateRangeParams) ([]Rental, error) {
	return q.listRentals(ctx, getRentalsByRange, arg.Start, arg.End)
}

const getDayTotal = `SELECT CAST(COALESCE(SUM(amount), 0) AS REAL) FROM rentals WHERE date = ?`

func (q *Queries) GetDayTotal(ctx context.Context, date string) (float64, error) {
	return q.sum(ctx, getDayTotal, date)
}

const getMonthTotal = `SELECT CAST(COALESCE(SUM(amount), 0) AS REAL) FROM rentals
WHERE strftime('%Y-%m', date) = ?`

// GetMonthTotal takes the month as YYYY-MM.
func (q *Queries) GetMonthTotal(ctx context.Context, yearMonth string) (float64, error) {
	return q.sum(ctx, getMonthTotal, yearMonth)
}

const getMethodTotal = `SELECT CAST(COALESCE(SUM(amount), 0) AS REAL) FROM rentals WHERE payment_method = ?`

func (q *Queries) GetMethodTotal(ctx context.Context, method string) (float64, error) {
	return q.sum(ctx, getMethodTotal, method)
}

const getRangeTotal = `SELECT CAST(COALESCE(SUM(amount), 0) AS REAL) FROM rentals
WHERE date >= ? AND date <= ?`

func (q *Queries) GetRangeTotal(ctx context.Context, arg DateRangeParams) (float64, error) {
	return q.sum(ctx, getRangeTotal, arg.Start, arg.End)
}

const getMethodTotalsByDay = `SELECT payment_method, COUNT(id), CAST(COALESCE(SUM(amount), 0) AS REAL)
FROM rentals
WHERE date = ?
GROUP BY payment_method
ORDER BY payment_method`

func (q *Queries) GetMethodTotalsByDay(ctx context.Context, date string) ([]MethodTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, getMethodTotalsByDay, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MethodTotalRow
	for rows.Next() {
		var i MethodTotalRow
		if err := rows.Scan(&i.PaymentMethod, &i.Count, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) listRentals(ctx context.Context, query string, args ...interface{}) ([]Rental, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Rental
	for rows.Next() {
		var i Rental
		if err := rows.Scan(&i.ID, &i.Date, &i.Amount, &i.PaymentMethod); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) sum(ctx context.Context, query string, args ...interface{}) (float64, error) {
	var total float64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}
