package core

import "cloud.google.com/go/civil"

// MethodTotal aggregates one payment method over a day.
type MethodTotal struct {
	Method string
	Count  int64
	Total  float64
}

// Dashboard is everything the day view shows for a selected date.
type Dashboard struct {
	Date       civil.Date
	Rentals    []Rental // id descending
	DayTotal   float64
	CashTotal  float64 // all dates, not only Date
	MonthTotal float64
	ByMethod   []MethodTotal
}

// RangeReport is the result of an inclusive date-range filter.
type RangeReport struct {
	Start   string // echoed as received
	End     string
	Rentals []Rental // date descending
	Total   float64
}
