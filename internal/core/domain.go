package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
)

// MaxPaymentMethodLen mirrors the payment_method column width.
const MaxPaymentMethodLen = 50

// DateLayout is the wire format of every date the application accepts or renders.
const DateLayout = "2006-01-02"

type (
	// Rental is one logged rental transaction. Records are never mutated
	// after insert.
	Rental struct {
		ID            int64
		Date          civil.Date
		Amount        float64
		PaymentMethod string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrMethodTooLong = errors.New("payment method too long")
)

func (r Rental) Validate() error {
	if !r.Date.IsValid() {
		return ErrInvalidDate
	}
	if utf8.RuneCountInString(r.PaymentMethod) > MaxPaymentMethodLen {
		return ErrMethodTooLong
	}
	return nil
}

// parseLayout accepts month and day with or without a leading zero.
const parseLayout = "2006-1-2"

// ParseDate parses a YYYY-MM-DD string into a calendar date. Month and day
// need not be zero padded.
func ParseDate(s string) (civil.Date, error) {
	t, err := time.Parse(parseLayout, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, errors.Join(ErrInvalidDate, err)
	}
	return civil.DateOf(t), nil
}

// Today returns the current calendar date in the server's local time zone.
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

// MonthKey formats the year-month of d as YYYY-MM.
func MonthKey(d civil.Date) string {
	return d.String()[:7]
}
