package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"alugueis/internal/core"
	"alugueis/internal/ledger"
	applog "alugueis/internal/log"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks alugueis/internal/services Publisher

// Publisher announces newly recorded rentals.
type Publisher interface {
	PublishRentalCreated(ctx context.Context, r core.Rental) error
}

// RentalService records rentals and assembles the day and range views.
type RentalService struct {
	store     ledger.Store
	publisher Publisher
	cashLabel string
	today     func() civil.Date
}

// NewRentalService wires the store; publisher may be nil.
func NewRentalService(store ledger.Store, publisher Publisher, cashLabel string) *RentalService {
	return &RentalService{
		store:     store,
		publisher: publisher,
		cashLabel: cashLabel,
		today:     core.Today,
	}
}

// WithToday overrides the clock used for the default selected day.
func (s *RentalService) WithToday(today func() civil.Date) *RentalService {
	s.today = today
	return s
}

// CashLabel is the payment method summed into the cash total.
func (s *RentalService) CashLabel() string {
	return s.cashLabel
}

// ResolveDay turns the session value into a date. An absent value means today;
// a malformed one is an ErrInvalidDate.
func (s *RentalService) ResolveDay(raw string, present bool) (civil.Date, error) {
	if !present {
		return s.today(), nil
	}
	return core.ParseDate(raw)
}

// RecordRental stores a rental for day. Unparseable amounts are stored as 0;
// the method is stored exactly as received.
func (s *RentalService) RecordRental(ctx context.Context, day civil.Date, amount string, method string) (core.Rental, error) {
	logger := applog.FromContext(ctx)
	value, ok := core.ParseAmount(amount)
	if !ok {
		logger.WarnContext(ctx, "Amount not a number, storing 0",
			applog.FieldComponent, applog.ComponentRental,
			"raw_amount", amount)
	}

	rental, err := s.store.Insert(ctx, core.Rental{
		Date:          day,
		Amount:        value,
		PaymentMethod: method,
	})
	if err != nil {
		return core.Rental{}, fmt.Errorf("save rental: %w", err)
	}

	logger.InfoContext(ctx, "Rental recorded",
		applog.NewFields().
			WithComponent(applog.ComponentRental).
			WithOperation(applog.OpCreate).
			WithRental(rental.ID, rental.Date.String(), rental.Amount, rental.PaymentMethod).
			ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishRentalCreated(ctx, rental); err != nil {
			// The rental is already stored.
			logger.ErrorContext(ctx, "Failed to publish rental created event",
				applog.FieldComponent, applog.ComponentAMQP,
				applog.FieldRentalID, rental.ID,
				applog.FieldError, err)
		}
	}

	return rental, nil
}

// Dashboard runs one query per figure for day. The cash total covers all dates.
func (s *RentalService) Dashboard(ctx context.Context, day civil.Date) (core.Dashboard, error) {
	d := core.Dashboard{Date: day}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rentals, err := s.store.ListByDay(gctx, day)
		if err != nil {
			return fmt.Errorf("list day rentals: %w", err)
		}
		d.Rentals = rentals
		return nil
	})
	g.Go(func() error {
		total, err := s.store.SumByDay(gctx, day)
		if err != nil {
			return fmt.Errorf("sum day: %w", err)
		}
		d.DayTotal = total
		return nil
	})
	g.Go(func() error {
		total, err := s.store.SumByMethod(gctx, s.cashLabel)
		if err != nil {
			return fmt.Errorf("sum cash: %w", err)
		}
		d.CashTotal = total
		return nil
	})
	g.Go(func() error {
		total, err := s.store.SumByMonth(gctx, day.Year, int(day.Month))
		if err != nil {
			return fmt.Errorf("sum month: %w", err)
		}
		d.MonthTotal = total
		return nil
	})
	g.Go(func() error {
		byMethod, err := s.store.MethodTotalsByDay(gctx, day)
		if err != nil {
			return fmt.Errorf("method totals: %w", err)
		}
		d.ByMethod = byMethod
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Dashboard{}, fmt.Errorf("build dashboard for %s: %w", day, err)
	}
	return d, nil
}

// FilterRange returns the rentals dated within [start, end] and their sum.
// The raw strings are echoed back in the report.
func (s *RentalService) FilterRange(ctx context.Context, start, end string) (core.RangeReport, error) {
	from, err := core.ParseDate(start)
	if err != nil {
		return core.RangeReport{}, fmt.Errorf("start date %q: %w", start, err)
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return core.RangeReport{}, fmt.Errorf("end date %q: %w", end, err)
	}

	report := core.RangeReport{Start: start, End: end}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rentals, err := s.store.ListByRange(gctx, from, to)
		if err != nil {
			return fmt.Errorf("list range: %w", err)
		}
		report.Rentals = rentals
		return nil
	})
	g.Go(func() error {
		total, err := s.store.SumByRange(gctx, from, to)
		if err != nil {
			return fmt.Errorf("sum range: %w", err)
		}
		report.Total = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.RangeReport{}, err
	}
	return report, nil
}

// Ping runs a cheap aggregate to check the store is reachable.
func (s *RentalService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := s.store.SumByDay(ctx, s.today())
	return err
}

// Close closes the store and publisher when they hold resources.
func (s *RentalService) Close() error {
	var errs []error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close rental service: %w", errors.Join(errs...))
	}
	return nil
}
