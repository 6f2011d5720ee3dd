package memory

import (
	"context"
	"sort"
	"sync"

	"alugueis/internal/core"

	"cloud.google.com/go/civil"
)

// Store keeps rentals in process memory. Used for local runs and tests.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Rental
}

func New() *Store {
	return &Store{nextID: 1}
}

// Insert assigns the next ID and appends the rental.
func (s *Store) Insert(_ context.Context, r core.Rental) (core.Rental, error) {
	if err := r.Validate(); err != nil {
		return core.Rental{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.items = append(s.items, r)
	return r, nil
}

func (s *Store) ListByDay(_ context.Context, day civil.Date) ([]core.Rental, error) {
	out := s.filter(func(r core.Rental) bool { return r.Date == day })
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListByRange(_ context.Context, start, end civil.Date) ([]core.Rental, error) {
	out := s.filter(inRange(start, end))
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) SumByDay(_ context.Context, day civil.Date) (float64, error) {
	return sum(s.filter(func(r core.Rental) bool { return r.Date == day })), nil
}

func (s *Store) SumByMonth(_ context.Context, year int, month int) (float64, error) {
	return sum(s.filter(func(r core.Rental) bool {
		return r.Date.Year == year && int(r.Date.Month) == month
	})), nil
}

func (s *Store) SumByMethod(_ context.Context, method string) (float64, error) {
	return sum(s.filter(func(r core.Rental) bool { return r.PaymentMethod == method })), nil
}

func (s *Store) SumByRange(_ context.Context, start, end civil.Date) (float64, error) {
	return sum(s.filter(inRange(start, end))), nil
}

// MethodTotalsByDay groups the day's rentals by payment method, sorted by name.
func (s *Store) MethodTotalsByDay(_ context.Context, day civil.Date) ([]core.MethodTotal, error) {
	byMethod := map[string]*core.MethodTotal{}
	for _, r := range s.filter(func(r core.Rental) bool { return r.Date == day }) {
		mt, ok := byMethod[r.PaymentMethod]
		if !ok {
			mt = &core.MethodTotal{Method: r.PaymentMethod}
			byMethod[r.PaymentMethod] = mt
		}
		mt.Count++
		mt.Total += r.Amount
	}
	out := make([]core.MethodTotal, 0, len(byMethod))
	for _, mt := range byMethod {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}

// Len returns the number of stored rentals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) filter(keep func(core.Rental) bool) []core.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Rental, 0, len(s.items))
	for _, r := range s.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func inRange(start, end civil.Date) func(core.Rental) bool {
	return func(r core.Rental) bool {
		return !r.Date.Before(start) && !r.Date.After(end)
	}
}

func sum(rs []core.Rental) float64 {
	var total float64
	for _, r := range rs {
		total += r.Amount
	}
	return total
}
