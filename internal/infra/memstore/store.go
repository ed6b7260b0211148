// Package memstore keeps rentals in process memory. It backs STORE_DRIVER=memory and the
// command tests, and guards check-and-commit with a per-stock lock instead of a range constraint.
package memstore

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/domain/stock"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/keylock"
	"library-rental/internal/usecase/shared"
)

type rentalRecord struct {
	id         int64
	employeeID string
	stockID    string
	period     rental.Period
	status     rental.Status
	createdAt  time.Time
	updatedAt  time.Time
}

func (r rentalRecord) toDomain() *rental.Rental {
	return rental.ReconstructRental(r.id, r.employeeID, r.stockID, r.period, r.status, r.createdAt, r.updatedAt)
}

type Store struct {
	mu       sync.RWMutex
	rentals  map[int64]rentalRecord
	accounts map[string]shared.AccountSnapshot
	stocks   map[string]shared.StockSnapshot
	nextID   int64

	locks  *keylock.Locker
	clock  clock.Clock
	logger *slog.Logger
}

func New(clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		rentals:  make(map[int64]rentalRecord),
		accounts: make(map[string]shared.AccountSnapshot),
		stocks:   make(map[string]shared.StockSnapshot),
		locks:    keylock.New(),
		clock:    clk,
		logger:   logger,
	}
}

func (s *Store) PutAccount(a shared.AccountSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.EmployeeID] = a
}

// PutStock stores the copy; Occupied is derived on read and ignored here.
func (s *Store) PutStock(st shared.StockSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Occupied = false
	s.stocks[st.ID] = st
}

// Seed loads the demo accounts and stocks used when running without PostgreSQL.
func (s *Store) Seed() {
	for _, a := range []shared.AccountSnapshot{
		{EmployeeID: "E0001", Name: "Hanako Sato", Email: "hanako.sato@example.com"},
		{EmployeeID: "E0002", Name: "Taro Suzuki", Email: "taro.suzuki@example.com"},
		{EmployeeID: "E0003", Name: "Yuki Tanaka", Email: "yuki.tanaka@example.com"},
	} {
		s.PutAccount(a)
	}
	for _, st := range []shared.StockSnapshot{
		{ID: "S0001", BookTitle: "The Go Programming Language", Status: int16(stock.StatusAvailable)},
		{ID: "S0002", BookTitle: "Concurrency in Go", Status: int16(stock.StatusAvailable)},
		{ID: "S0003", BookTitle: "Designing Data-Intensive Applications", Status: int16(stock.StatusAvailable)},
		{ID: "S0004", BookTitle: "Refactoring", Status: int16(stock.StatusUnavailable)},
	} {
		s.PutStock(st)
	}
}

// occupiedLocked reports whether an active rental of the stock covers today. Callers hold mu.
func (s *Store) occupiedLocked(stockID string) bool {
	today := rental.DateOf(s.clock.Now())
	for _, r := range s.rentals {
		if r.stockID == stockID && r.status.IsActive() && r.period.Contains(today) {
			return true
		}
	}
	return false
}

// conflictLocked mirrors the storage exclusion constraint. Callers hold mu.
func (s *Store) conflictLocked(rec rentalRecord) bool {
	if !rec.status.IsActive() {
		return false
	}
	for _, other := range s.rentals {
		if other.id == rec.id || other.stockID != rec.stockID || !other.status.IsActive() {
			continue
		}
		if rental.Overlaps(other.period, rec.period) {
			return true
		}
	}
	return false
}

func sortedRentals(m map[int64]rentalRecord) []rentalRecord {
	out := make([]rentalRecord, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].createdAt.Equal(out[j].createdAt) {
			return out[i].id > out[j].id
		}
		return out[i].createdAt.After(out[j].createdAt)
	})
	return out
}
