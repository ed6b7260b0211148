package memstore

import (
	"context"
	"sort"

	"library-rental/internal/domain/stock"
	"library-rental/internal/infra"
	"library-rental/internal/usecase/queries"
	"library-rental/internal/usecase/shared"
)

type StockStore struct {
	store *Store
}

func NewStockStore(store *Store) *StockStore {
	return &StockStore{store: store}
}

func (r *StockStore) FindAvailable(_ context.Context) ([]*shared.StockSnapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*shared.StockSnapshot, 0, len(s.stocks))
	for _, st := range s.stocks {
		if stock.Status(st.Status) != stock.StatusAvailable {
			continue
		}
		snap := st
		snap.Occupied = s.occupiedLocked(st.ID)
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StockStore) FindByID(_ context.Context, id string) (*shared.StockSnapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stocks[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "stock not found", nil)
	}
	st.Occupied = s.occupiedLocked(id)
	return &st, nil
}

type AccountStore struct {
	store *Store
}

func NewAccountStore(store *Store) *AccountStore {
	return &AccountStore{store: store}
}

func (r *AccountStore) FindAll(_ context.Context) ([]*shared.AccountSnapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*shared.AccountSnapshot, 0, len(s.accounts))
	for _, a := range s.accounts {
		snap := a
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *AccountStore) FindByEmployeeID(_ context.Context, employeeID string) (*shared.AccountSnapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[employeeID]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "account not found", nil)
	}
	return &a, nil
}

type RentalReadStore struct {
	store *Store
}

func NewRentalReadStore(store *Store) *RentalReadStore {
	return &RentalReadStore{store: store}
}

func (r *RentalReadStore) List(_ context.Context) ([]*queries.RentalView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := sortedRentals(s.rentals)
	views := make([]*queries.RentalView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.viewLocked(rec))
	}
	return views, nil
}

func (r *RentalReadStore) FindByID(_ context.Context, id int64) (*queries.RentalView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rentals[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "rental not found", nil)
	}
	return s.viewLocked(rec), nil
}

func (s *Store) viewLocked(rec rentalRecord) *queries.RentalView {
	return &queries.RentalView{
		ID:               rec.id,
		EmployeeID:       rec.employeeID,
		AccountName:      s.accounts[rec.employeeID].Name,
		StockID:          rec.stockID,
		BookTitle:        s.stocks[rec.stockID].BookTitle,
		ExpectedRentalOn: rec.period.RentalOn(),
		ExpectedReturnOn: rec.period.ReturnOn(),
		Status:           rec.status.String(),
		CreatedAt:        rec.createdAt,
		UpdatedAt:        rec.updatedAt,
	}
}
