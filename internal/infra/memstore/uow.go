package memstore

import (
	"context"
	"strconv"

	"library-rental/internal/domain/rental"
	"library-rental/internal/infra"
	"library-rental/internal/usecase/shared"
)

type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) shared.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Within releases every stock and rental lock taken by fn once fn returns.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	t := &memTx{store: u.store, held: make(map[string]func())}
	defer t.releaseAll()
	return fn(ctx, t)
}

type memTx struct {
	store *Store
	held  map[string]func()
}

func (t *memTx) Rentals() shared.RentalRepository {
	return &rentalRepository{tx: t}
}

func (t *memTx) releaseAll() {
	for _, unlock := range t.held {
		unlock()
	}
}

type rentalRepository struct {
	tx *memTx
}

func (r *rentalRepository) LockStock(ctx context.Context, stockID string) error {
	return r.tx.lock(ctx, "stock:"+stockID, "failed to lock stock")
}

func (t *memTx) lock(ctx context.Context, key, msg string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	unlock, err := t.store.locks.Lock(ctx, key)
	if err != nil {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, msg, err)
	}
	t.held[key] = unlock
	return nil
}

func (r *rentalRepository) FindActiveByStock(_ context.Context, stockID string, excludeID *int64) ([]*rental.Rental, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*rental.Rental
	for _, rec := range s.rentals {
		if rec.stockID != stockID || !rec.status.IsActive() {
			continue
		}
		if excludeID != nil && rec.id == *excludeID {
			continue
		}
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *rentalRepository) FindByID(_ context.Context, id int64) (*rental.Rental, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rentals[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "rental not found", nil)
	}
	return rec.toDomain(), nil
}

// FindByIDForUpdate holds a per-rental lock until the unit of work ends.
func (r *rentalRepository) FindByIDForUpdate(ctx context.Context, id int64) (*rental.Rental, error) {
	if err := r.tx.lock(ctx, "rental:"+strconv.FormatInt(id, 10), "failed to lock rental"); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *rentalRepository) Save(_ context.Context, entity *rental.Rental) (*rental.Rental, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferencesLocked(entity.EmployeeID(), entity.StockID()); err != nil {
		return nil, err
	}

	rec := rentalRecord{
		id:         s.nextID + 1,
		employeeID: entity.EmployeeID(),
		stockID:    entity.StockID(),
		period:     entity.Period(),
		status:     entity.Status(),
		createdAt:  entity.CreatedAt(),
		updatedAt:  entity.UpdatedAt(),
	}
	if s.conflictLocked(rec) {
		return nil, infra.WrapRepoErr(s.logger, infra.KindConflict, "rental overlaps an active rental", nil)
	}

	s.nextID = rec.id
	s.rentals[rec.id] = rec
	return rec.toDomain(), nil
}

func (r *rentalRepository) Update(_ context.Context, id int64, changes shared.RentalChanges) (*rental.Rental, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rentals[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "rental not found", nil)
	}
	if err := s.checkReferencesLocked(changes.EmployeeID, changes.StockID); err != nil {
		return nil, err
	}

	rec.employeeID = changes.EmployeeID
	rec.stockID = changes.StockID
	rec.period = changes.Period
	rec.status = changes.Status
	rec.updatedAt = changes.UpdatedAt
	if s.conflictLocked(rec) {
		return nil, infra.WrapRepoErr(s.logger, infra.KindConflict, "rental overlaps an active rental", nil)
	}

	s.rentals[id] = rec
	return rec.toDomain(), nil
}

// checkReferencesLocked mirrors the foreign keys of the rentals table. Callers hold mu.
func (s *Store) checkReferencesLocked(employeeID, stockID string) error {
	if _, ok := s.accounts[employeeID]; !ok {
		return infra.WrapRepoErr(s.logger, infra.KindForeignKeyViolated, "unknown employee id", nil)
	}
	if _, ok := s.stocks[stockID]; !ok {
		return infra.WrapRepoErr(s.logger, infra.KindForeignKeyViolated, "unknown stock id", nil)
	}
	return nil
}
