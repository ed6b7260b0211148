package shared

import (
	"context"

	"library-rental/internal/domain/rental"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rentals() RentalRepository
}

type RentalRepository interface {
	rental.ActiveRentalFinder

	// LockStock serializes check-and-commit for one stock until the unit of work ends.
	LockStock(ctx context.Context, stockID string) error
	FindByID(ctx context.Context, id int64) (*rental.Rental, error)
	// FindByIDForUpdate reads the rental and holds it against concurrent edits until the unit of work ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*rental.Rental, error)
	Save(ctx context.Context, r *rental.Rental) (*rental.Rental, error)
	Update(ctx context.Context, id int64, changes RentalChanges) (*rental.Rental, error)
}

type StockStore interface {
	FindAvailable(ctx context.Context) ([]*StockSnapshot, error)
	FindByID(ctx context.Context, id string) (*StockSnapshot, error)
}

type AccountStore interface {
	FindAll(ctx context.Context) ([]*AccountSnapshot, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*AccountSnapshot, error)
}
