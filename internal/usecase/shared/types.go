package shared

import (
	"time"

	"library-rental/internal/domain/rental"
)

type StockSnapshot struct {
	ID        string
	BookTitle string
	Status    int16
	Occupied  bool
}

type AccountSnapshot struct {
	EmployeeID string
	Name       string
	Email      string
}

// RentalChanges carries the editable columns of a rental row.
type RentalChanges struct {
	EmployeeID string
	StockID    string
	Period     rental.Period
	Status     rental.Status
	UpdatedAt  time.Time
}

func ChangesFrom(r *rental.Rental) RentalChanges {
	return RentalChanges{
		EmployeeID: r.EmployeeID(),
		StockID:    r.StockID(),
		Period:     r.Period(),
		Status:     r.Status(),
		UpdatedAt:  r.UpdatedAt(),
	}
}
