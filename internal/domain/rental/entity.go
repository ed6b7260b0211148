package rental

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyEmployeeID = errors.New("employee id cannot be empty")
	ErrEmptyStockID    = errors.New("stock id cannot be empty")
)

type Rental struct {
	id         int64
	employeeID string
	stockID    string
	period     Period
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

// Candidate is a not-yet-persisted rental request. Status is nil on registration.
type Candidate struct {
	EmployeeID string
	StockID    string
	Period     Period
	Status     *Status
}

// NewRental always starts at InitialStatus; transitions are only validated on edit.
func NewRental(c Candidate, now time.Time) (*Rental, error) {
	employeeID := strings.TrimSpace(c.EmployeeID)
	if employeeID == "" {
		return nil, ErrEmptyEmployeeID
	}
	stockID := strings.TrimSpace(c.StockID)
	if stockID == "" {
		return nil, ErrEmptyStockID
	}

	return &Rental{
		employeeID: employeeID,
		stockID:    stockID,
		period:     c.Period,
		status:     InitialStatus,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructRental(
	id int64,
	employeeID, stockID string,
	period Period,
	status Status,
	createdAt, updatedAt time.Time,
) *Rental {
	return &Rental{
		id:         id,
		employeeID: employeeID,
		stockID:    stockID,
		period:     period,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Apply overwrites the editable fields. Callers validate the transition first.
func (r *Rental) Apply(c Candidate, now time.Time) error {
	employeeID := strings.TrimSpace(c.EmployeeID)
	if employeeID == "" {
		return ErrEmptyEmployeeID
	}
	stockID := strings.TrimSpace(c.StockID)
	if stockID == "" {
		return ErrEmptyStockID
	}

	r.employeeID = employeeID
	r.stockID = stockID
	r.period = c.Period
	if c.Status != nil {
		r.status = *c.Status
	}
	r.updatedAt = now
	return nil
}

func (r *Rental) AssignID(id int64) {
	r.id = id
}

func (r *Rental) IsActive() bool {
	return r.status.IsActive()
}

func (r *Rental) ID() int64            { return r.id }
func (r *Rental) EmployeeID() string   { return r.employeeID }
func (r *Rental) StockID() string      { return r.stockID }
func (r *Rental) Period() Period       { return r.period }
func (r *Rental) Status() Status       { return r.status }
func (r *Rental) CreatedAt() time.Time { return r.createdAt }
func (r *Rental) UpdatedAt() time.Time { return r.updatedAt }
