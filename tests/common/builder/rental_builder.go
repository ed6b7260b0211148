//go:build unit || e2e

package builder

import (
	"time"

	"library-rental/internal/domain/rental"
	reqdto "library-rental/internal/handler/dto/request"
	"library-rental/internal/usecase/commands"
	"library-rental/internal/usecase/queries"
)

// Date returns the calendar day at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type RentalBuilder struct {
	ID          int64
	EmployeeID  string
	AccountName string
	StockID     string
	BookTitle   string
	RentalOn    time.Time
	ReturnOn    time.Time
	Status      rental.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewRentalBuilder() *RentalBuilder {
	now := time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)
	return &RentalBuilder{
		ID:          1,
		EmployeeID:  "E0001",
		AccountName: "Hanako Sato",
		StockID:     "S0001",
		BookTitle:   "The Go Programming Language",
		RentalOn:    Date(2025, time.January, 10),
		ReturnOn:    Date(2025, time.January, 20),
		Status:      rental.StatusReserved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *RentalBuilder) With(mutate func(*RentalBuilder)) *RentalBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *RentalBuilder) BuildPeriod() rental.Period {
	p, err := rental.NewPeriod(b.RentalOn, b.ReturnOn)
	if err != nil {
		panic(err)
	}
	return p
}

// BuildDomain reconstructs a persisted rental; use BuildCandidate for new ones.
func (b *RentalBuilder) BuildDomain() *rental.Rental {
	return rental.ReconstructRental(b.ID, b.EmployeeID, b.StockID, b.BuildPeriod(), b.Status, b.CreatedAt, b.UpdatedAt)
}

func (b *RentalBuilder) BuildCandidate() rental.Candidate {
	return rental.Candidate{
		EmployeeID: b.EmployeeID,
		StockID:    b.StockID,
		Period:     b.BuildPeriod(),
	}
}

func (b *RentalBuilder) BuildCreateCommand() commands.CreateRentalRequest {
	return commands.CreateRentalRequest{
		EmployeeID:       b.EmployeeID,
		StockID:          b.StockID,
		ExpectedRentalOn: b.RentalOn,
		ExpectedReturnOn: b.ReturnOn,
	}
}

func (b *RentalBuilder) BuildUpdateCommand() commands.UpdateRentalRequest {
	return commands.UpdateRentalRequest{
		EmployeeID:       b.EmployeeID,
		StockID:          b.StockID,
		ExpectedRentalOn: b.RentalOn,
		ExpectedReturnOn: b.ReturnOn,
		Status:           b.Status,
	}
}

func (b *RentalBuilder) BuildCreateRequestDTO() reqdto.CreateRentalRequest {
	return reqdto.CreateRentalRequest{
		EmployeeID:       b.EmployeeID,
		StockID:          b.StockID,
		ExpectedRentalOn: b.RentalOn.Format(rental.DateLayout),
		ExpectedReturnOn: b.ReturnOn.Format(rental.DateLayout),
	}
}

func (b *RentalBuilder) BuildUpdateRequestDTO() reqdto.UpdateRentalRequest {
	return reqdto.UpdateRentalRequest{
		EmployeeID:       b.EmployeeID,
		StockID:          b.StockID,
		ExpectedRentalOn: b.RentalOn.Format(rental.DateLayout),
		ExpectedReturnOn: b.ReturnOn.Format(rental.DateLayout),
		Status:           b.Status.String(),
	}
}

func (b *RentalBuilder) BuildView() *queries.RentalView {
	return &queries.RentalView{
		ID:               b.ID,
		EmployeeID:       b.EmployeeID,
		AccountName:      b.AccountName,
		StockID:          b.StockID,
		BookTitle:        b.BookTitle,
		ExpectedRentalOn: b.RentalOn,
		ExpectedReturnOn: b.ReturnOn,
		Status:           b.Status.String(),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// Fluent builder methods
func (b *RentalBuilder) WithID(id int64) *RentalBuilder {
	b.ID = id
	return b
}

func (b *RentalBuilder) WithEmployeeID(employeeID string) *RentalBuilder {
	b.EmployeeID = employeeID
	return b
}

func (b *RentalBuilder) WithStockID(stockID string) *RentalBuilder {
	b.StockID = stockID
	return b
}

func (b *RentalBuilder) WithPeriod(rentalOn, returnOn time.Time) *RentalBuilder {
	b.RentalOn = rentalOn
	b.ReturnOn = returnOn
	return b
}

func (b *RentalBuilder) WithStatus(status rental.Status) *RentalBuilder {
	b.Status = status
	return b
}
