package queries

import (
	"time"
)

// RentalView represents read-optimized rental data joined with borrower and book
type RentalView struct {
	ID               int64     `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	AccountName      string    `json:"account_name"`
	StockID          string    `json:"stock_id"`
	BookTitle        string    `json:"book_title"`
	ExpectedRentalOn time.Time `json:"expected_rental_on"`
	ExpectedReturnOn time.Time `json:"expected_return_on"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RentalEditView is the edit screen payload
type RentalEditView struct {
	Rental          *RentalView  `json:"rental"`
	AllowedStatuses []string     `json:"allowed_statuses"`
	Options         *FormOptions `json:"options"`
}

type StockView struct {
	ID        string `json:"id"`
	BookTitle string `json:"book_title"`
	Occupied  bool   `json:"occupied"`
}

type AccountView struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type StatusOption struct {
	Code int16  `json:"code"`
	Name string `json:"name"`
}

// FormOptions carries the select lists of the add and edit screens
type FormOptions struct {
	Accounts []*AccountView `json:"accounts"`
	Stocks   []*StockView   `json:"stocks"`
	Statuses []StatusOption `json:"statuses"`
}
