package account

import (
	"errors"
	"strings"
)

var ErrEmptyEmployeeID = errors.New("employee id cannot be empty")

type Account struct {
	employeeID string
	name       string
	email      string
}

func NewAccount(employeeID, name, email string) (*Account, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrEmptyEmployeeID
	}
	return &Account{
		employeeID: employeeID,
		name:       strings.TrimSpace(name),
		email:      strings.TrimSpace(email),
	}, nil
}

func (a *Account) DisplayName() string {
	if a.name == "" {
		return a.employeeID
	}
	return a.name + " (" + a.employeeID + ")"
}

func (a *Account) EmployeeID() string { return a.employeeID }
func (a *Account) Name() string       { return a.name }
func (a *Account) Email() string      { return a.email }
