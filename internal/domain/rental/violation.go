package rental

import (
	"strings"

	"library-rental/internal/pkg/errs"
)

const (
	FieldEmployeeID       = "employeeId"
	FieldStockID          = "stockId"
	FieldExpectedRentalOn = "expectedRentalOn"
	FieldExpectedReturnOn = "expectedReturnOn"
	FieldStatus           = "status"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations accumulates business rule failures for one request.
type Violations []FieldError

func (v *Violations) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v Violations) HasErrors() bool {
	return len(v) > 0
}

func (v Violations) Fields() []string {
	fields := make([]string, len(v))
	for i, fe := range v {
		fields[i] = fe.Field
	}
	return fields
}

// Err returns nil when there is nothing to report.
func (v Violations) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return errs.Mark(&ValidationError{Violations: v}, errs.ErrValidationFailed)
}

type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, fe := range e.Violations {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
