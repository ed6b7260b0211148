package request

import (
	"reflect"
	"strings"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/usecase/commands"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type CreateRentalRequest struct {
	EmployeeID       string `json:"employeeId" binding:"required,max=32"`
	StockID          string `json:"stockId" binding:"required,max=32"`
	ExpectedRentalOn string `json:"expectedRentalOn" binding:"required,datetime=2006-01-02"`
	ExpectedReturnOn string `json:"expectedReturnOn" binding:"required,datetime=2006-01-02"`
}

type UpdateRentalRequest struct {
	EmployeeID       string `json:"employeeId" binding:"required,max=32"`
	StockID          string `json:"stockId" binding:"required,max=32"`
	ExpectedRentalOn string `json:"expectedRentalOn" binding:"required,datetime=2006-01-02"`
	ExpectedReturnOn string `json:"expectedReturnOn" binding:"required,datetime=2006-01-02"`
	Status           string `json:"status" binding:"required,rentalstatus"`
}

func (r CreateRentalRequest) ToCommand() (commands.CreateRentalRequest, error) {
	rentalOn, returnOn, err := parseDates(r.ExpectedRentalOn, r.ExpectedReturnOn)
	if err != nil {
		return commands.CreateRentalRequest{}, err
	}
	return commands.CreateRentalRequest{
		EmployeeID:       strings.TrimSpace(r.EmployeeID),
		StockID:          strings.TrimSpace(r.StockID),
		ExpectedRentalOn: rentalOn,
		ExpectedReturnOn: returnOn,
	}, nil
}

func (r UpdateRentalRequest) ToCommand() (commands.UpdateRentalRequest, error) {
	rentalOn, returnOn, err := parseDates(r.ExpectedRentalOn, r.ExpectedReturnOn)
	if err != nil {
		return commands.UpdateRentalRequest{}, err
	}
	status, err := rental.ParseStatus(r.Status)
	if err != nil {
		return commands.UpdateRentalRequest{}, err
	}
	return commands.UpdateRentalRequest{
		EmployeeID:       strings.TrimSpace(r.EmployeeID),
		StockID:          strings.TrimSpace(r.StockID),
		ExpectedRentalOn: rentalOn,
		ExpectedReturnOn: returnOn,
		Status:           status,
	}, nil
}

func parseDates(rentalOn, returnOn string) (time.Time, time.Time, error) {
	start, err := time.Parse(rental.DateLayout, rentalOn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(rental.DateLayout, returnOn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// RegisterValidators adds the rental rules to gin's validator and reports fields by json name.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v.RegisterValidation("rentalstatus", func(fl validator.FieldLevel) bool {
		_, err := rental.ParseStatus(fl.Field().String())
		return err == nil
	})
}
