package response

import (
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type RentalResponse struct {
	ID               int64     `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	AccountName      string    `json:"accountName"`
	StockID          string    `json:"stockId"`
	BookTitle        string    `json:"bookTitle"`
	ExpectedRentalOn string    `json:"expectedRentalOn"`
	ExpectedReturnOn string    `json:"expectedReturnOn"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type AccountOption struct {
	EmployeeID  string `json:"employeeId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type StockOption struct {
	ID        string `json:"id"`
	BookTitle string `json:"bookTitle"`
	Occupied  bool   `json:"occupied"`
}

type StatusOption struct {
	Code int16  `json:"code"`
	Name string `json:"name"`
}

type FormOptionsResponse struct {
	Accounts []AccountOption `json:"accounts"`
	Stocks   []StockOption   `json:"stocks"`
	Statuses []StatusOption  `json:"statuses"`
}

type RentalEditResponse struct {
	Rental          RentalResponse      `json:"rental"`
	AllowedStatuses []string            `json:"allowedStatuses"`
	Options         FormOptionsResponse `json:"options"`
}

// Dates leave the API as YYYY-MM-DD; timestamps keep their RFC 3339 form.
var copyOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(time.Time).Format(rental.DateLayout), nil
			},
		},
	},
}

func FromRentalView(view *queries.RentalView) (*RentalResponse, error) {
	var resp RentalResponse
	if err := copier.CopyWithOption(&resp, view, copyOption); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromRentalViews(views []*queries.RentalView) ([]RentalResponse, error) {
	resp := make([]RentalResponse, 0, len(views))
	for _, v := range views {
		r, err := FromRentalView(v)
		if err != nil {
			return nil, err
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

func FromFormOptions(options *queries.FormOptions) (*FormOptionsResponse, error) {
	resp := FormOptionsResponse{
		Accounts: []AccountOption{},
		Stocks:   []StockOption{},
		Statuses: []StatusOption{},
	}
	if err := copier.CopyWithOption(&resp, options, copyOption); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromRentalEditView(view *queries.RentalEditView) (*RentalEditResponse, error) {
	rentalResp, err := FromRentalView(view.Rental)
	if err != nil {
		return nil, err
	}
	optionsResp, err := FromFormOptions(view.Options)
	if err != nil {
		return nil, err
	}
	return &RentalEditResponse{
		Rental:          *rentalResp,
		AllowedStatuses: view.AllowedStatuses,
		Options:         *optionsResp,
	}, nil
}
