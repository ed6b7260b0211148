package queries

import (
	"context"

	"library-rental/internal/domain/account"
	"library-rental/internal/domain/rental"
	"library-rental/internal/domain/stock"
	"library-rental/internal/infra"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/shared"
)

var (
	ErrRentalNotFound    = errs.ErrRentalNotFound
	ErrRentalQueryFailed = errs.New("rental query failed")
)

type RentalReadStore interface {
	List(ctx context.Context) ([]*RentalView, error)
	FindByID(ctx context.Context, id int64) (*RentalView, error)
}

type RentalQueries interface {
	List(ctx context.Context) ([]*RentalView, error)
	GetByID(ctx context.Context, id int64) (*RentalView, error)
	GetForEdit(ctx context.Context, id int64) (*RentalEditView, error)
	FormOptions(ctx context.Context) (*FormOptions, error)
}

type rentalQueriesImpl struct {
	rentals  RentalReadStore
	stocks   shared.StockStore
	accounts shared.AccountStore
}

func NewRentalQueries(rentals RentalReadStore, stocks shared.StockStore, accounts shared.AccountStore) RentalQueries {
	return &rentalQueriesImpl{
		rentals:  rentals,
		stocks:   stocks,
		accounts: accounts,
	}
}

func (q *rentalQueriesImpl) List(ctx context.Context) ([]*RentalView, error) {
	views, err := q.rentals.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrRentalQueryFailed)
	}
	return views, nil
}

func (q *rentalQueriesImpl) GetByID(ctx context.Context, id int64) (*RentalView, error) {
	view, err := q.rentals.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, errs.Mark(err, ErrRentalQueryFailed)
	}
	return view, nil
}

func (q *rentalQueriesImpl) GetForEdit(ctx context.Context, id int64) (*RentalEditView, error) {
	view, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := rental.ParseStatus(view.Status)
	if err != nil {
		return nil, errs.Mark(err, ErrRentalQueryFailed)
	}
	next := rental.NextStatuses(current)
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = s.String()
	}

	options, err := q.FormOptions(ctx)
	if err != nil {
		return nil, err
	}

	return &RentalEditView{
		Rental:          view,
		AllowedStatuses: allowed,
		Options:         options,
	}, nil
}

func (q *rentalQueriesImpl) FormOptions(ctx context.Context) (*FormOptions, error) {
	accountRows, err := q.accounts.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrRentalQueryFailed)
	}
	stockRows, err := q.stocks.FindAvailable(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrRentalQueryFailed)
	}

	accounts := make([]*AccountView, 0, len(accountRows))
	for _, row := range accountRows {
		a, err := account.NewAccount(row.EmployeeID, row.Name, row.Email)
		if err != nil {
			continue
		}
		accounts = append(accounts, &AccountView{
			EmployeeID:  a.EmployeeID(),
			Name:        a.Name(),
			DisplayName: a.DisplayName(),
		})
	}

	stocks := make([]*StockView, 0, len(stockRows))
	for _, row := range stockRows {
		s, err := stock.NewStock(row.ID, row.BookTitle, stock.Status(row.Status), row.Occupied)
		if err != nil || !s.IsLendable() {
			continue
		}
		stocks = append(stocks, &StockView{
			ID:        s.ID(),
			BookTitle: s.BookTitle(),
			Occupied:  s.Occupied(),
		})
	}

	return &FormOptions{
		Accounts: accounts,
		Stocks:   stocks,
		Statuses: statusOptions(),
	}, nil
}

func statusOptions() []StatusOption {
	all := rental.AllStatuses()
	out := make([]StatusOption, len(all))
	for i, s := range all {
		out[i] = StatusOption{Code: s.Code(), Name: s.String()}
	}
	return out
}
