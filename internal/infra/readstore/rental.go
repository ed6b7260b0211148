package readstore

import (
	"context"
	"log/slog"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/infra"
	"library-rental/internal/infra/db"
	"library-rental/internal/pkg/pgconv"
	"library-rental/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/jackc/pgx/v5/pgtype"
)

var dialect = goqu.Dialect("postgres")

type RentalReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewRentalReadStore(dbtx db.DBTX, logger *slog.Logger) *RentalReadStore {
	return &RentalReadStore{
		db:     dbtx,
		logger: logger,
	}
}

func rentalViewQuery() *goqu.SelectDataset {
	return dialect.From(goqu.T("rentals").As("r")).
		Select(
			goqu.I("r.id"),
			goqu.I("r.employee_id"),
			goqu.COALESCE(goqu.I("a.name"), "").As("account_name"),
			goqu.I("r.stock_id"),
			goqu.COALESCE(goqu.I("s.book_title"), "").As("book_title"),
			goqu.I("r.expected_rental_on"),
			goqu.I("r.expected_return_on"),
			goqu.I("r.status"),
			goqu.I("r.created_at"),
			goqu.I("r.updated_at"),
		).
		LeftJoin(goqu.T("accounts").As("a"), goqu.On(goqu.I("a.employee_id").Eq(goqu.I("r.employee_id")))).
		LeftJoin(goqu.T("stocks").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("r.stock_id"))))
}

// List returns every rental, newest first.
func (r *RentalReadStore) List(ctx context.Context) ([]*queries.RentalView, error) {
	query, args, err := rentalViewQuery().
		Order(goqu.I("r.created_at").Desc(), goqu.I("r.id").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build rental list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list rentals", err)
	}
	defer rows.Close()

	views := make([]*queries.RentalView, 0)
	for rows.Next() {
		view, err := scanRentalView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan rental view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to iterate rentals", err)
	}

	return views, nil
}

func (r *RentalReadStore) FindByID(ctx context.Context, id int64) (*queries.RentalView, error) {
	query, args, err := rentalViewQuery().
		Where(goqu.I("r.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build rental query", err)
	}

	view, err := scanRentalView(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find rental view", err)
	}
	return view, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRentalView(row rowScanner) (*queries.RentalView, error) {
	var (
		view               queries.RentalView
		rentalOn, returnOn pgtype.Date
		status             int16
		createdAt          time.Time
		updatedAt          time.Time
	)
	if err := row.Scan(
		&view.ID,
		&view.EmployeeID,
		&view.AccountName,
		&view.StockID,
		&view.BookTitle,
		&rentalOn,
		&returnOn,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	st, err := rental.StatusFromCode(status)
	if err != nil {
		return nil, err
	}

	view.ExpectedRentalOn = pgconv.DateFromPgtype(rentalOn)
	view.ExpectedReturnOn = pgconv.DateFromPgtype(returnOn)
	view.Status = st.String()
	view.CreatedAt = createdAt
	view.UpdatedAt = updatedAt
	return &view, nil
}
