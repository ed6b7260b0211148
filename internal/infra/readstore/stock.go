package readstore

import (
	"context"
	"log/slog"

	"library-rental/internal/domain/rental"
	"library-rental/internal/domain/stock"
	"library-rental/internal/infra"
	"library-rental/internal/infra/db"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/pgconv"
	"library-rental/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
)

type StockReadStore struct {
	db     db.DBTX
	clock  clock.Clock
	logger *slog.Logger
}

func NewStockReadStore(dbtx db.DBTX, clk clock.Clock, logger *slog.Logger) *StockReadStore {
	return &StockReadStore{
		db:     dbtx,
		clock:  clk,
		logger: logger,
	}
}

// stockQuery flags a stock as occupied while an active rental covers today, as seen by the clock.
func (r *StockReadStore) stockQuery() *goqu.SelectDataset {
	today := pgconv.DateToPgtype(rental.DateOf(r.clock.Now()))
	occupied := dialect.From(goqu.T("rentals").As("r")).
		Select(goqu.L("1")).
		Where(
			goqu.I("r.stock_id").Eq(goqu.I("s.id")),
			goqu.I("r.status").In(rental.ActiveStatusCodes()),
			goqu.I("r.expected_rental_on").Lte(today),
			goqu.I("r.expected_return_on").Gte(today),
		)

	return dialect.From(goqu.T("stocks").As("s")).
		Select(
			goqu.I("s.id"),
			goqu.I("s.book_title"),
			goqu.I("s.status"),
			goqu.L("EXISTS ?", occupied).As("occupied"),
		)
}

// FindAvailable lists lendable stocks ordered by id.
func (r *StockReadStore) FindAvailable(ctx context.Context) ([]*shared.StockSnapshot, error) {
	query, args, err := r.stockQuery().
		Where(goqu.I("s.status").Eq(int16(stock.StatusAvailable))).
		Order(goqu.I("s.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build stock query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find available stocks", err)
	}
	defer rows.Close()

	snapshots := make([]*shared.StockSnapshot, 0)
	for rows.Next() {
		var s shared.StockSnapshot
		if err := rows.Scan(&s.ID, &s.BookTitle, &s.Status, &s.Occupied); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan stock", err)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to iterate stocks", err)
	}

	return snapshots, nil
}

func (r *StockReadStore) FindByID(ctx context.Context, id string) (*shared.StockSnapshot, error) {
	query, args, err := r.stockQuery().
		Where(goqu.I("s.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build stock query", err)
	}

	var s shared.StockSnapshot
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.BookTitle, &s.Status, &s.Occupied); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find stock by ID", err)
	}
	return &s, nil
}
