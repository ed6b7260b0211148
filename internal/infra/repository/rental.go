package repository

import (
	"context"
	"log/slog"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/infra"
	"library-rental/internal/infra/db"
	"library-rental/internal/pkg/pgconv"
	"library-rental/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgtype"
)

const rentalsTable = "rentals"

var (
	dialect = goqu.Dialect("postgres")

	rentalColumns = []any{
		"id", "employee_id", "stock_id",
		"expected_rental_on", "expected_return_on",
		"status", "created_at", "updated_at",
	}
)

type RentalRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewRentalRepository(dbtx db.DBTX, logger *slog.Logger) *RentalRepository {
	return &RentalRepository{
		db:     dbtx,
		logger: logger,
	}
}

// LockStock takes a transaction-scoped advisory lock; it is released on commit or rollback.
func (r *RentalRepository) LockStock(ctx context.Context, stockID string) error {
	if _, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", stockID); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock stock", err)
	}
	return nil
}

func (r *RentalRepository) FindActiveByStock(ctx context.Context, stockID string, excludeID *int64) ([]*rental.Rental, error) {
	where := []goqu.Expression{
		goqu.C("stock_id").Eq(stockID),
		goqu.C("status").In(rental.ActiveStatusCodes()),
	}
	if excludeID != nil {
		where = append(where, goqu.C("id").Neq(*excludeID))
	}

	query, args, err := dialect.From(rentalsTable).
		Select(rentalColumns...).
		Where(where...).
		Order(goqu.C("expected_rental_on").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build active rentals query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find active rentals", err)
	}
	defer rows.Close()

	var out []*rental.Rental
	for rows.Next() {
		entity, err := scanRental(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan rental", err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to iterate active rentals", err)
	}

	return out, nil
}

func (r *RentalRepository) FindByID(ctx context.Context, id int64) (*rental.Rental, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate takes a row lock that is held until the transaction ends.
func (r *RentalRepository) FindByIDForUpdate(ctx context.Context, id int64) (*rental.Rental, error) {
	return r.findByID(ctx, id, true)
}

func (r *RentalRepository) findByID(ctx context.Context, id int64, forUpdate bool) (*rental.Rental, error) {
	ds := dialect.From(rentalsTable).
		Select(rentalColumns...).
		Where(goqu.C("id").Eq(id))
	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build rental query", err)
	}

	entity, err := scanRental(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find rental by ID", err)
	}
	return entity, nil
}

func (r *RentalRepository) Save(ctx context.Context, entity *rental.Rental) (*rental.Rental, error) {
	query, args, err := dialect.Insert(rentalsTable).
		Rows(goqu.Record{
			"employee_id":        entity.EmployeeID(),
			"stock_id":           entity.StockID(),
			"expected_rental_on": pgconv.DateToPgtype(entity.Period().RentalOn()),
			"expected_return_on": pgconv.DateToPgtype(entity.Period().ReturnOn()),
			"status":             entity.Status().Code(),
			"created_at":         pgconv.TimeToPgtype(entity.CreatedAt()),
			"updated_at":         pgconv.TimeToPgtype(entity.UpdatedAt()),
		}).
		Returning(rentalColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build rental insert", err)
	}

	saved, err := scanRental(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to create rental", err)
	}
	return saved, nil
}

func (r *RentalRepository) Update(ctx context.Context, id int64, changes shared.RentalChanges) (*rental.Rental, error) {
	query, args, err := dialect.Update(rentalsTable).
		Set(goqu.Record{
			"employee_id":        changes.EmployeeID,
			"stock_id":           changes.StockID,
			"expected_rental_on": pgconv.DateToPgtype(changes.Period.RentalOn()),
			"expected_return_on": pgconv.DateToPgtype(changes.Period.ReturnOn()),
			"status":             changes.Status.Code(),
			"updated_at":         pgconv.TimeToPgtype(changes.UpdatedAt),
		}).
		Where(goqu.C("id").Eq(id)).
		Returning(rentalColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build rental update", err)
	}

	updated, err := scanRental(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to update rental", err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*rental.Rental, error) {
	var (
		id                   int64
		employeeID, stockID  string
		rentalOn, returnOn   pgtype.Date
		status               int16
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &employeeID, &stockID, &rentalOn, &returnOn, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	period, err := rental.NewPeriod(pgconv.DateFromPgtype(rentalOn), pgconv.DateFromPgtype(returnOn))
	if err != nil {
		return nil, err
	}
	st, err := rental.StatusFromCode(status)
	if err != nil {
		return nil, err
	}

	return rental.ReconstructRental(id, employeeID, stockID, period, st, createdAt, updatedAt), nil
}
