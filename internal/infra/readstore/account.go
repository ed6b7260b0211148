package readstore

import (
	"context"
	"log/slog"

	"library-rental/internal/infra"
	"library-rental/internal/infra/db"
	"library-rental/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
)

type AccountReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAccountReadStore(dbtx db.DBTX, logger *slog.Logger) *AccountReadStore {
	return &AccountReadStore{
		db:     dbtx,
		logger: logger,
	}
}

var accountColumns = []any{"employee_id", "name", "email"}

func (r *AccountReadStore) FindAll(ctx context.Context) ([]*shared.AccountSnapshot, error) {
	query, args, err := dialect.From("accounts").
		Select(accountColumns...).
		Order(goqu.C("employee_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build account query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list accounts", err)
	}
	defer rows.Close()

	snapshots := make([]*shared.AccountSnapshot, 0)
	for rows.Next() {
		var a shared.AccountSnapshot
		if err := rows.Scan(&a.EmployeeID, &a.Name, &a.Email); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan account", err)
		}
		snapshots = append(snapshots, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to iterate accounts", err)
	}

	return snapshots, nil
}

func (r *AccountReadStore) FindByEmployeeID(ctx context.Context, employeeID string) (*shared.AccountSnapshot, error) {
	query, args, err := dialect.From("accounts").
		Select(accountColumns...).
		Where(goqu.C("employee_id").Eq(employeeID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build account query", err)
	}

	var a shared.AccountSnapshot
	if err := r.db.QueryRow(ctx, query, args...).Scan(&a.EmployeeID, &a.Name, &a.Email); err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find account", err)
	}
	return &a, nil
}
