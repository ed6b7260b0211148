package commands

import (
	"context"
	"time"

	"library-rental/internal/domain/account"
	"library-rental/internal/domain/rental"
	"library-rental/internal/domain/stock"
	"library-rental/internal/infra"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/shared"
)

var (
	ErrRentalNotFound          = errs.ErrRentalNotFound
	ErrValidationFailed        = errs.ErrValidationFailed
	ErrDatabaseOperationFailed = errs.ErrDatabaseOperationFailed
)

const (
	msgAccountNotFound  = "no account exists for this employee id"
	msgStockNotFound    = "no stock exists for this id"
	msgStockNotLendable = "this stock is not available for lending"
)

type CreateRentalRequest struct {
	EmployeeID       string
	StockID          string
	ExpectedRentalOn time.Time
	ExpectedReturnOn time.Time
}

type UpdateRentalRequest struct {
	EmployeeID       string
	StockID          string
	ExpectedRentalOn time.Time
	ExpectedReturnOn time.Time
	Status           rental.Status
}

type RentalResult struct {
	RentalID int64
	Status   rental.Status
}

type RentalCommands interface {
	Create(ctx context.Context, req CreateRentalRequest) (*RentalResult, error)
	Update(ctx context.Context, id int64, req UpdateRentalRequest) (*RentalResult, error)
}

type rentalUseCaseImpl struct {
	uow      shared.UnitOfWork
	stocks   shared.StockStore
	accounts shared.AccountStore
	clock    clock.Clock
}

func NewRentalCommands(
	uow shared.UnitOfWork,
	stocks shared.StockStore,
	accounts shared.AccountStore,
	clk clock.Clock,
) RentalCommands {
	return &rentalUseCaseImpl{
		uow:      uow,
		stocks:   stocks,
		accounts: accounts,
		clock:    clk,
	}
}

func (uc *rentalUseCaseImpl) Create(ctx context.Context, req CreateRentalRequest) (*RentalResult, error) {
	var violations rental.Violations

	period, periodErr := rental.NewPeriod(req.ExpectedRentalOn, req.ExpectedReturnOn)
	if periodErr != nil {
		violations.Add(rental.FieldExpectedReturnOn, periodErr.Error())
	}
	refViolations, err := uc.checkReferences(ctx, req.EmployeeID, req.StockID, true)
	if err != nil {
		return nil, err
	}
	violations = append(violations, refViolations...)
	if violations.HasErrors() {
		return nil, violations.Err()
	}

	entity, err := rental.NewRental(rental.Candidate{
		EmployeeID: req.EmployeeID,
		StockID:    req.StockID,
		Period:     period,
	}, uc.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidationFailed)
	}

	var saved *rental.Rental
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Rentals()
		if lerr := repo.LockStock(ctx, entity.StockID()); lerr != nil {
			return errs.Mark(lerr, ErrDatabaseOperationFailed)
		}

		result, cerr := rental.NewAvailabilityChecker(repo).CheckOverlap(ctx, entity.Period(), entity.StockID(), nil)
		if cerr != nil {
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		if result.Conflict {
			return result.Violations().Err()
		}

		var serr error
		saved, serr = repo.Save(ctx, entity)
		if serr != nil {
			return mapWriteError(serr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RentalResult{RentalID: saved.ID(), Status: saved.Status()}, nil
}

func (uc *rentalUseCaseImpl) Update(ctx context.Context, id int64, req UpdateRentalRequest) (*RentalResult, error) {
	var updated *rental.Rental
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Rentals()
		// The row is locked before the stock so the transition is validated against the latest status.
		current, ferr := repo.FindByIDForUpdate(ctx, id)
		if ferr != nil {
			if infra.IsKind(ferr, infra.KindNotFound) {
				return ErrRentalNotFound
			}
			return errs.Mark(ferr, ErrDatabaseOperationFailed)
		}
		if lerr := repo.LockStock(ctx, req.StockID); lerr != nil {
			return errs.Mark(lerr, ErrDatabaseOperationFailed)
		}

		var violations rental.Violations
		violations = append(violations, rental.ValidateStatusTransition(current.Status(), req.Status).Violations()...)

		period, periodErr := rental.NewPeriod(req.ExpectedRentalOn, req.ExpectedReturnOn)
		if periodErr != nil {
			violations.Add(rental.FieldExpectedReturnOn, periodErr.Error())
		}

		stockChanged := current.StockID() != req.StockID
		refViolations, rerr := uc.checkReferences(ctx, req.EmployeeID, req.StockID, stockChanged)
		if rerr != nil {
			return rerr
		}
		violations = append(violations, refViolations...)

		// Returned and canceled rentals release the stock, so only active targets are checked.
		if periodErr == nil && req.Status.IsActive() {
			result, cerr := rental.NewAvailabilityChecker(repo).CheckOverlap(ctx, period, req.StockID, &id)
			if cerr != nil {
				return errs.Mark(cerr, ErrDatabaseOperationFailed)
			}
			violations = append(violations, result.Violations()...)
		}

		if violations.HasErrors() {
			return violations.Err()
		}

		status := req.Status
		if aerr := current.Apply(rental.Candidate{
			EmployeeID: req.EmployeeID,
			StockID:    req.StockID,
			Period:     period,
			Status:     &status,
		}, uc.clock.Now()); aerr != nil {
			return errs.Mark(aerr, ErrValidationFailed)
		}

		var uerr error
		updated, uerr = repo.Update(ctx, id, shared.ChangesFrom(current))
		if uerr != nil {
			if infra.IsKind(uerr, infra.KindNotFound) {
				return ErrRentalNotFound
			}
			return mapWriteError(uerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RentalResult{RentalID: updated.ID(), Status: updated.Status()}, nil
}

// checkReferences resolves the borrower and the stock. Lendability is only enforced when
// the stock is newly assigned, so an existing rental on a withdrawn copy can still be closed.
func (uc *rentalUseCaseImpl) checkReferences(
	ctx context.Context,
	employeeID, stockID string,
	requireLendable bool,
) (rental.Violations, error) {
	var violations rental.Violations

	accountRow, err := uc.accounts.FindByEmployeeID(ctx, employeeID)
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		violations.Add(rental.FieldEmployeeID, msgAccountNotFound)
	case err != nil:
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	default:
		if _, aerr := account.NewAccount(accountRow.EmployeeID, accountRow.Name, accountRow.Email); aerr != nil {
			violations.Add(rental.FieldEmployeeID, aerr.Error())
		}
	}

	stockRow, err := uc.stocks.FindByID(ctx, stockID)
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		violations.Add(rental.FieldStockID, msgStockNotFound)
	case err != nil:
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	default:
		s, serr := stock.NewStock(stockRow.ID, stockRow.BookTitle, stock.Status(stockRow.Status), stockRow.Occupied)
		if serr != nil {
			violations.Add(rental.FieldStockID, serr.Error())
		} else if requireLendable && !s.IsLendable() {
			violations.Add(rental.FieldStockID, msgStockNotLendable)
		}
	}

	return violations, nil
}

// mapWriteError turns a storage-level exclusion violation into the same outcome as the
// application-level overlap check.
func mapWriteError(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return rental.OverlapResult{
			Conflict: true,
			Message:  rental.MsgUnavailableForPeriod,
		}.Violations().Err()
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
