//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/domain/stock"
	"library-rental/internal/infra/memstore"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/commands"
	"library-rental/internal/usecase/shared"
	"library-rental/tests/common/builder"

	"github.com/stretchr/testify/suite"
)

type RentalCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.MockClock
	store *memstore.Store
	uow   shared.UnitOfWork
	cmds  commands.RentalCommands
}

func (s *RentalCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewMockClock(time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC))
	s.store = memstore.New(s.clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.store.Seed()
	s.uow = memstore.NewUnitOfWork(s.store)
	s.cmds = s.newCommands(s.uow)
}

func (s *RentalCommandsTestSuite) newCommands(uow shared.UnitOfWork) commands.RentalCommands {
	return commands.NewRentalCommands(uow, memstore.NewStockStore(s.store), memstore.NewAccountStore(s.store), s.clock)
}

func TestRentalCommandsSuite(t *testing.T) {
	suite.Run(t, new(RentalCommandsTestSuite))
}

func jan(day int) time.Time {
	return builder.Date(2025, time.January, day)
}

func (s *RentalCommandsTestSuite) create(from, to int) *commands.RentalResult {
	s.T().Helper()
	req := builder.NewRentalBuilder().WithPeriod(jan(from), jan(to)).BuildCreateCommand()
	result, err := s.cmds.Create(s.ctx, req)
	s.Require().NoError(err)
	return result
}

func (s *RentalCommandsTestSuite) update(id int64, from, to int, status rental.Status) (*commands.RentalResult, error) {
	req := builder.NewRentalBuilder().WithPeriod(jan(from), jan(to)).WithStatus(status).BuildUpdateCommand()
	return s.cmds.Update(s.ctx, id, req)
}

func (s *RentalCommandsTestSuite) requireViolations(err error, fields ...string) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(errs.Is(err, commands.ErrValidationFailed), "expected validation failure, got %v", err)

	var verr *rental.ValidationError
	s.Require().True(errs.As(err, &verr), "expected *rental.ValidationError, got %T", err)

	got := verr.Violations.Fields()
	sort.Strings(got)
	sort.Strings(fields)
	s.Equal(fields, got)
}

// ================================================================================
// Create
// ================================================================================

func (s *RentalCommandsTestSuite) TestCreate() {
	s.Run("success: new rentals start reserved", func() {
		result := s.create(10, 20)
		s.Equal(int64(1), result.RentalID)
		s.Equal(rental.StatusReserved, result.Status)
	})

	s.Run("error: overlapping period is reported on both dates", func() {
		req := builder.NewRentalBuilder().WithPeriod(jan(15), jan(25)).BuildCreateCommand()
		_, err := s.cmds.Create(s.ctx, req)
		s.requireViolations(err, rental.FieldExpectedRentalOn, rental.FieldExpectedReturnOn)
	})

	s.Run("success: starting on the return day is allowed", func() {
		s.create(20, 25)
	})

	s.Run("success: same-day rental on a boundary day", func() {
		req := builder.NewRentalBuilder().WithPeriod(jan(10), jan(10)).BuildCreateCommand()
		_, err := s.cmds.Create(s.ctx, req)
		s.NoError(err)
	})

	s.Run("error: same-day rental inside a period", func() {
		req := builder.NewRentalBuilder().WithPeriod(jan(12), jan(12)).BuildCreateCommand()
		_, err := s.cmds.Create(s.ctx, req)
		s.requireViolations(err, rental.FieldExpectedRentalOn, rental.FieldExpectedReturnOn)
	})

	s.Run("success: other stocks are independent", func() {
		req := builder.NewRentalBuilder().WithStockID("S0002").WithPeriod(jan(10), jan(20)).BuildCreateCommand()
		_, err := s.cmds.Create(s.ctx, req)
		s.NoError(err)
	})
}

func (s *RentalCommandsTestSuite) TestCreate_Validation() {
	testCases := []struct {
		name   string
		mutate func(*builder.RentalBuilder)
		fields []string
	}{
		{
			name:   "return before rental",
			mutate: func(b *builder.RentalBuilder) { b.WithPeriod(jan(20), jan(10)) },
			fields: []string{rental.FieldExpectedReturnOn},
		},
		{
			name:   "unknown employee",
			mutate: func(b *builder.RentalBuilder) { b.WithEmployeeID("E9999") },
			fields: []string{rental.FieldEmployeeID},
		},
		{
			name:   "unknown stock",
			mutate: func(b *builder.RentalBuilder) { b.WithStockID("S9999") },
			fields: []string{rental.FieldStockID},
		},
		{
			name:   "withdrawn stock",
			mutate: func(b *builder.RentalBuilder) { b.WithStockID("S0004") },
			fields: []string{rental.FieldStockID},
		},
		{
			name: "violations are aggregated",
			mutate: func(b *builder.RentalBuilder) {
				b.WithEmployeeID("E9999").WithStockID("S9999").WithPeriod(jan(20), jan(10))
			},
			fields: []string{rental.FieldEmployeeID, rental.FieldStockID, rental.FieldExpectedReturnOn},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := builder.NewRentalBuilder().With(tc.mutate).BuildCreateCommand()
			_, err := s.cmds.Create(s.ctx, req)
			s.requireViolations(err, tc.fields...)
		})
	}
}

func (s *RentalCommandsTestSuite) TestCreate_ConcurrentSamePeriod() {
	const workers = 16
	req := builder.NewRentalBuilder().WithPeriod(jan(10), jan(20)).BuildCreateCommand()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.cmds.Create(s.ctx, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, commands.ErrValidationFailed):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(workers-1, conflicts)
}

// staleFinderUoW hides existing rentals from the overlap check so the store constraint is hit.
type staleFinderUoW struct {
	inner shared.UnitOfWork
}

func (u staleFinderUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, staleTx{tx})
	})
}

type staleTx struct{ shared.Tx }

func (t staleTx) Rentals() shared.RentalRepository { return staleRepo{t.Tx.Rentals()} }

type staleRepo struct{ shared.RentalRepository }

func (staleRepo) FindActiveByStock(context.Context, string, *int64) ([]*rental.Rental, error) {
	return nil, nil
}

func (s *RentalCommandsTestSuite) TestCreate_StoreConflictMapsToOverlap() {
	s.create(10, 20)

	cmds := s.newCommands(staleFinderUoW{inner: s.uow})
	req := builder.NewRentalBuilder().WithPeriod(jan(12), jan(14)).BuildCreateCommand()
	_, err := cmds.Create(s.ctx, req)

	s.requireViolations(err, rental.FieldExpectedRentalOn, rental.FieldExpectedReturnOn)
}

// ================================================================================
// Update
// ================================================================================

func (s *RentalCommandsTestSuite) TestUpdate_Lifecycle() {
	id := s.create(10, 20).RentalID

	result, err := s.update(id, 10, 20, rental.StatusRenting)
	s.Require().NoError(err)
	s.Equal(rental.StatusRenting, result.Status)

	result, err = s.update(id, 10, 20, rental.StatusReturned)
	s.Require().NoError(err)
	s.Equal(rental.StatusReturned, result.Status)

	_, err = s.update(id, 10, 20, rental.StatusRenting)
	s.requireViolations(err, rental.FieldStatus)
}

func (s *RentalCommandsTestSuite) TestUpdate_Transitions() {
	s.Run("error: reserved cannot jump to returned", func() {
		id := s.create(1, 2).RentalID
		_, err := s.update(id, 1, 2, rental.StatusReturned)
		s.requireViolations(err, rental.FieldStatus)
	})

	s.Run("error: renting cannot be canceled", func() {
		id := s.create(3, 4).RentalID
		_, err := s.update(id, 3, 4, rental.StatusRenting)
		s.Require().NoError(err)
		_, err = s.update(id, 3, 4, rental.StatusCanceled)
		s.requireViolations(err, rental.FieldStatus)
	})

	s.Run("success: reserved can be canceled", func() {
		id := s.create(5, 6).RentalID
		result, err := s.update(id, 5, 6, rental.StatusCanceled)
		s.Require().NoError(err)
		s.Equal(rental.StatusCanceled, result.Status)
	})
}

func (s *RentalCommandsTestSuite) TestUpdate_Overlap() {
	first := s.create(10, 20).RentalID
	second := s.create(21, 25).RentalID

	s.Run("success: a rental does not conflict with itself", func() {
		_, err := s.update(first, 12, 18, rental.StatusReserved)
		s.NoError(err)
	})

	s.Run("error: moving onto another active rental", func() {
		_, err := s.update(second, 15, 25, rental.StatusReserved)
		s.requireViolations(err, rental.FieldExpectedRentalOn, rental.FieldExpectedReturnOn)
	})

	s.Run("success: canceling skips the overlap check", func() {
		_, err := s.update(second, 15, 25, rental.StatusCanceled)
		s.NoError(err)
	})

	s.Run("success: a canceled rental frees its dates", func() {
		s.create(22, 24)
	})
}

func (s *RentalCommandsTestSuite) TestUpdate_AggregatesViolations() {
	s.create(10, 20)
	id := s.create(21, 25).RentalID
	_, err := s.update(id, 21, 25, rental.StatusRenting)
	s.Require().NoError(err)

	_, err = s.update(id, 15, 25, rental.StatusReserved)
	s.requireViolations(err, rental.FieldStatus, rental.FieldExpectedRentalOn, rental.FieldExpectedReturnOn)
}

func (s *RentalCommandsTestSuite) TestUpdate_StockLendability() {
	s.store.PutStock(shared.StockSnapshot{ID: "S0005", BookTitle: "Go in Action", Status: int16(stock.StatusAvailable)})
	req := builder.NewRentalBuilder().WithStockID("S0005").WithPeriod(jan(10), jan(20)).BuildCreateCommand()
	created, err := s.cmds.Create(s.ctx, req)
	s.Require().NoError(err)

	s.store.PutStock(shared.StockSnapshot{ID: "S0005", BookTitle: "Go in Action", Status: int16(stock.StatusUnavailable)})

	s.Run("success: a rental on a withdrawn copy can still progress", func() {
		upd := builder.NewRentalBuilder().WithStockID("S0005").WithPeriod(jan(10), jan(20)).
			WithStatus(rental.StatusRenting).BuildUpdateCommand()
		_, err := s.cmds.Update(s.ctx, created.RentalID, upd)
		s.NoError(err)
	})

	s.Run("error: moving to a withdrawn copy", func() {
		other := s.create(1, 3).RentalID
		upd := builder.NewRentalBuilder().WithStockID("S0005").WithPeriod(jan(1), jan(3)).BuildUpdateCommand()
		_, err := s.cmds.Update(s.ctx, other, upd)
		s.requireViolations(err, rental.FieldStockID)
	})
}

// pausedWriteUoW blocks every rental write until release is closed.
type pausedWriteUoW struct {
	inner   shared.UnitOfWork
	writing chan struct{}
	release chan struct{}
}

func (u pausedWriteUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, pausedTx{Tx: tx, uow: u})
	})
}

type pausedTx struct {
	shared.Tx
	uow pausedWriteUoW
}

func (t pausedTx) Rentals() shared.RentalRepository {
	return pausedRepo{RentalRepository: t.Tx.Rentals(), uow: t.uow}
}

type pausedRepo struct {
	shared.RentalRepository
	uow pausedWriteUoW
}

func (r pausedRepo) Update(ctx context.Context, id int64, changes shared.RentalChanges) (*rental.Rental, error) {
	close(r.uow.writing)
	<-r.uow.release
	return r.RentalRepository.Update(ctx, id, changes)
}

func (s *RentalCommandsTestSuite) TestUpdate_ConcurrentEditsSeeLatestStatus() {
	id := s.create(10, 20).RentalID
	_, err := s.update(id, 10, 20, rental.StatusRenting)
	s.Require().NoError(err)

	paused := pausedWriteUoW{inner: s.uow, writing: make(chan struct{}), release: make(chan struct{})}
	returnDone := make(chan error, 1)
	go func() {
		req := builder.NewRentalBuilder().WithPeriod(jan(10), jan(20)).WithStatus(rental.StatusReturned).BuildUpdateCommand()
		_, err := s.newCommands(paused).Update(s.ctx, id, req)
		returnDone <- err
	}()
	<-paused.writing

	reopenDone := make(chan error, 1)
	go func() {
		req := builder.NewRentalBuilder().WithStockID("S0002").WithPeriod(jan(10), jan(20)).
			WithStatus(rental.StatusRenting).BuildUpdateCommand()
		_, err := s.cmds.Update(s.ctx, id, req)
		reopenDone <- err
	}()

	select {
	case err := <-reopenDone:
		s.FailNow("second edit finished while the first still held the rental", "err=%v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(paused.release)
	s.Require().NoError(<-returnDone)
	s.requireViolations(<-reopenDone, rental.FieldStatus)

	view, err := memstore.NewRentalReadStore(s.store).FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("returned", view.Status)
	s.Equal("S0001", view.StockID)
}

func (s *RentalCommandsTestSuite) TestUpdate_NotFound() {
	_, err := s.update(404, 10, 20, rental.StatusReserved)
	s.Require().Error(err)
	s.True(errs.Is(err, commands.ErrRentalNotFound))
}

func (s *RentalCommandsTestSuite) TestUpdate_UpdatesTimestamp() {
	id := s.create(10, 20).RentalID
	s.clock.Add(2 * time.Hour)

	_, err := s.update(id, 11, 20, rental.StatusRenting)
	s.Require().NoError(err)

	view, err := memstore.NewRentalReadStore(s.store).FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(jan(11), view.ExpectedRentalOn)
	s.Equal("renting", view.Status)
	s.True(view.UpdatedAt.After(view.CreatedAt))
}
