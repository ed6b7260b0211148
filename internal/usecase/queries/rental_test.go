//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"library-rental/internal/domain/rental"
	"library-rental/internal/infra"
	"library-rental/internal/infra/memstore"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/queries"
	"library-rental/internal/usecase/shared"
	"library-rental/tests/common/builder"
	queriesmock "library-rental/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RentalQueriesTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockCtrl *gomock.Controller
	rentals  *queriesmock.MockRentalReadStore
	store    *memstore.Store
	q        queries.RentalQueries
}

func (s *RentalQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.rentals = queriesmock.NewMockRentalReadStore(s.mockCtrl)

	clk := clock.NewMockClock(time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC))
	s.store = memstore.New(clk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.store.Seed()

	s.q = queries.NewRentalQueries(s.rentals, memstore.NewStockStore(s.store), memstore.NewAccountStore(s.store))
}

func (s *RentalQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRentalQueriesSuite(t *testing.T) {
	suite.Run(t, new(RentalQueriesTestSuite))
}

func (s *RentalQueriesTestSuite) TestList() {
	s.Run("success: returns the store rows as is", func() {
		views := []*queries.RentalView{
			builder.NewRentalBuilder().WithID(2).BuildView(),
			builder.NewRentalBuilder().WithID(1).BuildView(),
		}
		s.rentals.EXPECT().List(gomock.Any()).Return(views, nil).Times(1)

		got, err := s.q.List(s.ctx)
		s.Require().NoError(err)
		s.Equal(views, got)
	})

	s.Run("error: store failure is marked as query failure", func() {
		s.rentals.EXPECT().List(gomock.Any()).Return(nil, errs.New("connection reset")).Times(1)

		_, err := s.q.List(s.ctx)
		s.True(errs.Is(err, queries.ErrRentalQueryFailed))
	})
}

func (s *RentalQueriesTestSuite) TestGetByID() {
	s.Run("error: missing row maps to not found", func() {
		notFound := infra.RepositoryError{Kind: infra.KindNotFound}
		s.rentals.EXPECT().FindByID(gomock.Any(), int64(404)).Return(nil, notFound).Times(1)

		_, err := s.q.GetByID(s.ctx, 404)
		s.True(errs.Is(err, queries.ErrRentalNotFound))
	})

	s.Run("error: other failures are query failures", func() {
		s.rentals.EXPECT().FindByID(gomock.Any(), int64(1)).Return(nil, errs.New("timeout")).Times(1)

		_, err := s.q.GetByID(s.ctx, 1)
		s.True(errs.Is(err, queries.ErrRentalQueryFailed))
		s.False(errs.Is(err, queries.ErrRentalNotFound))
	})
}

func (s *RentalQueriesTestSuite) TestGetForEdit() {
	testCases := []struct {
		status  rental.Status
		allowed []string
	}{
		{status: rental.StatusReserved, allowed: []string{"reserved", "renting", "canceled"}},
		{status: rental.StatusRenting, allowed: []string{"renting", "returned"}},
		{status: rental.StatusReturned, allowed: []string{"returned"}},
		{status: rental.StatusCanceled, allowed: []string{"canceled"}},
	}

	for _, tc := range testCases {
		s.Run(tc.status.String(), func() {
			view := builder.NewRentalBuilder().WithStatus(tc.status).BuildView()
			s.rentals.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

			got, err := s.q.GetForEdit(s.ctx, view.ID)
			s.Require().NoError(err)
			s.Same(view, got.Rental)
			if diff := cmp.Diff(tc.allowed, got.AllowedStatuses); diff != "" {
				s.Failf("allowed statuses mismatch", "(-want +got):\n%s", diff)
			}
			s.NotNil(got.Options)
		})
	}

	s.Run("error: not found skips the option lookup", func() {
		s.rentals.EXPECT().FindByID(gomock.Any(), int64(9)).
			Return(nil, infra.RepositoryError{Kind: infra.KindNotFound}).Times(1)

		got, err := s.q.GetForEdit(s.ctx, 9)
		s.Nil(got)
		s.True(errs.Is(err, queries.ErrRentalNotFound))
	})
}

func (s *RentalQueriesTestSuite) TestFormOptions() {
	s.store.PutAccount(shared.AccountSnapshot{EmployeeID: "E0004"})

	got, err := s.q.FormOptions(s.ctx)
	s.Require().NoError(err)

	wantAccounts := []*queries.AccountView{
		{EmployeeID: "E0001", Name: "Hanako Sato", DisplayName: "Hanako Sato (E0001)"},
		{EmployeeID: "E0002", Name: "Taro Suzuki", DisplayName: "Taro Suzuki (E0002)"},
		{EmployeeID: "E0003", Name: "Yuki Tanaka", DisplayName: "Yuki Tanaka (E0003)"},
		{EmployeeID: "E0004", Name: "", DisplayName: "E0004"},
	}
	if diff := cmp.Diff(wantAccounts, got.Accounts); diff != "" {
		s.Failf("accounts mismatch", "(-want +got):\n%s", diff)
	}

	// S0004 is withdrawn and never offered.
	wantStocks := []*queries.StockView{
		{ID: "S0001", BookTitle: "The Go Programming Language"},
		{ID: "S0002", BookTitle: "Concurrency in Go"},
		{ID: "S0003", BookTitle: "Designing Data-Intensive Applications"},
	}
	if diff := cmp.Diff(wantStocks, got.Stocks); diff != "" {
		s.Failf("stocks mismatch", "(-want +got):\n%s", diff)
	}

	wantStatuses := []queries.StatusOption{
		{Code: 0, Name: "reserved"},
		{Code: 1, Name: "renting"},
		{Code: 2, Name: "returned"},
		{Code: 3, Name: "canceled"},
	}
	if diff := cmp.Diff(wantStatuses, got.Statuses); diff != "" {
		s.Failf("statuses mismatch", "(-want +got):\n%s", diff)
	}
}
