package components

import (
	"log/slog"

	"library-rental/internal/infra/memstore"
	"library-rental/internal/infra/readstore"
	"library-rental/internal/infra/uow"
	"library-rental/internal/pkg/clock"
	"library-rental/internal/pkg/config"
	"library-rental/internal/pkg/errs"
	"library-rental/internal/usecase/queries"
	"library-rental/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var errNoPool = errs.New("postgres store selected but no database pool was provided")

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

type PersistenceParams struct {
	fx.In

	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock
	Pool   *pgxpool.Pool `optional:"true"`
}

type Stores struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	Stocks     shared.StockStore
	Accounts   shared.AccountStore
	Rentals    queries.RentalReadStore
}

// NewStores wires either PostgreSQL or the seeded in-memory store, per STORE_DRIVER.
func NewStores(p PersistenceParams) (Stores, error) {
	if p.Config.Store.Driver == config.StoreDriverMemory {
		store := memstore.New(p.Clock, p.Logger)
		store.Seed()
		p.Logger.Warn("using in-memory store; data is lost on restart")
		return Stores{
			UnitOfWork: memstore.NewUnitOfWork(store),
			Stocks:     memstore.NewStockStore(store),
			Accounts:   memstore.NewAccountStore(store),
			Rentals:    memstore.NewRentalReadStore(store),
		}, nil
	}

	if p.Pool == nil {
		return Stores{}, errNoPool
	}
	return Stores{
		UnitOfWork: uow.NewPostgresUoW(p.Pool, p.Logger, p.Config.DB.MaxTxRetries),
		Stocks:     readstore.NewStockReadStore(p.Pool, p.Clock, p.Logger),
		Accounts:   readstore.NewAccountReadStore(p.Pool, p.Logger),
		Rentals:    readstore.NewRentalReadStore(p.Pool, p.Logger),
	}, nil
}
