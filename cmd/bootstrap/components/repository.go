package components

import (
	"booking-core/internal/infra/db"
	"booking-core/internal/infra/notify"
	"booking-core/internal/infra/readstore"
	"booking-core/internal/infra/repository"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewQuerier,
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// The catalog read model feeds both sides: preview queries and the
		// commit-path recompute.
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
			fx.As(new(commands.CatalogRepository)),
		),
		fx.Annotate(
			notify.NewLogDispatcher,
			fx.As(new(commands.Dispatcher)),
		),
	),
)

func NewQuerier(pool *pgxpool.Pool) db.Querier {
	return pool
}
