package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ssbwatch/internal/database/postgres"
	"github.com/osse101/ssbwatch/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	User       repository.User
	Ledger     repository.Ledger
	Contest    repository.Contest
	Prediction repository.Prediction
}

// InitializeRepositories creates the postgres repositories. Users and
// balances share one table, so User and Ledger are the same repository.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	users := postgres.NewUserRepository(dbPool)
	return &Repositories{
		User:       users,
		Ledger:     users,
		Contest:    postgres.NewContestRepository(dbPool),
		Prediction: postgres.NewPredictionRepository(dbPool),
	}
}
