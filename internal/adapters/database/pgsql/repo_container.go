package pgsql

import (
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		OperatorRepo: newPgxOperatorRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
	}
}
