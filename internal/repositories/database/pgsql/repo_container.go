package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	transferRepo := newPgxTransferRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
		UserRepo:     userRepo,
	}
}
