package pgsql

import (
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repository implementations.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		OwnershipRepo:   newPgxOwnershipRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
