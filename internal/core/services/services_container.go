package services

import (
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Ownership resolution feeds the balance engine,
// which in turn gates the ledger's refund/payout validation.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ownership = NewOwnershipService(repos.OwnershipRepo)
	container.Balance = NewBalanceService(repos.TransactionRepo, container.Ownership)
	container.Ledger = NewLedgerService(repos.TransactionRepo, container.Ownership, container.Balance)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.LedgerSvcFacade    = (*ledgerService)(nil)
	_ portssvc.BalanceSvcFacade   = (*balanceService)(nil)
	_ portssvc.OwnershipSvcFacade = (*ownershipService)(nil)
	_ portssvc.ReportingSvcFacade = (*reportingService)(nil)
)
