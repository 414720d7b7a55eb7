package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Balance   BalanceSvcFacade
	Ownership OwnershipSvcFacade
	Reporting ReportingSvcFacade
}
