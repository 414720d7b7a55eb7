package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service container.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryWithTx
	OwnershipRepo   OwnershipReader
	ReportingRepo   ReportingRepository
}
