package repositories

// RepositoryProvider bundles every repository facade the service layer needs.
type RepositoryProvider struct {
	Transaction TransactionRepositoryFacade
	Allocation  AllocationRepositoryFacade
	Checkpoint  CheckpointRepositoryFacade
	Account     AccountRepositoryFacade
	TaxRate     TaxRateRepositoryFacade
	APIToken    APITokenRepositoryFacade
}
