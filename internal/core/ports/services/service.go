package services

// ServiceContainer bundles every service facade the handler layer needs.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Allocation  AllocationSvcFacade
	Checkpoint  CheckpointSvcFacade
	Account     AccountSvcFacade
	TaxRate     TaxRateSvcFacade
	APIToken    APITokenSvcFacade
}
