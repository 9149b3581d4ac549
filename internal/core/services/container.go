package services

import (
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories and external
// clients.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	directory portsclients.DirectoryClient,
	reporting portsclients.ReportingClient,
	notifier portsclients.Notifier,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Transaction: NewTransactionService(repos.Transaction, repos.Account, repos.TaxRate, directory, reporting, notifier),
		Allocation:  NewAllocationService(repos.Allocation, repos.Transaction),
		Checkpoint:  NewCheckpointService(repos.Checkpoint, directory),
		Account:     NewAccountService(repos.Account, directory),
		TaxRate:     NewTaxRateService(repos.TaxRate, directory),
		APIToken:    NewAPITokenService(repos.APIToken),
	}
}
