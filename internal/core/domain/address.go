package domain

// Address is a tenant: one bookkeeping entity with its own chart of address
// accounts, tax rates, transactions and checkpoints. Master data (country,
// subdivision, display fields) is owned by the external directory service;
// only the fields the ledger core needs are held here.
type Address struct {
	AddressID      string `json:"addressID"` // Primary Key (UUID)
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"` // Statement recipient, may be empty
	CurrencyCode   string `json:"currencyCode"`    // Base currency of the tenant
	IsActive       bool   `json:"isActive"`
	AuditFields
}
