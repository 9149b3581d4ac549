package dto

import (
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// CreateGlobalAccountRequest defines an account at the organization level.
type CreateGlobalAccountRequest struct {
	AccountNumber         int64  `json:"accountNumber" binding:"required"`
	Description           string `json:"description" binding:"required"`
	ValidSalesAccount     bool   `json:"validSalesAccount"`
	ValidPurchasesAccount bool   `json:"validPurchasesAccount"`
}

// CreateAddressAccountRequest binds a global account to the caller's address.
type CreateAddressAccountRequest struct {
	AccountNumber int64  `json:"accountNumber" binding:"required"`
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3"`
	Description   string `json:"description,omitempty"`
}

// UpdateAddressAccountRequest changes the binding's description.
type UpdateAddressAccountRequest struct {
	Description *string `json:"description,omitempty"`
}

// AddressAccountResponse is the API shape of an address account.
type AddressAccountResponse struct {
	AddressAccountID      string `json:"addressAccountID"`
	AddressID             string `json:"addressID"`
	AccountNumber         int64  `json:"accountNumber"`
	CurrencyCode          string `json:"currencyCode"`
	Description           string `json:"description"`
	IsActive              bool   `json:"isActive"`
	ValidSalesAccount     bool   `json:"validSalesAccount"`
	ValidPurchasesAccount bool   `json:"validPurchasesAccount"`
}

// ToAddressAccountResponse converts a domain.AddressAccount to its API shape.
func ToAddressAccountResponse(a *domain.AddressAccount) AddressAccountResponse {
	resp := AddressAccountResponse{
		AddressAccountID: a.AddressAccountID,
		AddressID:        a.AddressID,
		AccountNumber:    a.AccountNumber,
		CurrencyCode:     a.CurrencyCode,
		Description:      a.Description,
		IsActive:         a.IsActive,
	}
	if a.Global != nil {
		resp.ValidSalesAccount = a.Global.ValidSalesAccount
		resp.ValidPurchasesAccount = a.Global.ValidPurchasesAccount
	}
	return resp
}
