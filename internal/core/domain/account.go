package domain

// ControlRole identifies one of the reserved control accounts that every
// address carries. Calculators resolve roles once per address instead of
// comparing raw account numbers.
type ControlRole string

const (
	RoleVATControl      ControlRole = "VAT_CONTROL"
	RoleDebtorControl   ControlRole = "DEBTOR_CONTROL"
	RoleCreditorControl ControlRole = "CREDITOR_CONTROL"
	RoleSuspense        ControlRole = "SUSPENSE"
)

// Reserved account numbers. These are fixed across all organizations and are
// seeded with every address's chart of accounts.
const (
	VATControlAccountNumber      int64 = 2200
	DebtorControlAccountNumber   int64 = 1100
	CreditorControlAccountNumber int64 = 2100
	SuspenseAccountNumber        int64 = 9999
)

// ControlAccounts is the per-address resolution of control roles to concrete
// account numbers.
type ControlAccounts map[ControlRole]int64

// DefaultControlAccounts returns the reserved role set every address starts with.
func DefaultControlAccounts() ControlAccounts {
	return ControlAccounts{
		RoleVATControl:      VATControlAccountNumber,
		RoleDebtorControl:   DebtorControlAccountNumber,
		RoleCreditorControl: CreditorControlAccountNumber,
		RoleSuspense:        SuspenseAccountNumber,
	}
}

// Number resolves a role; the role set is closed so missing entries indicate
// a programming error, reported as the zero account number.
func (c ControlAccounts) Number(role ControlRole) int64 {
	return c[role]
}

// IsControlNumber reports whether number is one of the reserved accounts.
func (c ControlAccounts) IsControlNumber(number int64) bool {
	for _, n := range c {
		if n == number {
			return true
		}
	}
	return false
}

// GlobalAccount defines an account at the organization level: its number,
// description and which trade directions it may be used in.
type GlobalAccount struct {
	AccountNumber         int64  `json:"accountNumber"` // Primary Key within org
	OrganizationID        string `json:"organizationID"`
	Description           string `json:"description"`
	ValidSalesAccount     bool   `json:"validSalesAccount"`
	ValidPurchasesAccount bool   `json:"validPurchasesAccount"`
	AuditFields
}

// AddressAccount binds a GlobalAccount to one address (tenant), fixing its
// currency and an optional description override.
type AddressAccount struct {
	AddressAccountID string `json:"addressAccountID"` // Primary Key (UUID)
	AddressID        string `json:"addressID"`        // FK -> addresses
	AccountNumber    int64  `json:"accountNumber"`    // FK -> global_accounts
	CurrencyCode     string `json:"currencyCode"`
	Description      string `json:"description"`
	IsActive         bool   `json:"isActive"`
	Global           *GlobalAccount `json:"global,omitempty"` // Populated on lookup
	AuditFields
}

// UsableFor reports whether the account may carry a goods line for the given
// transaction type. The VAT control account is exempt from the direction
// flags since every transaction posts tax through it.
func (a AddressAccount) UsableFor(t TxnType, controls ControlAccounts) bool {
	if a.AccountNumber == controls.Number(RoleVATControl) {
		return true
	}
	if a.Global == nil {
		return false
	}
	if t.IsSale() {
		return a.Global.ValidSalesAccount
	}
	if t.IsPurchase() {
		return a.Global.ValidPurchasesAccount
	}
	return true
}
