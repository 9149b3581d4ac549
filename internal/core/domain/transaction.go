package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger header: a business event recorded by one address
// against an optional counterparty. Its monetary content lives in the two
// line-entry collections; debits and credits are stored structurally apart.
type Transaction struct {
	TransactionID    string    `json:"transactionID"` // Primary Key (UUID)
	AddressID        string    `json:"addressID"`     // Owning tenant
	OtherAddressID   *string   `json:"otherAddressID,omitempty"`
	TxnType          TxnType   `json:"txnType"`
	TSN              int64     `json:"tsn"` // Per address+type sequence number
	TransactionDate  time.Time `json:"transactionDate"`
	Narrative        string    `json:"narrative"`
	ReportTemplateID *string   `json:"reportTemplateID,omitempty"`

	// Unallocated is the outstanding balance in base currency, 4dp. Positive
	// means owed to the tenant, negative owed by it. Maintained as a stored
	// running total, decremented transactionally with each allocation.
	Unallocated decimal.Decimal `json:"unallocated"`

	// ContraTransactionID points at the counterparty transaction created as
	// this one's mirror. Set at most once, never cleared.
	ContraTransactionID *string `json:"contraTransactionID,omitempty"`

	// CheckpointID references the period end that closed this transaction.
	CheckpointID *string `json:"checkpointID,omitempty"`

	IsDeleted bool `json:"isDeleted"` // Soft mark; transactions are never hard-deleted

	Debits  []LineEntry `json:"debits,omitempty"`
	Credits []LineEntry `json:"credits,omitempty"`
	AuditFields
}

// LineEntry is one debit or credit row of a transaction. Whether it is a
// debit or a credit is determined by which collection it lives in.
type LineEntry struct {
	LineEntryID   string          `json:"lineEntryID"` // Primary Key (UUID)
	TransactionID string          `json:"transactionID"`
	AccountNumber int64           `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`    // Base currency, 2dp
	UnitPrice     decimal.Decimal `json:"unitPrice"` // Up to 8dp
	Quantity      decimal.Decimal `json:"quantity"`  // Up to 8dp
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	TaxPercent    decimal.Decimal `json:"taxPercent"` // Snapshot at creation
	Description   string          `json:"description"`
	PartNumber    string          `json:"partNumber,omitempty"`
	AuditFields
}

// DebitTotal sums the debit side.
func (t *Transaction) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Debits {
		total = total.Add(e.Amount)
	}
	return total
}

// CreditTotal sums the credit side.
func (t *Transaction) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Credits {
		total = total.Add(e.Amount)
	}
	return total
}

// Balanced reports whether debits equal credits to the cent. Every persisted
// transaction must satisfy this.
func (t *Transaction) Balanced() bool {
	return t.DebitTotal().Equal(t.CreditTotal())
}

// HasContra reports whether this transaction has already been mirrored.
func (t *Transaction) HasContra() bool {
	return t.ContraTransactionID != nil
}

// Closed reports whether a checkpoint has locked this transaction.
func (t *Transaction) Closed() bool {
	return t.CheckpointID != nil
}

// Lines returns the entries on the given side.
func (t *Transaction) Lines(side EntrySide) []LineEntry {
	if side == DebitSide {
		return t.Debits
	}
	return t.Credits
}

// GoodsLines returns the priced lines of the transaction: the entries on the
// line side minus the synthetic VAT entry. These are the lines a contra
// submission has to match.
func (t *Transaction) GoodsLines(controls ControlAccounts) []LineEntry {
	vatNumber := controls.Number(RoleVATControl)
	side := t.TxnType.LineSide()
	lines := make([]LineEntry, 0, len(t.Lines(side)))
	for _, e := range t.Lines(side) {
		if e.AccountNumber == vatNumber {
			continue
		}
		lines = append(lines, e)
	}
	return lines
}
