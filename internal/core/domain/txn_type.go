package domain

// TxnType is the closed set of transaction-type codes. The code determines
// the trade direction (sale vs purchase), which control account the
// transaction balances against, and on which side its goods lines are posted.
type TxnType string

const (
	SaleInvoice        TxnType = "SALE_INVOICE"
	SaleCreditNote     TxnType = "SALE_CREDIT_NOTE"
	SaleAdjustment     TxnType = "SALE_ADJUSTMENT"
	CashReceipt        TxnType = "CASH_RECEIPT"
	CashRefund         TxnType = "CASH_REFUND"
	PurchaseInvoice    TxnType = "PURCHASE_INVOICE"
	PurchaseDebitNote  TxnType = "PURCHASE_DEBIT_NOTE"
	PurchaseAdjustment TxnType = "PURCHASE_ADJUSTMENT"
	CashPayment        TxnType = "CASH_PAYMENT"
	JournalEntry       TxnType = "JOURNAL_ENTRY"
)

// EntrySide distinguishes the two line-entry collections of a transaction.
// Debit/credit is structural, not a field on the line.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// Opposite returns the other side.
func (s EntrySide) Opposite() EntrySide {
	if s == DebitSide {
		return CreditSide
	}
	return DebitSide
}

// IsSale reports whether the type belongs to the sales ledger.
func (t TxnType) IsSale() bool {
	switch t {
	case SaleInvoice, SaleCreditNote, SaleAdjustment, CashReceipt, CashRefund:
		return true
	}
	return false
}

// IsPurchase reports whether the type belongs to the purchase ledger.
func (t TxnType) IsPurchase() bool {
	switch t {
	case PurchaseInvoice, PurchaseDebitNote, PurchaseAdjustment, CashPayment:
		return true
	}
	return false
}

// IsValid reports whether t is a known transaction-type code.
func (t TxnType) IsValid() bool {
	return t.IsSale() || t.IsPurchase() || t == JournalEntry
}

// ControlRole returns the control account that receives the balancing entry:
// Debtor control for the sales ledger, Creditor control for purchases.
// JournalEntry balances against Suspense.
func (t TxnType) ControlRole() ControlRole {
	switch {
	case t.IsSale():
		return RoleDebtorControl
	case t.IsPurchase():
		return RoleCreditorControl
	default:
		return RoleSuspense
	}
}

// LineSide returns the side goods lines (and the synthetic VAT line) are
// posted on. The balancing control entry always lands on the opposite side.
func (t TxnType) LineSide() EntrySide {
	switch t {
	case SaleInvoice, SaleAdjustment, CashRefund, PurchaseDebitNote, CashPayment:
		return CreditSide
	case SaleCreditNote, CashReceipt, PurchaseInvoice, PurchaseAdjustment:
		return DebitSide
	default:
		return DebitSide
	}
}

// ControlSide is the side of the single balancing entry.
func (t TxnType) ControlSide() EntrySide {
	return t.LineSide().Opposite()
}

// InCheckpointScope reports whether line entries of this type participate in
// the debit/credit equality scan at period close. Journal entries and
// adjustments net outside that scope.
func (t TxnType) InCheckpointScope() bool {
	switch t {
	case JournalEntry, SaleAdjustment, PurchaseAdjustment:
		return false
	}
	return t.IsValid()
}

// ContraType maps a transaction type to the type the counterparty records
// when mirroring it (a sale on one side is a purchase on the other).
//
// CashRefund has no mapping: the counterparty's side of a refund belongs in
// its purchase ledger, and no purchase-ledger type records cash received from
// a supplier. A sales-ledger mirror would face the wrong control account and
// could never be allocated against the counterparty's purchase documents, so
// refunds are settled by allocation instead of mirrored.
func (t TxnType) ContraType() (TxnType, bool) {
	switch t {
	case SaleInvoice:
		return PurchaseInvoice, true
	case SaleCreditNote:
		return PurchaseDebitNote, true
	case CashReceipt:
		return CashPayment, true
	case PurchaseInvoice:
		return SaleInvoice, true
	case PurchaseDebitNote:
		return SaleCreditNote, true
	case CashPayment:
		return CashReceipt, true
	}
	return "", false
}

// SalesLedgerTypes lists every sales-ledger type code.
func SalesLedgerTypes() []TxnType {
	return []TxnType{SaleInvoice, SaleCreditNote, SaleAdjustment, CashReceipt, CashRefund}
}

// PurchaseLedgerTypes lists every purchase-ledger type code.
func PurchaseLedgerTypes() []TxnType {
	return []TxnType{PurchaseInvoice, PurchaseDebitNote, PurchaseAdjustment, CashPayment}
}

// CheckpointScopeTypes lists the type codes whose entries are summed when a
// checkpoint is created.
func CheckpointScopeTypes() []TxnType {
	return []TxnType{
		SaleInvoice, SaleCreditNote, CashReceipt, CashRefund,
		PurchaseInvoice, PurchaseDebitNote, CashPayment,
	}
}
