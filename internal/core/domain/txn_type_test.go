package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

func TestTxnType_IsValid(t *testing.T) {
	for _, tt := range append(domain.SalesLedgerTypes(), domain.PurchaseLedgerTypes()...) {
		assert.True(t, tt.IsValid(), "%s should be valid", tt)
	}
	assert.True(t, domain.JournalEntry.IsValid())
	assert.False(t, domain.TxnType("SALE_ORDER").IsValid())
	assert.False(t, domain.TxnType("").IsValid())
}

func TestTxnType_LedgerMembership(t *testing.T) {
	for _, tt := range domain.SalesLedgerTypes() {
		assert.True(t, tt.IsSale(), "%s", tt)
		assert.False(t, tt.IsPurchase(), "%s", tt)
	}
	for _, tt := range domain.PurchaseLedgerTypes() {
		assert.True(t, tt.IsPurchase(), "%s", tt)
		assert.False(t, tt.IsSale(), "%s", tt)
	}
	assert.False(t, domain.JournalEntry.IsSale())
	assert.False(t, domain.JournalEntry.IsPurchase())
}

func TestTxnType_ControlRole(t *testing.T) {
	assert.Equal(t, domain.RoleDebtorControl, domain.SaleInvoice.ControlRole())
	assert.Equal(t, domain.RoleDebtorControl, domain.CashReceipt.ControlRole())
	assert.Equal(t, domain.RoleCreditorControl, domain.PurchaseInvoice.ControlRole())
	assert.Equal(t, domain.RoleCreditorControl, domain.CashPayment.ControlRole())
	assert.Equal(t, domain.RoleSuspense, domain.JournalEntry.ControlRole())
}

func TestTxnType_ControlSideOpposesLineSide(t *testing.T) {
	types := append(domain.SalesLedgerTypes(), domain.PurchaseLedgerTypes()...)
	types = append(types, domain.JournalEntry)
	for _, tt := range types {
		assert.Equal(t, tt.LineSide().Opposite(), tt.ControlSide(), "%s", tt)
	}
}

func TestTxnType_ContraType(t *testing.T) {
	cases := map[domain.TxnType]domain.TxnType{
		domain.SaleInvoice:       domain.PurchaseInvoice,
		domain.SaleCreditNote:    domain.PurchaseDebitNote,
		domain.CashReceipt:       domain.CashPayment,
		domain.PurchaseInvoice:   domain.SaleInvoice,
		domain.PurchaseDebitNote: domain.SaleCreditNote,
		domain.CashPayment:       domain.CashReceipt,
	}
	for src, want := range cases {
		got, ok := src.ContraType()
		assert.True(t, ok, "%s", src)
		assert.Equal(t, want, got, "%s", src)
	}

	// Adjustments and journal entries are single-sided; refunds have no
	// purchase-ledger counterpart type to mirror into.
	for _, tt := range []domain.TxnType{domain.SaleAdjustment, domain.PurchaseAdjustment, domain.JournalEntry, domain.CashRefund} {
		_, ok := tt.ContraType()
		assert.False(t, ok, "%s", tt)
	}

	// Every mapped pair stays inside opposite ledgers, so the mirror can be
	// allocated against the counterparty's own documents.
	for src, dst := range cases {
		assert.NotEqual(t, src.IsSale(), dst.IsSale(), "%s -> %s", src, dst)
	}
}

func TestTxnType_CheckpointScope(t *testing.T) {
	for _, tt := range domain.CheckpointScopeTypes() {
		assert.True(t, tt.InCheckpointScope(), "%s", tt)
	}
	assert.False(t, domain.JournalEntry.InCheckpointScope())
	assert.False(t, domain.SaleAdjustment.InCheckpointScope())
	assert.False(t, domain.PurchaseAdjustment.InCheckpointScope())
	assert.False(t, domain.TxnType("BOGUS").InCheckpointScope())
}
