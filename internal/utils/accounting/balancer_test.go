package accounting_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/utils/accounting"
)

func sumAmounts(lines []domain.LineEntry) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

func TestBalance_DebitsEqualCreditsForEveryType(t *testing.T) {
	types := append(domain.SalesLedgerTypes(), domain.PurchaseLedgerTypes()...)
	types = append(types, domain.JournalEntry)

	for _, txnType := range types {
		t.Run(string(txnType), func(t *testing.T) {
			computed := &accounting.ComputedLines{
				Lines: []domain.LineEntry{
					{AccountNumber: testSalesAccount, Amount: dec("100.00")},
					{AccountNumber: testSalesAccount, Amount: dec("33.33")},
				},
				Gross: dec("133.33"),
				Tax:   dec("30.67"),
			}

			set := accounting.Balance(txnType, computed, testControls())

			assert.True(t, sumAmounts(set.Debits).Equal(sumAmounts(set.Credits)),
				"debits %s != credits %s", sumAmounts(set.Debits), sumAmounts(set.Credits))
			assert.True(t, set.Total.Equal(dec("164.00")), "got %s", set.Total)
		})
	}
}

func TestBalance_RandomizedLineSetsAlwaysBalance(t *testing.T) {
	// Fixed seed keeps failures reproducible.
	rng := rand.New(rand.NewSource(1))
	types := append(domain.SalesLedgerTypes(), domain.PurchaseLedgerTypes()...)

	for i := 0; i < 500; i++ {
		txnType := types[rng.Intn(len(types))]
		account := testSalesAccount
		if txnType.IsPurchase() {
			account = testPurchaseAccount
		}

		raw := make([]accounting.RawLine, 1+rng.Intn(6))
		for j := range raw {
			rateID := testStandardRateID
			if rng.Intn(3) == 0 {
				rateID = testZeroRateID
			}
			raw[j] = accounting.RawLine{
				Description:   fmt.Sprintf("line-%d-%d", i, j),
				UnitPrice:     decimal.New(int64(10+rng.Intn(1_000_000)), -3), // 3dp, exercises half-up rounding
				Quantity:      decimal.NewFromInt(int64(1 + rng.Intn(500))),
				ExchangeRate:  decimal.New(int64(50+rng.Intn(200)), -2), // 0.50 .. 2.49
				TaxRateID:     rateID,
				AccountNumber: account,
			}
		}

		computed, err := accounting.ComputeLines(txnType, raw, testRates(), testAccounts(), testControls())
		require.NoError(t, err, "case %d (%s)", i, txnType)

		set := accounting.Balance(txnType, computed, testControls())

		debits, credits := sumAmounts(set.Debits), sumAmounts(set.Credits)
		require.True(t, debits.Equal(credits),
			"case %d (%s, %d lines): debits %s != credits %s", i, txnType, len(raw), debits, credits)
	}
}

func TestBalance_SaleInvoiceLayout(t *testing.T) {
	computed := &accounting.ComputedLines{
		Lines: []domain.LineEntry{{AccountNumber: testSalesAccount, Amount: dec("100")}},
		Gross: dec("100"),
		Tax:   dec("23"),
	}

	set := accounting.Balance(domain.SaleInvoice, computed, testControls())

	// Goods and VAT post on the credit side; the debtor control entry on the debit side.
	require.Len(t, set.Credits, 2)
	require.Len(t, set.Debits, 1)
	assert.Equal(t, domain.VATControlAccountNumber, set.Credits[1].AccountNumber)
	assert.True(t, set.Credits[1].Amount.Equal(dec("23")))
	assert.Equal(t, domain.DebtorControlAccountNumber, set.Debits[0].AccountNumber)
	assert.True(t, set.Debits[0].Amount.Equal(dec("123")))
}

func TestBalance_PurchaseInvoiceLayout(t *testing.T) {
	computed := &accounting.ComputedLines{
		Lines: []domain.LineEntry{{AccountNumber: testPurchaseAccount, Amount: dec("200")}},
		Gross: dec("200"),
		Tax:   dec("46"),
	}

	set := accounting.Balance(domain.PurchaseInvoice, computed, testControls())

	require.Len(t, set.Debits, 2)
	require.Len(t, set.Credits, 1)
	assert.Equal(t, domain.VATControlAccountNumber, set.Debits[1].AccountNumber)
	assert.Equal(t, domain.CreditorControlAccountNumber, set.Credits[0].AccountNumber)
	assert.True(t, set.Credits[0].Amount.Equal(dec("246")))
}

func TestBalance_JournalEntryUsesSuspense(t *testing.T) {
	computed := &accounting.ComputedLines{
		Lines: []domain.LineEntry{{AccountNumber: testSalesAccount, Amount: dec("10")}},
		Gross: dec("10"),
		Tax:   decimal.Zero,
	}

	set := accounting.Balance(domain.JournalEntry, computed, testControls())

	require.Len(t, set.Credits, 1)
	assert.Equal(t, domain.SuspenseAccountNumber, set.Credits[0].AccountNumber)
}

func TestInitialUnallocated_SignFollowsControlSide(t *testing.T) {
	total := dec("123.00")

	// Debtor control debited: the counterparty owes us.
	assert.True(t, accounting.InitialUnallocated(domain.SaleInvoice, total).Equal(dec("123.00")))
	// Creditor control credited: we owe the counterparty.
	assert.True(t, accounting.InitialUnallocated(domain.PurchaseInvoice, total).Equal(dec("-123.00")))
	// A credit note reverses the invoice's direction.
	assert.True(t, accounting.InitialUnallocated(domain.SaleCreditNote, total).Equal(dec("-123.00")))
	assert.True(t, accounting.InitialUnallocated(domain.PurchaseDebitNote, total).Equal(dec("123.00")))
	// Cash against each ledger offsets the respective invoice.
	assert.True(t, accounting.InitialUnallocated(domain.CashReceipt, total).Equal(dec("-123.00")))
	assert.True(t, accounting.InitialUnallocated(domain.CashPayment, total).Equal(dec("123.00")))
}
