package accounting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	"github.com/openbooks/bookkeeping_backend/internal/utils/accounting"
)

func sourceLines() []domain.LineEntry {
	return []domain.LineEntry{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxPercent: dec("23"), PartNumber: "W-1"},
		{Description: "Gadget", UnitPrice: dec("5.50"), Quantity: dec("1"), TaxPercent: dec("23")},
		{Description: "Shipping", UnitPrice: dec("4.00"), Quantity: dec("1"), TaxPercent: dec("0")},
	}
}

func TestMatchContraLines_MatchesRegardlessOfOrder(t *testing.T) {
	contra := []accounting.ContraLine{
		{Description: "Shipping", UnitPrice: dec("4.00"), Quantity: dec("1"), TaxRateID: testZeroRateID, AccountNumber: testPurchaseAccount},
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxRateID: testStandardRateID, AccountNumber: testPurchaseAccount},
		{Description: "Gadget", UnitPrice: dec("5.50"), Quantity: dec("1"), TaxRateID: testStandardRateID, AccountNumber: testPurchaseAccount},
	}

	matched, err := accounting.MatchContraLines(sourceLines(), contra, testRates())
	require.NoError(t, err)
	require.Len(t, matched, 3)

	assert.Equal(t, "Shipping", matched[0].Source.Description)
	assert.Equal(t, "Widget", matched[1].Source.Description)
	assert.Equal(t, "Gadget", matched[2].Source.Description)
}

func TestMatchContraLines_CountMismatchFails(t *testing.T) {
	contra := []accounting.ContraLine{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxRateID: testStandardRateID},
	}

	_, err := accounting.MatchContraLines(sourceLines(), contra, testRates())
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestMatchContraLines_UnmatchedLineFails(t *testing.T) {
	contra := []accounting.ContraLine{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxRateID: testStandardRateID},
		{Description: "Gadget", UnitPrice: dec("5.50"), Quantity: dec("1"), TaxRateID: testStandardRateID},
		{Description: "Handling", UnitPrice: dec("4.00"), Quantity: dec("1"), TaxRateID: testZeroRateID},
	}

	_, err := accounting.MatchContraLines(sourceLines(), contra, testRates())
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestMatchContraLines_WrongTaxPercentFails(t *testing.T) {
	contra := []accounting.ContraLine{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxRateID: testStandardRateID},
		{Description: "Gadget", UnitPrice: dec("5.50"), Quantity: dec("1"), TaxRateID: testStandardRateID},
		// Shipping was taxed at 0% on the source side.
		{Description: "Shipping", UnitPrice: dec("4.00"), Quantity: dec("1"), TaxRateID: testStandardRateID},
	}

	_, err := accounting.MatchContraLines(sourceLines(), contra, testRates())
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestMatchContraLines_UnknownTaxRateFails(t *testing.T) {
	contra := []accounting.ContraLine{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), TaxRateID: "rate-missing"},
		{Description: "Gadget", UnitPrice: dec("5.50"), Quantity: dec("1"), TaxRateID: testStandardRateID},
		{Description: "Shipping", UnitPrice: dec("4.00"), Quantity: dec("1"), TaxRateID: testZeroRateID},
	}

	_, err := accounting.MatchContraLines(sourceLines(), contra, testRates())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMatchContraLines_DuplicateSourceLinesClaimedOnce(t *testing.T) {
	sources := []domain.LineEntry{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("1"), TaxPercent: dec("23")},
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("1"), TaxPercent: dec("23")},
	}
	contra := []accounting.ContraLine{
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("1"), TaxRateID: testStandardRateID},
		{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("1"), TaxRateID: testStandardRateID},
	}

	matched, err := accounting.MatchContraLines(sources, contra, testRates())
	require.NoError(t, err)
	require.Len(t, matched, 2)
}

func TestContraRawLines_CopiesSourcePricingAndContraOverrides(t *testing.T) {
	matched := []accounting.MatchedContraLine{{
		Source: domain.LineEntry{Description: "Widget", UnitPrice: dec("10.00"), Quantity: dec("2"), PartNumber: "W-1"},
		Contra: accounting.ContraLine{AccountNumber: testPurchaseAccount, ExchangeRate: dec("1.1"), TaxRateID: testStandardRateID},
	}}

	raw := accounting.ContraRawLines(matched)
	require.Len(t, raw, 1)
	assert.Equal(t, "Widget", raw[0].Description)
	assert.Equal(t, "W-1", raw[0].PartNumber)
	assert.True(t, raw[0].UnitPrice.Equal(dec("10.00")))
	assert.True(t, raw[0].Quantity.Equal(dec("2")))
	assert.Equal(t, testPurchaseAccount, raw[0].AccountNumber)
	assert.True(t, raw[0].ExchangeRate.Equal(dec("1.1")))
	assert.Equal(t, testStandardRateID, raw[0].TaxRateID)
	assert.Nil(t, raw[0].TaxAmount)
}
