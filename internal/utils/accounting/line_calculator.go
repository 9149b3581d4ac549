// Package accounting holds the pure calculation pipeline every transaction
// type funnels through: pricing and taxing raw lines, converting them to the
// tenant's base currency, and deriving the balancing control entries that
// make debit-sum == credit-sum an algebraic identity.
package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// TaxTolerance is the absolute band a caller-supplied tax amount may deviate
// from the computed tax, applied in the line's pre-conversion currency.
var TaxTolerance = decimal.RequireFromString("0.02")

var hundred = decimal.NewFromInt(100)

// RawLine is the caller's unpriced input for one transaction line.
type RawLine struct {
	Description   string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	ExchangeRate  decimal.Decimal // Zero value means 1
	TaxRateID     string
	TaxAmount     *decimal.Decimal // Optional caller override, pre-conversion
	AccountNumber int64
	PartNumber    string
}

// ComputedLines is the calculator output: priced line entries (not yet
// persisted) plus the two running totals the balancer needs.
type ComputedLines struct {
	Lines []domain.LineEntry
	Gross decimal.Decimal // Sum of converted line amounts
	Tax   decimal.Decimal // Sum of converted tax, rounded half-up to 2dp
}

// ComputeLines prices, taxes and converts raw lines for a transaction of the
// given type. It performs read-only validation against the address's tax
// rates and accounts and has no side effects.
//
// Per line: amount = round_half_up(unit_price * quantity, 2); expected tax =
// amount * percent / 100; a supplied tax amount must lie within TaxTolerance
// of the expected value or the whole operation fails; conversion to base
// currency multiplies by the exchange rate (default 1).
func ComputeLines(
	txnType domain.TxnType,
	raw []RawLine,
	rates map[string]domain.TaxRate,
	accounts map[int64]domain.AddressAccount,
	controls domain.ControlAccounts,
) (*ComputedLines, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", apperrors.ErrValidation)
	}

	out := &ComputedLines{
		Lines: make([]domain.LineEntry, 0, len(raw)),
		Gross: decimal.Zero,
		Tax:   decimal.Zero,
	}

	for i, line := range raw {
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: unit price must not be negative", apperrors.ErrValidation, i)
		}
		if line.Quantity.IsZero() || line.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: quantity must be positive", apperrors.ErrValidation, i)
		}

		account, ok := accounts[line.AccountNumber]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: account %d does not exist for this address", apperrors.ErrValidation, i, line.AccountNumber)
		}
		if !account.UsableFor(txnType, controls) {
			return nil, fmt.Errorf("%w: line %d: account %d is not valid for %s transactions", apperrors.ErrValidation, i, line.AccountNumber, txnType)
		}

		rate, ok := rates[line.TaxRateID]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: tax rate %s does not exist", apperrors.ErrValidation, i, line.TaxRateID)
		}

		amount := line.UnitPrice.Mul(line.Quantity).Round(2)
		expectedTax := amount.Mul(rate.Percent).Div(hundred)

		tax := expectedTax
		if line.TaxAmount != nil {
			if line.TaxAmount.Sub(expectedTax).Abs().GreaterThan(TaxTolerance) {
				return nil, fmt.Errorf("%w: line %d: supplied tax %s deviates from expected %s by more than %s",
					apperrors.ErrBusinessRule, i, line.TaxAmount.String(), expectedTax.Round(2).String(), TaxTolerance.String())
			}
			tax = *line.TaxAmount
		}

		exchangeRate := line.ExchangeRate
		if exchangeRate.IsZero() {
			exchangeRate = decimal.NewFromInt(1)
		}
		if exchangeRate.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: exchange rate must be positive", apperrors.ErrValidation, i)
		}

		converted := amount.Mul(exchangeRate).Round(2)

		out.Lines = append(out.Lines, domain.LineEntry{
			LineEntryID:   uuid.NewString(),
			AccountNumber: line.AccountNumber,
			Amount:        converted,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			ExchangeRate:  exchangeRate,
			TaxPercent:    rate.Percent,
			Description:   line.Description,
			PartNumber:    line.PartNumber,
		})

		out.Gross = out.Gross.Add(converted)
		out.Tax = out.Tax.Add(tax.Mul(exchangeRate))
	}

	out.Tax = out.Tax.Round(2)

	if out.Gross.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: gross amount %s must be positive", apperrors.ErrBusinessRule, out.Gross.String())
	}

	return out, nil
}

// StampAudit fills ids and audit fields on freshly computed lines so they can
// be persisted under the given transaction.
func StampAudit(lines []domain.LineEntry, transactionID, userID string, now time.Time) {
	for i := range lines {
		lines[i].TransactionID = transactionID
		lines[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
	}
}
