package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// ContraLine is one line of a counterparty's contra submission. Description,
// unit price and quantity identify the source line being mirrored; account
// number, exchange rate and tax rate are the counterparty's own overrides.
type ContraLine struct {
	Description   string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	AccountNumber int64
	ExchangeRate  decimal.Decimal
	TaxRateID     string
}

// MatchedContraLine pairs one source goods line with the contra line that
// claimed it.
type MatchedContraLine struct {
	Source domain.LineEntry
	Contra ContraLine
}

// MatchContraLines finds a bijection between the source transaction's goods
// lines and the counterparty's submission. A contra line matches a source
// line when description, unit price and quantity agree and the resolved tax
// rate percent equals the percent snapshotted on the source line. Submission
// order is irrelevant; each source line may be claimed at most once, and the
// match fails if any source line is left unclaimed or the counts differ.
func MatchContraLines(
	sourceLines []domain.LineEntry,
	contraLines []ContraLine,
	rates map[string]domain.TaxRate,
) ([]MatchedContraLine, error) {
	if len(contraLines) != len(sourceLines) {
		return nil, fmt.Errorf("%w: contra submission has %d lines, source transaction has %d",
			apperrors.ErrBusinessRule, len(contraLines), len(sourceLines))
	}

	claimed := make([]bool, len(sourceLines))
	matched := make([]MatchedContraLine, 0, len(contraLines))

	for i, cl := range contraLines {
		rate, ok := rates[cl.TaxRateID]
		if !ok {
			return nil, fmt.Errorf("%w: contra line %d: tax rate %s does not exist", apperrors.ErrValidation, i, cl.TaxRateID)
		}

		found := -1
		for j, src := range sourceLines {
			if claimed[j] {
				continue
			}
			if src.Description != cl.Description {
				continue
			}
			if !src.UnitPrice.Equal(cl.UnitPrice) {
				continue
			}
			if !src.Quantity.Equal(cl.Quantity) {
				continue
			}
			if !src.TaxPercent.Equal(rate.Percent) {
				continue
			}
			found = j
			break
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: contra line %d (%q) matches no remaining source line",
				apperrors.ErrBusinessRule, i, cl.Description)
		}
		claimed[found] = true
		matched = append(matched, MatchedContraLine{Source: sourceLines[found], Contra: cl})
	}

	return matched, nil
}

// ContraRawLines turns matched pairs back into calculator input: source
// descriptions, prices and quantities with the counterparty's account,
// exchange rate and tax rate. Tax is always recomputed, never copied from
// the source transaction's VAT line.
func ContraRawLines(matched []MatchedContraLine) []RawLine {
	raw := make([]RawLine, len(matched))
	for i, m := range matched {
		raw[i] = RawLine{
			Description:   m.Source.Description,
			UnitPrice:     m.Source.UnitPrice,
			Quantity:      m.Source.Quantity,
			ExchangeRate:  m.Contra.ExchangeRate,
			TaxRateID:     m.Contra.TaxRateID,
			AccountNumber: m.Contra.AccountNumber,
			PartNumber:    m.Source.PartNumber,
		}
	}
	return raw
}
