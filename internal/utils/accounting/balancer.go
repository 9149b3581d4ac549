package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

// BalancedSet is the final line layout of a transaction: the goods lines and
// the synthetic VAT line on one side, the single control balancing entry on
// the other. By construction the two sides sum to the same amount.
type BalancedSet struct {
	Debits  []domain.LineEntry
	Credits []domain.LineEntry
	Total   decimal.Decimal // gross + tax, rounded to 2dp
}

// Balance appends the synthetic VAT control line (amount = rounded tax
// total) to the goods side and produces the single balancing entry of
// round(gross + tax, 2) against the type's control account on the opposite
// side. Pure computation; persistence happens elsewhere.
func Balance(txnType domain.TxnType, computed *ComputedLines, controls domain.ControlAccounts) BalancedSet {
	one := decimal.NewFromInt(1)

	vatLine := domain.LineEntry{
		LineEntryID:   uuid.NewString(),
		AccountNumber: controls.Number(domain.RoleVATControl),
		Amount:        computed.Tax,
		UnitPrice:     computed.Tax,
		Quantity:      one,
		ExchangeRate:  one,
		TaxPercent:    decimal.Zero,
		Description:   "VAT",
	}

	total := computed.Gross.Add(computed.Tax).Round(2)
	controlLine := domain.LineEntry{
		LineEntryID:   uuid.NewString(),
		AccountNumber: controls.Number(txnType.ControlRole()),
		Amount:        total,
		UnitPrice:     total,
		Quantity:      one,
		ExchangeRate:  one,
		TaxPercent:    decimal.Zero,
		Description:   "Control balance",
	}

	lineSide := append(append([]domain.LineEntry{}, computed.Lines...), vatLine)

	set := BalancedSet{Total: total}
	if txnType.LineSide() == domain.DebitSide {
		set.Debits = lineSide
		set.Credits = []domain.LineEntry{controlLine}
	} else {
		set.Credits = lineSide
		set.Debits = []domain.LineEntry{controlLine}
	}
	return set
}

// InitialUnallocated derives the starting outstanding balance of a
// transaction from its balancing entry: a debit on the control account means
// the counterparty owes the tenant (positive), a credit the reverse.
func InitialUnallocated(txnType domain.TxnType, total decimal.Decimal) decimal.Decimal {
	if txnType.ControlSide() == domain.DebitSide {
		return total
	}
	return total.Neg()
}
