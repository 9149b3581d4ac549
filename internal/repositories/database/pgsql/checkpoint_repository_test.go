package pgsql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
)

func TestVerifyWindowBalanced_EqualTotalsPass(t *testing.T) {
	total := decimal.RequireFromString("1520.40")

	assert.NoError(t, verifyWindowBalanced(total, total))
	assert.NoError(t, verifyWindowBalanced(decimal.Zero, decimal.Zero))
}

func TestVerifyWindowBalanced_TinyDivergenceFails(t *testing.T) {
	debits := decimal.RequireFromString("1520.4000")
	credits := decimal.RequireFromString("1520.4001")

	err := verifyWindowBalanced(debits, credits)

	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.NotErrorIs(t, err, apperrors.ErrBusinessRule)
	assert.Contains(t, err.Error(), "1520.4001")
}

func TestVerifySuspenseCleared_ZeroBalancePasses(t *testing.T) {
	assert.NoError(t, verifySuspenseCleared(decimal.Zero))
}

func TestVerifySuspenseCleared_ResidueIsIntegrityFailure(t *testing.T) {
	err := verifySuspenseCleared(decimal.RequireFromString("-0.01"))

	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.NotErrorIs(t, err, apperrors.ErrBusinessRule)
	assert.Contains(t, err.Error(), "year end")
}
