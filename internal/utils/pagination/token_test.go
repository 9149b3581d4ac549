package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/bookkeeping_backend/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	txnDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 15, 9, 30, 12, 345678000, time.UTC)

	token := pagination.EncodeToken(txnDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, txnDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_InvalidInput(t *testing.T) {
	cases := []string{
		"not-base64!!",
		"aGVsbG8=",       // decodes but has no separator
		"fDIwMjYtMDMtMTU=", // empty first part
	}
	for _, tc := range cases {
		_, _, err := pagination.DecodeToken(tc)
		assert.Error(t, err, "token %q", tc)
	}
}

func TestDateBasedTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC)

	token := pagination.EncodeDateBasedToken(createdAt)
	got, err := pagination.DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(got))
}

func TestDecodeDateBasedToken_InvalidInput(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("%%%")
	assert.Error(t, err)
}
