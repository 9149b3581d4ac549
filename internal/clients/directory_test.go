package clients_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/clients"
)

func TestResolveAddress_ActiveAddressResolvesAndCaches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"addressID":"addr-1","organizationID":"org-1","name":"Acme Ltd","currencyCode":"EUR","isActive":true}`))
	}))
	defer srv.Close()

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	addr, err := client.ResolveAddress(context.Background(), "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", addr.CurrencyCode)

	_, err = client.ResolveAddress(context.Background(), "addr-1")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestResolveAddress_UnknownAddressFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	_, err := client.ResolveAddress(context.Background(), "addr-missing")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "addr-missing")
}

func TestResolveAddress_ServerErrorFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	_, err := client.ResolveAddress(context.Background(), "addr-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "addr-1")
}

func TestResolveAddress_UnreachableDirectoryFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // the port now refuses connections

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	_, err := client.ResolveAddress(context.Background(), "addr-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "addr-1")
}

func TestResolveCurrency_ServerErrorFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	_, err := client.ResolveCurrency(context.Background(), "EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "EUR")
}

func TestResolveCurrency_UnknownCodeIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := clients.NewHTTPDirectoryClient(srv.URL, time.Minute)

	known, err := client.ResolveCurrency(context.Background(), "XXX")
	require.NoError(t, err)
	assert.False(t, known)
}
