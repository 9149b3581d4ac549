package clients_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/clients"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
)

func TestValidateTemplate_KnownTemplatePasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, string(domain.SaleInvoice), r.URL.Query().Get("txnType"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := clients.NewHTTPReportingClient(srv.URL)

	assert.NoError(t, client.ValidateTemplate(context.Background(), "tpl-1", domain.SaleInvoice))
}

func TestValidateTemplate_WrongTypeFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := clients.NewHTTPReportingClient(srv.URL)

	err := client.ValidateTemplate(context.Background(), "tpl-1", domain.PurchaseInvoice)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "tpl-1")
}

func TestValidateTemplate_ServerErrorFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := clients.NewHTTPReportingClient(srv.URL)

	err := client.ValidateTemplate(context.Background(), "tpl-1", domain.SaleInvoice)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "tpl-1")
}

func TestValidateTemplate_UnreachableReportingFailsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := clients.NewHTTPReportingClient(srv.URL)

	err := client.ValidateTemplate(context.Background(), "tpl-1", domain.SaleInvoice)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "tpl-1")
}
