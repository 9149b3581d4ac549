package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
)

// HTTPReportingClient validates report template references against the
// reporting service's REST API.
type HTTPReportingClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPReportingClient creates a reporting client.
func NewHTTPReportingClient(baseURL string) *HTTPReportingClient {
	return &HTTPReportingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ portsclients.ReportingClient = (*HTTPReportingClient)(nil)

// ValidateTemplate implements portsclients.ReportingClient.
func (c *HTTPReportingClient) ValidateTemplate(ctx context.Context, templateID string, txnType domain.TxnType) error {
	endpoint := fmt.Sprintf("%s/api/v1/templates/%s?txnType=%s",
		c.baseURL, url.PathEscape(templateID), url.QueryEscape(string(txnType)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to build reporting request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: report template %s could not be verified: reporting service unreachable: %v",
			apperrors.ErrValidation, templateID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: unknown report template %s", apperrors.ErrValidation, templateID)
	case http.StatusConflict:
		return fmt.Errorf("%w: report template %s does not apply to %s", apperrors.ErrValidation, templateID, txnType)
	default:
		return fmt.Errorf("%w: report template %s could not be verified: reporting service returned status %d",
			apperrors.ErrValidation, templateID, resp.StatusCode)
	}
}
