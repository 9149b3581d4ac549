// Package clients implements the outbound adapters: the master-data
// directory, the reporting service and the statement notifier.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
)

// HTTPDirectoryClient resolves addresses and currencies against the
// directory service's REST API. Responses are cached with a short TTL since
// master data changes rarely but is consulted on every transaction write.
type HTTPDirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewHTTPDirectoryClient creates a directory client with the given cache TTL.
func NewHTTPDirectoryClient(baseURL string, cacheTTL time.Duration) *HTTPDirectoryClient {
	return &HTTPDirectoryClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

var _ portsclients.DirectoryClient = (*HTTPDirectoryClient)(nil)

// ResolveAddress implements portsclients.DirectoryClient.
func (c *HTTPDirectoryClient) ResolveAddress(ctx context.Context, addressID string) (*domain.Address, error) {
	cacheKey := "address:" + addressID
	if cached, found := c.cache.Get(cacheKey); found {
		addr := cached.(domain.Address)
		return &addr, nil
	}

	endpoint := c.baseURL + "/api/v1/addresses/" + url.PathEscape(addressID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to build directory request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A collaborator outage leaves the reference unverifiable; without
		// confirmation the reference is invalid.
		return nil, fmt.Errorf("%w: address %s could not be verified: directory service unreachable: %v",
			apperrors.ErrValidation, addressID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: unknown address %s", apperrors.ErrValidation, addressID)
	default:
		return nil, fmt.Errorf("%w: address %s could not be verified: directory service returned status %d",
			apperrors.ErrValidation, addressID, resp.StatusCode)
	}

	var addr domain.Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, fmt.Errorf("%w: address %s could not be verified: malformed directory response: %v",
			apperrors.ErrValidation, addressID, err)
	}
	if !addr.IsActive {
		return nil, fmt.Errorf("%w: address %s is inactive", apperrors.ErrValidation, addressID)
	}

	c.cache.Set(cacheKey, addr, cache.DefaultExpiration)
	return &addr, nil
}

// ResolveCurrency implements portsclients.DirectoryClient.
func (c *HTTPDirectoryClient) ResolveCurrency(ctx context.Context, code string) (bool, error) {
	cacheKey := "currency:" + code
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(bool), nil
	}

	endpoint := c.baseURL + "/api/v1/currencies/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to build directory request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: currency %s could not be verified: directory service unreachable: %v",
			apperrors.ErrValidation, code, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		c.cache.Set(cacheKey, true, cache.DefaultExpiration)
		return true, nil
	case http.StatusNotFound:
		// Negative lookups are cached too; an unknown code stays unknown.
		c.cache.Set(cacheKey, false, cache.DefaultExpiration)
		return false, nil
	default:
		return false, fmt.Errorf("%w: currency %s could not be verified: directory service returned status %d",
			apperrors.ErrValidation, code, resp.StatusCode)
	}
}
