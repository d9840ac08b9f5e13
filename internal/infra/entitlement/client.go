// internal/infra/entitlement/client.go
package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "entitlement_healer/internal/domain/entitlement"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPClient implements the entitlement.Client interface against the remote
// entitlement service's JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (c *HTTPClient) GetAccount(ctx context.Context, accountUUID string) (*domain.Account, error) {
	account := &domain.Account{}
	path := fmt.Sprintf("/consumers/%s", url.PathEscape(accountUUID))
	if err := c.do(ctx, "get account", http.MethodGet, path, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (c *HTTPClient) Bind(ctx context.Context, accountUUID string, entitleDate time.Time) ([]domain.Grant, error) {
	grants := []domain.Grant{}
	path := fmt.Sprintf("/consumers/%s/entitlements?entitle_date=%s",
		url.PathEscape(accountUUID), url.QueryEscape(entitleDate.Format(time.RFC3339)))
	if err := c.do(ctx, "bind", http.MethodPost, path, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (c *HTTPClient) GetCompliance(ctx context.Context, accountUUID string) (*domain.ComplianceStatus, error) {
	status := &domain.ComplianceStatus{}
	path := fmt.Sprintf("/consumers/%s/compliance", url.PathEscape(accountUUID))
	if err := c.do(ctx, "get compliance", http.MethodGet, path, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *HTTPClient) ListGrants(ctx context.Context, accountUUID string) ([]domain.Grant, error) {
	grants := []domain.Grant{}
	path := fmt.Sprintf("/consumers/%s/entitlements", url.PathEscape(accountUUID))
	if err := c.do(ctx, "list grants", http.MethodGet, path, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// do performs one request and decodes the JSON response into out. All
// failures are reported as *entitlement.ServiceError.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return &domain.ServiceError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.ServiceError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ServiceError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
