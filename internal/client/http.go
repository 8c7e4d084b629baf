package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/groblegark/vestd/internal/model"
)

// HTTPClient implements VestingClient using the vestd HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements VestingClient.
var _ VestingClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Admin operations ---

func (c *HTTPClient) Fund(ctx context.Context, amount *model.Amount, actor string) (*model.Amount, error) {
	body := map[string]any{"amount": amount}
	if actor != "" {
		body["actor"] = actor
	}
	var resp struct {
		Balance *model.Amount `json:"balance"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/fund", body, &resp); err != nil {
		return nil, err
	}
	return resp.Balance, nil
}

func (c *HTTPClient) InitializeDistribution(ctx context.Context, actor string) ([]*model.Pool, error) {
	body := map[string]string{}
	if actor != "" {
		body["actor"] = actor
	}
	var pools []*model.Pool
	if err := c.doJSON(ctx, http.MethodPost, "/v1/distribution", body, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func (c *HTTPClient) SetStartDate(ctx context.Context, ts int64, actor string) error {
	return c.setWindowStart(ctx, "/v1/start-date", ts, actor)
}

func (c *HTTPClient) SetDexLaunchDate(ctx context.Context, ts int64, actor string) error {
	return c.setWindowStart(ctx, "/v1/dex-launch-date", ts, actor)
}

func (c *HTTPClient) setWindowStart(ctx context.Context, path string, ts int64, actor string) error {
	body := map[string]any{"start_timestamp": ts}
	if actor != "" {
		body["actor"] = actor
	}
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// --- Registration ---

func (c *HTTPClient) Register(ctx context.Context, pool, address, actor string) (*model.Beneficiary, error) {
	body := map[string]string{"pool": pool, "address": address}
	if actor != "" {
		body["actor"] = actor
	}
	var b model.Beneficiary
	if err := c.doJSON(ctx, http.MethodPost, "/v1/beneficiaries", body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) RegisterBatch(ctx context.Context, pool string, addresses []string, actor string) ([]*model.Beneficiary, error) {
	body := map[string]any{"pool": pool, "addresses": addresses}
	if actor != "" {
		body["actor"] = actor
	}
	var bs []*model.Beneficiary
	if err := c.doJSON(ctx, http.MethodPost, "/v1/beneficiaries/batch", body, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (c *HTTPClient) RegisterCoreMember(ctx context.Context, req *RegisterCoreMemberRequest) (*model.Beneficiary, error) {
	var b model.Beneficiary
	if err := c.doJSON(ctx, http.MethodPost, "/v1/core-members", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// --- Claims ---

func (c *HTTPClient) Claim(ctx context.Context, address string) (*model.Claim, error) {
	body := map[string]string{"address": address}
	var claim model.Claim
	if err := c.doJSON(ctx, http.MethodPost, "/v1/claims", body, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (c *HTTPClient) Claimable(ctx context.Context, address string, at int64) (*ClaimableResponse, error) {
	path := "/v1/beneficiaries/" + url.PathEscape(address) + "/claimable"
	if at > 0 {
		path += "?at=" + strconv.FormatInt(at, 10)
	}
	var resp ClaimableResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Views ---

func (c *HTTPClient) ListPools(ctx context.Context) ([]*model.Pool, error) {
	var pools []*model.Pool
	if err := c.doJSON(ctx, http.MethodGet, "/v1/pools", nil, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func (c *HTTPClient) ListBeneficiaries(ctx context.Context, pool string) ([]*model.Beneficiary, error) {
	var bs []*model.Beneficiary
	if err := c.doJSON(ctx, http.MethodGet, "/v1/pools/"+url.PathEscape(pool)+"/beneficiaries", nil, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (c *HTTPClient) GetBeneficiary(ctx context.Context, address string) (*model.Beneficiary, error) {
	var b model.Beneficiary
	if err := c.doJSON(ctx, http.MethodGet, "/v1/beneficiaries/"+url.PathEscape(address), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) ListClaims(ctx context.Context, address string) ([]*model.Claim, error) {
	var claims []*model.Claim
	if err := c.doJSON(ctx, http.MethodGet, "/v1/beneficiaries/"+url.PathEscape(address)+"/claims", nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, address string) ([]*model.Event, error) {
	var events []*model.Event
	if err := c.doJSON(ctx, http.MethodGet, "/v1/beneficiaries/"+url.PathEscape(address)+"/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) GetBalance(ctx context.Context, account string) (*BalanceResponse, error) {
	var resp BalanceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/balances/"+url.PathEscape(account), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export streams GET /v1/export straight to w without buffering the
// whole ledger in memory.
func (c *HTTPClient) Export(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/export", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("streaming export: %w", err)
	}
	return nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError is an error response from the vestd server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
