package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/groblegark/vestd/internal/engine"
	"github.com/groblegark/vestd/internal/events"
	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/plan"
	"github.com/groblegark/vestd/internal/store"
)

// mockStore is an in-memory store.Store. Transactions run against a deep
// copy and commit by swapping state, matching the rollback behavior of
// the real store.
type mockStore struct {
	pools         map[model.PoolKind]*model.Pool
	beneficiaries map[string]*model.Beneficiary
	balances      map[string]*big.Int
	claims        []*model.Claim
	events        []*model.Event
}

func newMockStore() *mockStore {
	return &mockStore{
		pools:         make(map[model.PoolKind]*model.Pool),
		beneficiaries: make(map[string]*model.Beneficiary),
		balances:      make(map[string]*big.Int),
	}
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) clone() *mockStore {
	c := newMockStore()
	for k, v := range m.pools {
		p := *v
		c.pools[k] = &p
	}
	for k, v := range m.beneficiaries {
		b := *v
		c.beneficiaries[k] = &b
	}
	for k, v := range m.balances {
		c.balances[k] = new(big.Int).Set(v)
	}
	c.claims = append(c.claims, m.claims...)
	c.events = append(c.events, m.events...)
	return c
}

func (m *mockStore) CreatePool(_ context.Context, p *model.Pool) error {
	cp := *p
	m.pools[p.Kind] = &cp
	return nil
}

func (m *mockStore) GetPool(_ context.Context, kind model.PoolKind) (*model.Pool, error) {
	p, ok := m.pools[kind]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockStore) GetPoolForUpdate(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return m.GetPool(ctx, kind)
}

func (m *mockStore) ListPools(_ context.Context) ([]*model.Pool, error) {
	var out []*model.Pool
	for _, p := range m.pools {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockStore) UpdatePool(_ context.Context, p *model.Pool) error {
	if _, ok := m.pools[p.Kind]; !ok {
		return sql.ErrNoRows
	}
	cp := *p
	m.pools[p.Kind] = &cp
	return nil
}

func (m *mockStore) CreateBeneficiary(_ context.Context, b *model.Beneficiary) error {
	cp := *b
	m.beneficiaries[b.Address] = &cp
	return nil
}

func (m *mockStore) GetBeneficiary(_ context.Context, address string) (*model.Beneficiary, error) {
	b, ok := m.beneficiaries[address]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (m *mockStore) GetBeneficiaryForUpdate(ctx context.Context, address string) (*model.Beneficiary, error) {
	return m.GetBeneficiary(ctx, address)
}

func (m *mockStore) ListBeneficiaries(_ context.Context, kind model.PoolKind) ([]*model.Beneficiary, error) {
	var out []*model.Beneficiary
	for _, b := range m.beneficiaries {
		if b.Pool == kind {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateBeneficiary(_ context.Context, b *model.Beneficiary) error {
	if _, ok := m.beneficiaries[b.Address]; !ok {
		return sql.ErrNoRows
	}
	cp := *b
	m.beneficiaries[b.Address] = &cp
	return nil
}

func (m *mockStore) CountBeneficiaries(_ context.Context, kind model.PoolKind) (int, error) {
	n := 0
	for _, b := range m.beneficiaries {
		if b.Pool == kind {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) GetBalance(_ context.Context, account string) (*big.Int, error) {
	bal, ok := m.balances[account]
	if !ok {
		return new(big.Int), nil
	}
	return new(big.Int).Set(bal), nil
}

func (m *mockStore) AddBalance(_ context.Context, account string, delta *big.Int) error {
	bal, ok := m.balances[account]
	if !ok {
		bal = new(big.Int)
		m.balances[account] = bal
	}
	bal.Add(bal, delta)
	return nil
}

func (m *mockStore) Transfer(ctx context.Context, from, to string, amount *big.Int) error {
	bal, _ := m.GetBalance(ctx, from)
	if bal.Cmp(amount) < 0 {
		return model.ErrInsufficientContractFunds
	}
	m.balances[from] = bal.Sub(bal, amount)
	return m.AddBalance(ctx, to, amount)
}

func (m *mockStore) CreateClaim(_ context.Context, c *model.Claim) error {
	cp := *c
	m.claims = append(m.claims, &cp)
	return nil
}

func (m *mockStore) ListClaims(_ context.Context, address string) ([]*model.Claim, error) {
	var out []*model.Claim
	for _, c := range m.claims {
		if c.Address == address {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) RecordEvent(_ context.Context, e *model.Event) error {
	e.ID = int64(len(m.events) + 1)
	cp := *e
	m.events = append(m.events, &cp)
	return nil
}

func (m *mockStore) ListEvents(_ context.Context, address string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		if e.Address == address {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	scratch := m.clone()
	if err := fn(scratch); err != nil {
		return err
	}
	*m = *scratch
	return nil
}

func (m *mockStore) Close() error { return nil }

var (
	addrAlice = strings.Repeat("a", 39) + "1"
	addrBob   = strings.Repeat("b", 39) + "2"
)

// newTestServer wires a Server over an in-memory store with a fake
// clock frozen at unix 1,000,000 and 100-second pool windows.
func newTestServer(t *testing.T) (*Server, *mockStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Unix(1_000_000, 0))
	ms := newMockStore()
	p := plan.Plan{
		Team:             plan.PoolPlan{PercentOfBalance: 20, BonusPercent: 5, DurationSeconds: 100},
		Investor:         plan.PoolPlan{PercentOfBalance: 5, BonusPercent: 5, DurationSeconds: 100},
		DAO:              plan.PoolPlan{PercentOfBalance: 5, BonusPercent: 0, DurationSeconds: 100},
		CoreBonusPercent: 5,
	}
	ledger := engine.New(ms, clock, p, "owner")
	return NewServer(ledger, ms, &events.NoopPublisher{}), ms, clock
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	rec := doRequest(t, h, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("secret")

	// Health is exempt.
	rec := doRequest(t, h, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	// Missing token.
	rec = doRequest(t, h, http.MethodGet, "/v1/pools", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no-token status = %d, want 401", rec.Code)
	}

	// Wrong token.
	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong-token status = %d, want 401", rec.Code)
	}

	// Correct token (pools is 409 until initialized, but auth passed).
	req = httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized {
		t.Errorf("valid-token status = %d", rec.Code)
	}
}

// fundAndInit drives POST /v1/fund and POST /v1/distribution.
func fundAndInit(t *testing.T, h http.Handler) {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/v1/fund", map[string]any{"amount": "1000000000", "actor": "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("fund status = %d: %s", rec.Code, rec.Body)
	}
	rec = doRequest(t, h, http.MethodPost, "/v1/distribution", map[string]any{"actor": "admin"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("distribution status = %d: %s", rec.Code, rec.Body)
	}
}

func TestFundAndDistribution(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	// Second initialization conflicts.
	rec := doRequest(t, h, http.MethodPost, "/v1/distribution", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("repeat distribution status = %d, want 409", rec.Code)
	}

	// Events were recorded.
	if len(ms.events) < 2 {
		t.Errorf("recorded %d events, want at least 2", len(ms.events))
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/pools", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pools status = %d", rec.Code)
	}
	var pools []*model.Pool
	if err := json.Unmarshal(rec.Body.Bytes(), &pools); err != nil {
		t.Fatalf("decode pools: %v", err)
	}
	if len(pools) != 4 {
		t.Errorf("got %d pools, want 4", len(pools))
	}
}

func TestFund_InvalidAmount(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	rec := doRequest(t, h, http.MethodPost, "/v1/fund", map[string]any{"amount": "0"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = doRequest(t, h, http.MethodPost, "/v1/fund", map[string]any{"amount": "-5"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want 400", rec.Code)
	}
}

func TestRegisterStatusCodes(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	rec := doRequest(t, h, http.MethodPost, "/v1/beneficiaries", map[string]any{"pool": "team", "address": addrAlice})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}

	// Duplicate registration conflicts.
	rec = doRequest(t, h, http.MethodPost, "/v1/beneficiaries", map[string]any{"pool": "investor", "address": addrAlice})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	// Bad address.
	rec = doRequest(t, h, http.MethodPost, "/v1/beneficiaries", map[string]any{"pool": "team", "address": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad address status = %d, want 400", rec.Code)
	}

	// Second DAO member is rejected.
	rec = doRequest(t, h, http.MethodPost, "/v1/beneficiaries", map[string]any{"pool": "dao", "address": addrBob})
	if rec.Code != http.StatusCreated {
		t.Fatalf("dao register status = %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodPost, "/v1/beneficiaries", map[string]any{"pool": "dao", "address": strings.Repeat("c", 39) + "3"})
	if rec.Code != http.StatusConflict {
		t.Errorf("second dao status = %d, want 409", rec.Code)
	}
}

func TestRegisterBatch(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	rec := doRequest(t, h, http.MethodPost, "/v1/beneficiaries/batch", map[string]any{
		"pool":      "team",
		"addresses": []string{addrAlice, addrBob},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("batch status = %d: %s", rec.Code, rec.Body)
	}
	var bs []*model.Beneficiary
	if err := json.Unmarshal(rec.Body.Bytes(), &bs); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if len(bs) != 2 {
		t.Errorf("registered %d, want 2", len(bs))
	}

	// Empty batch.
	rec = doRequest(t, h, http.MethodPost, "/v1/beneficiaries/batch", map[string]any{"pool": "team", "addresses": []string{}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", rec.Code)
	}
}

func TestClaimFlow(t *testing.T) {
	srv, ms, clock := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	doRequest(t, h, http.MethodPost, "/v1/beneficiaries/batch", map[string]any{
		"pool": "team", "addresses": []string{addrAlice, addrBob},
	})
	start := clock.Now().Unix() + 10
	rec := doRequest(t, h, http.MethodPost, "/v1/start-date", map[string]any{"start_timestamp": start})
	if rec.Code != http.StatusOK {
		t.Fatalf("start-date status = %d: %s", rec.Code, rec.Body)
	}

	// Claim before the window opens.
	rec = doRequest(t, h, http.MethodPost, "/v1/claims", map[string]any{"address": addrAlice})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("early claim status = %d, want 422", rec.Code)
	}

	// Claimable projection before the window: zero.
	rec = doRequest(t, h, http.MethodGet, "/v1/beneficiaries/"+addrAlice+"/claimable", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("claimable status = %d", rec.Code)
	}
	var proj struct {
		Claimable *model.Amount `json:"claimable"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &proj); err != nil {
		t.Fatalf("decode claimable: %v", err)
	}
	if !proj.Claimable.IsZero() {
		t.Errorf("claimable before start = %s, want 0", proj.Claimable)
	}

	// Claim at the start: the unlock bonus.
	clock.Advance(10 * time.Second)
	rec = doRequest(t, h, http.MethodPost, "/v1/claims", map[string]any{"address": addrAlice})
	if rec.Code != http.StatusOK {
		t.Fatalf("claim status = %d: %s", rec.Code, rec.Body)
	}
	var receipt model.Claim
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode claim: %v", err)
	}
	if receipt.Amount.String() != "5000000" {
		t.Errorf("claim amount = %s, want 5000000", receipt.Amount)
	}

	// The claim shows up in the receipt list and on the balance.
	rec = doRequest(t, h, http.MethodGet, "/v1/beneficiaries/"+addrAlice+"/claims", nil)
	var claims []*model.Claim
	if err := json.Unmarshal(rec.Body.Bytes(), &claims); err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("got %d receipts, want 1", len(claims))
	}
	rec = doRequest(t, h, http.MethodGet, "/v1/balances/"+addrAlice, nil)
	var bal struct {
		Balance *model.Amount `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bal); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if bal.Balance.String() != "5000000" {
		t.Errorf("balance = %s, want 5000000", bal.Balance)
	}

	// A claimed event was recorded for the address.
	found := false
	for _, e := range ms.events {
		if e.Topic == events.TopicClaimed && e.Address == addrAlice {
			found = true
		}
	}
	if !found {
		t.Error("no claimed event recorded")
	}
}

func TestClaim_UnknownAddress(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	rec := doRequest(t, h, http.MethodPost, "/v1/claims", map[string]any{"address": addrAlice})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStartDateAfterVestingStarted(t *testing.T) {
	srv, _, clock := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	start := clock.Now().Unix() + 5
	doRequest(t, h, http.MethodPost, "/v1/start-date", map[string]any{"start_timestamp": start})
	clock.Advance(10 * time.Second)

	rec := doRequest(t, h, http.MethodPost, "/v1/start-date", map[string]any{"start_timestamp": clock.Now().Unix() + 100})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")
	fundAndInit(t, h)

	rec := doRequest(t, h, http.MethodGet, "/v1/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("content type = %q", ct)
	}
	first, _, _ := bytes.Cut(rec.Body.Bytes(), []byte("\n"))
	var hdr map[string]any
	if err := json.Unmarshal(first, &hdr); err != nil {
		t.Fatalf("decode header line: %v", err)
	}
	if hdr["type"] != "header" {
		t.Errorf("first record type = %v, want header", hdr["type"])
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	req := httptest.NewRequest(http.MethodPost, "/v1/fund", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
