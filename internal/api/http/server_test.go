package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconfig "github.com/weisyn/rwaledger/internal/config/api"
	ledgerconfig "github.com/weisyn/rwaledger/internal/config/ledger"
	logmodule "github.com/weisyn/rwaledger/internal/core/infrastructure/log"
	"github.com/weisyn/rwaledger/internal/core/ledger/engine"
	"github.com/weisyn/rwaledger/internal/core/ledger/ledgertest"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/rwaledger/pkg/types"
)

type testServer struct {
	server *Server
	store  storage.BadgerStore
}

func newTestServer(t *testing.T, mutate func(*apiconfig.APIOptions)) *testServer {
	t.Helper()
	store := ledgertest.NewStore(t)
	eng, err := engine.New(store, nil, nil, &ledgerconfig.LedgerOptions{
		Admin:               ledgertest.Admin,
		ComplianceAuthority: ledgertest.Authority,
		Oracles:             []types.Address{ledgertest.Oracle},
		PriceMaxAge:         144,
	}, nil)
	require.NoError(t, err)

	opts := apiconfig.New(nil).GetOptions()
	opts.ReadRateLimit = 0
	opts.WriteRateLimit = 0
	if mutate != nil {
		mutate(opts)
	}
	return &testServer{
		server: NewServer(opts, eng, nil, logmodule.NewNop()),
		store:  store,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, caller types.Address, height uint64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller", string(caller))
	}
	if method != http.MethodGet {
		req.Header.Set("X-Height", strconv.FormatUint(height, 10))
	}
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId"`
	Error     *struct {
		Code    string `json:"code"`
		Numeric uint32 `json:"numeric"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestRegisterAndClaimOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/v1/assets", ledgertest.Admin, 1, map[string]interface{}{
		"metadata_uri": "ipfs://tower-a",
		"asset_value":  5_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint64 `json:"id"`
	}
	decodeData(t, w, &created)
	assert.Equal(t, uint64(1), created.ID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	require.NoError(t, ledgertest.Update(t, ts.store, func(v *state.State) error {
		return ledgertest.Move(v, 1, ledgertest.Admin, ledgertest.Alice, 10_000)
	}))

	w = ts.do(t, http.MethodPut, "/v1/kyc/"+string(ledgertest.Alice), ledgertest.Authority, 2, map[string]interface{}{
		"approved": true, "level": 1, "expiry": 1_000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/v1/assets/1/dividends", ledgertest.Admin, 3, map[string]interface{}{"amount": 10_000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/v1/assets/1/claims", ledgertest.Alice, 4, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/v1/assets/1/claims/"+string(ledgertest.Alice), "", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var last struct {
		Amount uint64 `json:"amount"`
	}
	decodeData(t, w, &last)
	assert.Equal(t, uint64(10_000), last.Amount)

	w = ts.do(t, http.MethodGet, "/v1/assets/1/supply", "", 0, nil)
	var supply struct {
		Amount uint64 `json:"amount"`
	}
	decodeData(t, w, &supply)
	assert.Equal(t, uint64(100_000), supply.Amount)

	w = ts.do(t, http.MethodGet, "/v1/assets/1", "", 0, nil)
	var asset types.Asset
	decodeData(t, w, &asset)
	assert.Equal(t, uint64(10_000), asset.TotalDividends)
	assert.Equal(t, ledgertest.Admin, asset.Owner)
}

func TestLedgerErrorsMapToStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name    string
		method  string
		path    string
		caller  types.Address
		body    interface{}
		status  int
		code    string
		numeric uint32
	}{
		{"owner only", http.MethodPost, "/v1/assets", ledgertest.Bob, map[string]interface{}{"metadata_uri": "ipfs://x", "asset_value": 5_000}, http.StatusForbidden, "OwnerOnly", 100},
		{"invalid value", http.MethodPost, "/v1/assets", ledgertest.Admin, map[string]interface{}{"metadata_uri": "ipfs://x", "asset_value": 1}, http.StatusBadRequest, "InvalidValue", 111},
		{"invalid caller", http.MethodPost, "/v1/assets", "0OIl", map[string]interface{}{"metadata_uri": "ipfs://x", "asset_value": 5_000}, http.StatusBadRequest, "InvalidAddress", 116},
		{"missing caller", http.MethodPost, "/v1/assets/1/claims", "", nil, http.StatusBadRequest, "InvalidAddress", 116},
		{"kyc required", http.MethodPost, "/v1/assets/1/claims", ledgertest.Bob, nil, http.StatusForbidden, "KycRequired", 105},
		{"unknown proposal", http.MethodPost, "/v1/proposals/9/votes", ledgertest.Bob, map[string]interface{}{"vote_for": true, "amount": 1}, http.StatusNotFound, "NotFound", 101},
		{"not an oracle", http.MethodPost, "/v1/assets/1/price", ledgertest.Bob, map[string]interface{}{"price": 1, "decimals": 2}, http.StatusForbidden, "NotAuthorized", 104},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.caller, 10, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.numeric, env.Error.Numeric)
			assert.NotEmpty(t, env.Error.Message)
			assert.NotEmpty(t, env.RequestID+w.Header().Get("X-Request-ID"))
		})
	}
}

func TestProposalVoteWindowOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/v1/assets", ledgertest.Admin, 1, map[string]interface{}{"metadata_uri": "ipfs://a", "asset_value": 5_000})
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(t, http.MethodPut, "/v1/kyc/"+string(ledgertest.Admin), ledgertest.Authority, 1, map[string]interface{}{"approved": true, "level": 1, "expiry": 5_000})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/proposals", ledgertest.Admin, 100, map[string]interface{}{
		"asset_id": 1, "title": "Refinance", "duration": 50, "minimum_votes": 50_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/v1/proposals/1/votes", ledgertest.Admin, 151, map[string]interface{}{"vote_for": true, "amount": 10})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "VoteEnded", decode(t, w).Error.Code)

	w = ts.do(t, http.MethodPost, "/v1/proposals/1/votes", ledgertest.Admin, 150, map[string]interface{}{"vote_for": true, "amount": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/v1/proposals/1?height=151", "", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ID       uint64 `json:"proposal_id"`
		VotesFor uint64 `json:"votes_for"`
		Status   string `json:"status"`
	}
	decodeData(t, w, &view)
	assert.Equal(t, uint64(1), view.ID)
	assert.Equal(t, uint64(10), view.VotesFor)
	assert.Equal(t, "closed", view.Status)

	w = ts.do(t, http.MethodGet, "/v1/proposals/1/votes/"+string(ledgertest.Admin), "", 0, nil)
	var vote types.Vote
	decodeData(t, w, &vote)
	assert.True(t, vote.VoteFor)
	assert.Equal(t, uint64(10), vote.VoteAmount)
}

func TestAbsentRecordsReturnNull(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, path := range []string{
		"/v1/assets/7",
		"/v1/assets/7/price",
		"/v1/proposals/7",
		"/v1/proposals/7/votes/" + string(ledgertest.Alice),
		"/v1/kyc/" + string(ledgertest.Alice),
	} {
		w := ts.do(t, http.MethodGet, path, "", 0, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "null", string(decode(t, w).Data), path)
	}
}

func TestPriceFreshnessQuery(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodPost, "/v1/assets", ledgertest.Admin, 1, map[string]interface{}{"metadata_uri": "ipfs://a", "asset_value": 5_000})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/assets/1/price", ledgertest.Oracle, 10, map[string]interface{}{"price": 99, "decimals": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/v1/assets/1/price?fresh_at=154", "", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodGet, "/v1/assets/1/price?fresh_at=155", "", 0, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, uint64(108), uint64(decode(t, w).Error.Numeric))
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/v1/assets/abc", "", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode(t, w).Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/assets", strings.NewReader(`{}`))
	req.Header.Set("X-Caller", string(ledgertest.Admin))
	w = httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing X-Height")

	req = httptest.NewRequest(http.MethodPost, "/v1/assets", strings.NewReader(`{"asset_value": -1}`))
	req.Header.Set("X-Caller", string(ledgertest.Admin))
	req.Header.Set("X-Height", "1")
	w = httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode(t, w).Error.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", "", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = ts.do(t, http.MethodGet, "/metrics", "", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rwa_api_requests_total")
	assert.Contains(t, w.Body.String(), "rwa_ledger_calls_total")

	off := newTestServer(t, func(o *apiconfig.APIOptions) { o.EnableMetrics = false })
	w = off.do(t, http.MethodGet, "/metrics", "", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteRateLimit(t *testing.T) {
	ts := newTestServer(t, func(o *apiconfig.APIOptions) { o.WriteRateLimit = 2 })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := ts.do(t, http.MethodPost, "/v1/assets/1/claims", ledgertest.Bob, 1, nil)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusForbidden, http.StatusForbidden, http.StatusTooManyRequests}, codes)

	w := ts.do(t, http.MethodGet, "/v1/assets/1", "", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code, "reads are limited separately")
}

func TestStartStop(t *testing.T) {
	ts := newTestServer(t, func(o *apiconfig.APIOptions) {
		o.Host = "127.0.0.1"
		o.Port = 0
		o.ShutdownTimeout = time.Second
	})
	require.NoError(t, ts.server.Start())
	addr := ts.server.Addr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, ts.server.Stop(context.Background()))
}
