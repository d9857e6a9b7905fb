package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/htlc-backend/internal/address"
	"github.com/dwarvesf/htlc-backend/internal/bank"
	"github.com/dwarvesf/htlc-backend/internal/controller"
	"github.com/dwarvesf/htlc-backend/internal/handler"
	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/store"
	"github.com/dwarvesf/htlc-backend/internal/store/memory"
	"github.com/dwarvesf/htlc-backend/internal/types/environments"
	"github.com/dwarvesf/htlc-backend/internal/utils/clock"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const (
	start    uint64 = 1_700_000_000
	alice           = "0x1111111111111111111111111111111111111111"
	bob             = "0x2222222222222222222222222222222222222222"
	contract        = "0x9999999999999999999999999999999999999999"
)

type testServer struct {
	router *gin.Engine
	clock  *clock.Fixed
}

func newTestServer(t *testing.T, env environments.Environment) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: env,
		Store:       config.StoreConfig{Backend: "memory"},
		Faucet:      config.FaucetConfig{Enabled: true},
		HTLC:        config.HTLCConfig{ContractAddress: contract},
	}
	log := logger.NewNop()
	registry := prometheus.NewRegistry()

	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)
	swapMetrics := monitoring.NewSwapMetrics()
	swapMetrics.MustRegister(registry)

	db := memory.New()
	s := store.New()
	clk := clock.NewFixed(start)
	ctrl := controller.New(
		db,
		htlc.NewEngine(htlc.DefaultConfig(), s, address.NewEVM()),
		bank.New(s, contract),
		address.NewEVM(),
		clk,
		monitoring.NewBusinessMetricsRecorder(httpMetrics),
		swapMetrics,
		nil,
		log,
		cfg,
	)
	jsm := monitoring.NewJobStatusManager(log, monitoring.NewBackgroundJobMetrics())

	h := handler.New(cfg, log, ctrl, db, registry, jsm)
	return &testServer{router: NewHttpServer(cfg, log, h, httpMetrics), clock: clk}
}

func (s *testServer) do(t *testing.T, method, path, caller, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("X-Account-Address", caller)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

func TestServer_SwapLifecycle(t *testing.T) {
	s := newTestServer(t, environments.Test)

	w, _ := s.do(t, "POST", "/api/v1/accounts/"+alice+"/deposit", "", `{"coins":[{"denom":"uatom","amount":"1000"}]}`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	w, resp := s.do(t, "POST", "/api/v1/htlc/secrets", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	secret := data(t, resp)["secret"].(string)
	hashlock := data(t, resp)["hashlock"].(string)

	body := `{"hashlock":"` + hashlock + `","timelock":1700003600,"receiver":"` + bob + `","denom":"uatom","amount":"400"}`
	w, resp = s.do(t, "POST", "/api/v1/htlc/swaps", alice, body)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	swapID := data(t, resp)["swap_id"].(string)
	assert.Len(t, swapID, 64)

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps", alice, body)
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	w, resp = s.do(t, "GET", "/api/v1/htlc/swaps/"+swapID+"/withdrawable", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, true, data(t, resp)["withdrawable"])

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/withdraw", bob, `{"preimage":"wrong"}`)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w, resp = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/withdraw", bob, `{"preimage":"`+secret+`"}`)
	require.Equal(t, nethttp.StatusOK, w.Code)
	releases := data(t, resp)["releases"].([]interface{})
	require.Len(t, releases, 1)
	assert.Equal(t, bob, releases[0].(map[string]interface{})["to_address"])

	w, resp = s.do(t, "GET", "/api/v1/htlc/swaps/"+swapID, "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "withdrawn", data(t, resp)["status"])
	assert.Equal(t, secret, data(t, resp)["preimage"])

	w, resp = s.do(t, "GET", "/api/v1/accounts/"+bob+"/balances", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	balances := data(t, resp)["balances"].([]interface{})
	require.Len(t, balances, 1)
	assert.Equal(t, "400", balances[0].(map[string]interface{})["amount"])

	w, resp = s.do(t, "GET", "/api/v1/htlc/users/"+alice+"/swaps", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, []interface{}{swapID}, data(t, resp)["swap_ids"])
}

func TestServer_EmptyPreimage(t *testing.T) {
	s := newTestServer(t, environments.Test)

	w, _ := s.do(t, "POST", "/api/v1/accounts/"+alice+"/deposit", "", `{"coins":[{"denom":"uatom","amount":"10"}]}`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	body := `{"hashlock":"` + model.HashlockOf("") + `","timelock":1700003600,"receiver":"` + bob + `","denom":"uatom","amount":"10"}`
	w, resp := s.do(t, "POST", "/api/v1/htlc/swaps", alice, body)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	swapID := data(t, resp)["swap_id"].(string)

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/withdraw", bob, `{}`)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/withdraw", bob, `{"preimage":""}`)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	w, resp = s.do(t, "GET", "/api/v1/htlc/swaps/"+swapID, "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "withdrawn", data(t, resp)["status"])
}

func TestServer_RefundAfterTimelock(t *testing.T) {
	s := newTestServer(t, environments.Test)

	w, _ := s.do(t, "POST", "/api/v1/accounts/"+alice+"/deposit", "", `{"coins":[{"denom":"uatom","amount":"10"}]}`)
	require.Equal(t, nethttp.StatusOK, w.Code)

	hashlock := model.HashlockOf("secret")
	body := `{"hashlock":"` + hashlock + `","timelock":1700003600,"receiver":"` + bob + `","denom":"uatom","amount":"10"}`
	w, resp := s.do(t, "POST", "/api/v1/htlc/swaps", alice, body)
	require.Equal(t, nethttp.StatusOK, w.Code)
	swapID := data(t, resp)["swap_id"].(string)

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/refund", alice, "")
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	s.clock.Advance(3600)

	w, _ = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/refund", bob, "")
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w, resp = s.do(t, "POST", "/api/v1/htlc/swaps/"+swapID+"/refund", alice, "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, swapID, data(t, resp)["swap_id"])

	w, resp = s.do(t, "GET", "/api/v1/accounts/"+alice+"/balances", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	balances := data(t, resp)["balances"].([]interface{})
	require.Len(t, balances, 1)
	assert.Equal(t, "10", balances[0].(map[string]interface{})["amount"])
}

func TestServer_Plumbing(t *testing.T) {
	s := newTestServer(t, environments.Test)

	w, _ := s.do(t, "GET", "/healthz", "", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "trace-1", rec.Header().Get(RequestIDHeader))

	w, _ = s.do(t, "GET", "/api/v1/health/db", "", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)

	w, _ = s.do(t, "GET", "/api/v1/htlc/swaps/missing", "", "")
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	w, _ = s.do(t, "GET", "/metrics", "", "")
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "htlc_backend_swaps")
	assert.Contains(t, w.Body.String(), "htlc_backend_http_requests_total")
}

func TestServer_NoFaucetInProduction(t *testing.T) {
	s := newTestServer(t, environments.Production)

	w, _ := s.do(t, "POST", "/api/v1/accounts/"+alice+"/deposit", "", `{"coins":[{"denom":"uatom","amount":"10"}]}`)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}
