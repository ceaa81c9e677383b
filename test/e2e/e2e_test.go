// test/e2e/e2e_test.go

// End-to-end coverage of the service path: HTTP in, schema validation,
// analysis, write-through cache, cached read back out.
package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/api"
	"credit-engine/internal/common/cache"
	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/engine"
	"credit-engine/internal/models"
	"credit-engine/internal/predictor"
)

// ==========================
// Test Helper Functions
// ==========================

func newService(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Address = mr.Addr()

	client, err := cache.New(cfg.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	eng := engine.New(cfg, predictor.NewFallback(log), client, cache.IsMiss, log)
	srv := api.NewServer(cfg, eng, client, nil, log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, mr
}

func bundleJSON() string {
	now := time.Now().UTC()
	var incomes []string
	for i := 0; i < 12; i++ {
		ts := now.AddDate(0, i-12, 0).Format(time.RFC3339)
		incomes = append(incomes, fmt.Sprintf(`{"amount": 15000, "timestamp": %q}`, ts))
	}
	return fmt.Sprintf(`{
		"incomes": [%s],
		"deposits": [{"amount": 2000, "timestamp": %q}],
		"loans": [{"amount": 5000, "credit_limit": 10000, "status": "active",
			"opened_at": %q,
			"payments": [
				{"amount": 500, "paid_at": %q, "on_time": true},
				{"amount": 500, "paid_at": %q, "on_time": true}
			]}]
	}`,
		strings.Join(incomes, ","),
		now.AddDate(0, -2, 0).Format(time.RFC3339),
		now.AddDate(-1, 0, 0).Format(time.RFC3339),
		now.AddDate(0, -2, 0).Format(time.RFC3339),
		now.AddDate(0, -1, 0).Format(time.RFC3339),
	)
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ==========================
// Tests
// ==========================

func TestScoreThenReadCached(t *testing.T) {
	ts, _ := newService(t)

	resp, err := http.Post(ts.URL+"/api/v1/users/e2e-user/score", "application/json", strings.NewReader(bundleJSON()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis models.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, "e2e-user", analysis.Result.UserID)
	assert.GreaterOrEqual(t, analysis.Result.CreditScore, models.MinCreditScore)
	assert.LessOrEqual(t, analysis.Result.CreditScore, models.MaxCreditScore)

	// The cache write is asynchronous; the read endpoint serves it once it
	// lands.
	var cached models.ScoreResult
	require.Eventually(t, func() bool {
		return getJSON(t, ts.URL+"/api/v1/users/e2e-user/score", &cached) == http.StatusOK
	}, 2*time.Second, 25*time.Millisecond)

	assert.Equal(t, analysis.Result.AnalysisID, cached.AnalysisID)
	assert.Equal(t, analysis.Result.CreditScore, cached.CreditScore)
}

func TestCachedReadMissIs404(t *testing.T) {
	ts, _ := newService(t)
	code := getJSON(t, ts.URL+"/api/v1/users/unknown/score", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInvalidBundleRejected(t *testing.T) {
	ts, _ := newService(t)

	resp, err := http.Post(ts.URL+"/api/v1/users/e2e-user/score", "application/json",
		strings.NewReader(`{"incomes": [{"amount": "abc", "timestamp": "not-a-date"}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthReportsCache(t *testing.T) {
	ts, mr := newService(t)

	var status map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/health", &status))
	assert.Equal(t, "ok", status["cache"])

	mr.Close()
	status = map[string]interface{}{}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/health", &status))
	assert.Equal(t, "unavailable", status["cache"])
}
