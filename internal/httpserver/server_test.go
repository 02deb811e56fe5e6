package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/pricing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *pricing.Estimator) {
	art, err := pricing.LoadArtifact("../pricing/testdata/artifact.json")
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	est := pricing.NewEstimator(art, pricing.Options{KeyRate: 21, DeviationFraction: 0.08}, logger)
	return New(0, est, catalog.Districts(), catalog.ApartmentTypes(), logger), est
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bot is running", rec.Body.String())
}

func TestPredict(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, http.MethodPost, "/api/v1/predict",
		`{"district":36,"area":65,"apartment_type":2,"current_floor":5,"total_floors":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7_800_000), resp.PredictedPrice)
	assert.Equal(t, int64(624_000), resp.Deviation)
	assert.Equal(t, "7 800 000", resp.PriceText)
	assert.Equal(t, "linear-test-1", resp.ModelVersion)
	require.NotNil(t, resp.MAPE)
	assert.InDelta(t, 0.11, *resp.MAPE, 1e-9)
}

func TestPredictRejectsBadInput(t *testing.T) {
	s, est := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"missing field", `{"district":36,"area":65,"apartment_type":2,"current_floor":5}`, http.StatusBadRequest},
		{"unknown district", `{"district":99,"area":65,"apartment_type":2,"current_floor":5,"total_floors":10}`, http.StatusUnprocessableEntity},
		{"negative area", `{"district":36,"area":-1,"apartment_type":2,"current_floor":5,"total_floors":10}`, http.StatusUnprocessableEntity},
		{"floor above building", `{"district":36,"area":65,"apartment_type":2,"current_floor":11,"total_floors":10}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/v1/predict", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
	assert.False(t, est.Degraded(), "rejected input never reaches the model")
}

func TestHealthz(t *testing.T) {
	s, est := newTestServer(t)

	rec := do(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	// A district code the artifact does not know is a schema failure.
	art, err := pricing.LoadArtifact("../pricing/testdata/artifact.json")
	require.NoError(t, err)
	delete(art.Districts, 36)
	degraded := pricing.NewEstimator(art, pricing.Options{KeyRate: 21}, zaptest.NewLogger(t))
	s = New(0, degraded, catalog.Districts(), catalog.ApartmentTypes(), zaptest.NewLogger(t))

	rec = do(s, http.MethodPost, "/api/v1/predict",
		`{"district":36,"area":65,"apartment_type":2,"current_floor":5,"total_floors":10}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.False(t, est.Degraded())
}

func TestDistricts(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, http.MethodGet, "/api/v1/districts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["districts"], 36)
	assert.Len(t, resp["apartment_types"], 5)
	assert.Equal(t, entry{Code: 36, Label: "Центр 🏙️"}, resp["districts"][0])
}

func TestWebhookRoute(t *testing.T) {
	s, _ := newTestServer(t)
	var hits atomic.Int32
	s.HandleWebhook("s3cret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, do(s, http.MethodPost, "/telegram/s3cret", "{}").Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodPost, "/telegram/guess", "{}").Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestKeepAlivePings(t *testing.T) {
	var pings atomic.Int32
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			pings.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewKeepAlive(target.URL+"/", 10*time.Millisecond, zaptest.NewLogger(t)).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return pings.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
