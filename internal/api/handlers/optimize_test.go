package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/internal/optimizer"
	"github.com/wonny/stacker/pkg/logger"
	"github.com/wonny/stacker/pkg/redis"
)

func testPool(t *testing.T, n int) []contracts.Candidate {
	t.Helper()
	positions := []string{"PG", "SG", "SF", "PF", "C"}
	pool := make([]contracts.Candidate, 0, n)
	for i := 0; i < n; i++ {
		c := contracts.Candidate{
			ID:         fmt.Sprintf("p%02d", i),
			Positions:  positions[i%len(positions)],
			Salary:     5500 + (i%8)*200,
			Projection: 20 + float64(i%10)*1.5,
		}
		require.NoError(t, c.Normalize())
		pool = append(pool, c)
	}
	return pool
}

func newTestHandler(t *testing.T) *OptimizeHandler {
	t.Helper()
	log := logger.NewNop()
	store := NewSlateStore(redis.Disabled())
	return NewOptimizeHandler(optimizer.New(log), store, log)
}

func postOptimize(t *testing.T, h *OptimizeHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", &buf)
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)
	return rec
}

func TestOptimize_ReturnsResult(t *testing.T) {
	h := newTestHandler(t)
	rec := postOptimize(t, h, contracts.OptimizeRequest{
		Candidates: testPool(t, 24),
		Config: contracts.OptimizeConfig{
			LineupCount: 5,
			CostCap:     50_000,
			MaxUnspent:  5_000,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var ev contracts.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ev))
	assert.Equal(t, contracts.EventResult, ev.Type)
	assert.Len(t, ev.Lineups, 5)
	for _, l := range ev.Lineups {
		assert.LessOrEqual(t, l.TotalSalary, 50_000)
	}
}

func TestOptimize_BadBody(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_ValidationFailure(t *testing.T) {
	h := newTestHandler(t)
	rec := postOptimize(t, h, contracts.OptimizeRequest{
		Candidates: testPool(t, 3), // below the roster size
		Config:     contracts.OptimizeConfig{LineupCount: 5, CostCap: 50_000},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var ev contracts.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ev))
	assert.Equal(t, contracts.EventError, ev.Type)
	assert.NotEmpty(t, ev.Message)
}

func TestOptimize_SlateRefWithCacheDisabled(t *testing.T) {
	h := newTestHandler(t)
	rec := postOptimize(t, h, contracts.OptimizeRequest{
		SlateID: "some-slate",
		Config:  contracts.OptimizeConfig{LineupCount: 5, CostCap: 50_000},
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOptimize_InlineCandidatesSkipSlateLookup(t *testing.T) {
	// inline pool wins over the slate reference, so a disabled cache is fine
	h := newTestHandler(t)
	rec := postOptimize(t, h, contracts.OptimizeRequest{
		SlateID:    "ignored",
		Candidates: testPool(t, 24),
		Config: contracts.OptimizeConfig{
			LineupCount: 3,
			CostCap:     50_000,
			MaxUnspent:  5_000,
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func dialWS(t *testing.T, h *OptimizeHandler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.OptimizeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOptimizeWS_StreamsEvents(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	require.NoError(t, conn.WriteJSON(contracts.OptimizeRequest{
		Candidates: testPool(t, 24),
		Config: contracts.OptimizeConfig{
			LineupCount: 3,
			CostCap:     50_000,
			MaxUnspent:  5_000,
		},
	}))

	progress := 0
	for {
		var ev contracts.Event
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Type == contracts.EventProgress {
			progress++
			continue
		}
		require.Equal(t, contracts.EventResult, ev.Type)
		assert.Len(t, ev.Lineups, 3)
		break
	}
	assert.Equal(t, 3, progress, "one progress frame per lineup")
}

func TestOptimizeWS_SlateRefWithCacheDisabled(t *testing.T) {
	// same message over both transports when the cache is off
	conn := dialWS(t, newTestHandler(t))

	require.NoError(t, conn.WriteJSON(contracts.OptimizeRequest{
		SlateID: "some-slate",
		Config:  contracts.OptimizeConfig{LineupCount: 3, CostCap: 50_000},
	}))

	var ev contracts.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, contracts.EventError, ev.Type)
	assert.Equal(t, "slate cache is disabled", ev.Message)
}

func TestOptimizeWS_BadFrame(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var ev contracts.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, contracts.EventError, ev.Type)
	assert.Contains(t, ev.Message, "invalid request frame")
}

func TestSlateCreate_CacheDisabled(t *testing.T) {
	log := logger.NewNop()
	h := NewSlateHandler(NewSlateStore(redis.Disabled()), log)

	req := httptest.NewRequest(http.MethodPost, "/api/slates", strings.NewReader("[]"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSlateGet_CacheDisabled(t *testing.T) {
	log := logger.NewNop()
	h := NewSlateHandler(NewSlateStore(redis.Disabled()), log)

	req := httptest.NewRequest(http.MethodGet, "/api/slates/abc", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
