package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/internal/feed"
	"github.com/wonny/stacker/pkg/logger"
	"github.com/wonny/stacker/pkg/redis"
)

// slateTTL bounds how long an uploaded pool survives between calls. Slates
// are a hand-off convenience, not storage.
const slateTTL = 24 * time.Hour

// SlateStore keeps uploaded candidate pools in the redis cache so API callers
// can reference them by id instead of re-sending the pool on every optimize
// call. ⭐ SSOT: 슬레이트 캐싱은 여기서만
type SlateStore struct {
	cache *redis.Cache
}

// NewSlateStore creates a slate store over the shared redis client.
func NewSlateStore(client *redis.Client) *SlateStore {
	return &SlateStore{cache: redis.NewCache(client, "stacker:slate")}
}

// Enabled reports whether the backing cache is live.
func (s *SlateStore) Enabled() bool {
	return s.cache.Enabled()
}

// Put stores a candidate pool under the given id.
func (s *SlateStore) Put(r *http.Request, id string, pool []contracts.Candidate) error {
	return s.cache.Set(r.Context(), id, pool, slateTTL)
}

// Get loads a candidate pool; ok is false when the slate is missing or expired.
func (s *SlateStore) Get(r *http.Request, id string) ([]contracts.Candidate, bool, error) {
	var pool []contracts.Candidate
	ok, err := s.cache.Get(r.Context(), id, &pool)
	if err != nil || !ok {
		return nil, false, err
	}
	// Masks do not survive JSON; rebuild them.
	for i := range pool {
		if err := pool[i].Normalize(); err != nil {
			return nil, false, err
		}
	}
	return pool, true, nil
}

// SlateHandler handles slate upload and retrieval
type SlateHandler struct {
	store *SlateStore
	log   *logger.Logger
}

// NewSlateHandler creates a new slate handler
func NewSlateHandler(store *SlateStore, log *logger.Logger) *SlateHandler {
	return &SlateHandler{store: store, log: log}
}

// Create handles POST /api/slates. The body is either a candidate CSV
// (Content-Type text/csv) or a JSON array of candidates.
func (h *SlateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.store.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "slate cache is disabled")
		return
	}

	var (
		pool []contracts.Candidate
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		pool, err = feed.ReadCSV(r.Body)
	} else {
		pool, err = feed.ReadJSON(r.Body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pool) == 0 {
		writeError(w, http.StatusBadRequest, "empty candidate pool")
		return
	}

	id := uuid.NewString()
	if err := h.store.Put(r, id, pool); err != nil {
		h.log.WithError(err).Error("Failed to store slate")
		writeError(w, http.StatusInternalServerError, "failed to store slate")
		return
	}

	h.log.WithFields(map[string]interface{}{
		"slate_id":   id,
		"candidates": len(pool),
	}).Info("Slate stored")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"slateId":    id,
		"candidates": len(pool),
	})
}

// Get handles GET /api/slates/{id}
func (h *SlateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.store.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "slate cache is disabled")
		return
	}

	id := mux.Vars(r)["id"]
	pool, ok, err := h.store.Get(r, id)
	if err != nil {
		h.log.WithError(err).Error("Failed to load slate")
		writeError(w, http.StatusInternalServerError, "failed to load slate")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "slate not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slateId":    id,
		"candidates": pool,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
