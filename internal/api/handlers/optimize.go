package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/internal/optimizer"
	"github.com/wonny/stacker/pkg/logger"
)

// OptimizeHandler exposes the lineup generator over HTTP. The synchronous
// endpoint drains the event stream and returns only the terminal event; the
// websocket endpoint forwards every event as its own frame.
type OptimizeHandler struct {
	generator *optimizer.Generator
	slates    *SlateStore
	upgrader  websocket.Upgrader
	log       *logger.Logger
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(gen *optimizer.Generator, slates *SlateStore, log *logger.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		generator: gen,
		slates:    slates,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		log: log,
	}
}

// Optimize handles POST /api/optimize
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req contracts.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if status, msg := h.resolveSlate(r, &req); status != 0 {
		writeError(w, status, msg)
		return
	}

	var terminal contracts.Event
	for ev := range h.generator.Generate(r.Context(), req) {
		if ev.Terminal() {
			terminal = ev
		}
	}

	if terminal.Type == contracts.EventError {
		writeJSON(w, http.StatusUnprocessableEntity, terminal)
		return
	}
	writeJSON(w, http.StatusOK, terminal)
}

// OptimizeWS handles GET /api/optimize/ws. The client sends one
// OptimizeRequest frame and receives every solver event as JSON until the
// terminal result or error.
func (h *OptimizeHandler) OptimizeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req contracts.OptimizeRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(contracts.Event{
			Type:    contracts.EventError,
			Message: "invalid request frame: " + err.Error(),
		})
		return
	}

	if _, msg := h.resolveSlate(r, &req); msg != "" {
		conn.WriteJSON(contracts.Event{Type: contracts.EventError, Message: msg})
		return
	}

	// Cancelling on return releases the generator when the client goes away
	// mid-batch; nobody drains the rest of the stream after that.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for ev := range h.generator.Generate(ctx, req) {
		if err := conn.WriteJSON(ev); err != nil {
			h.log.WithError(err).Debug("Websocket client went away")
			return
		}
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// resolveSlate swaps a SlateID reference for its cached pool. Transport
// neutral: status 0 means resolved (or nothing to resolve), otherwise the
// HTTP status and message describe the failure and the websocket side carries
// the same message in its error frame.
func (h *OptimizeHandler) resolveSlate(r *http.Request, req *contracts.OptimizeRequest) (int, string) {
	if req.SlateID == "" || len(req.Candidates) > 0 {
		return 0, ""
	}
	if !h.slates.Enabled() {
		return http.StatusServiceUnavailable, "slate cache is disabled"
	}
	pool, ok, err := h.slates.Get(r, req.SlateID)
	if err != nil {
		h.log.WithError(err).Error("Failed to load slate")
		return http.StatusInternalServerError, "failed to load slate"
	}
	if !ok {
		return http.StatusNotFound, "slate not found: " + req.SlateID
	}
	req.Candidates = pool
	return 0, ""
}
