package handler

import (
	"net/http"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
)

// PassSource exposes the most recent pass result.
type PassSource interface {
	LastPass() *domain.PassResult
}

// StatusHandler handles the pass status endpoint.
type StatusHandler struct {
	passes PassSource
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(passes PassSource) *StatusHandler {
	return &StatusHandler{passes: passes}
}

// Get returns the most recent pass result.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	last := h.passes.LastPass()
	if last == nil {
		respondError(w, http.StatusNotFound, "no pass has run yet")
		return
	}
	respondJSON(w, http.StatusOK, last)
}
