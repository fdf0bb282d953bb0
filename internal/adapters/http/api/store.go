package api

import "net/http"

// StoreHandler handles store maintenance requests.
type StoreHandler struct {
	deps StoreDependencies
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(deps StoreDependencies) *StoreHandler {
	return &StoreHandler{deps: deps}
}

// HandleReset handles POST /api/store/reset requests.
func (h *StoreHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	h.deps.ResetStore(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}
