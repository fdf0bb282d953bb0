package api

import "net/http"

// OptionsHandler serves the form choices.
type OptionsHandler struct {
	deps OptionsProvider
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsProvider) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleOptions handles GET /api/options requests.
func (h *OptionsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Options())
}
