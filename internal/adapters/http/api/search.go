package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/domain/types"
)

// SearchHandler handles manual search requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles POST /api/search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	var req types.SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFault(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Search(r.Context(), search.Query{Keyword: req.Keyword, Model: req.Model, Symptom: req.Symptom})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FromResult(res))
}

// HandleClearCache handles DELETE /api/search/cache requests.
func (h *SearchHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	h.deps.ClearSearchCache(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{Status: "cleared"})
}

// FromResult converts a search result to its wire form.
func FromResult(res search.Result) types.SearchResult {
	switch v := res.(type) {
	case search.Structured:
		out := types.SearchResult{Kind: v.Kind(), Summary: v.Summary}
		for _, l := range v.Links {
			out.Links = append(out.Links, types.Link{Title: l.Title, URL: l.URL})
		}
		return out
	case search.Unstructured:
		return types.SearchResult{Kind: v.Kind(), Text: v.Text}
	default:
		return types.SearchResult{}
	}
}
