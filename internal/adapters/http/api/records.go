package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/internal/domain/types"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// RecordsHandler handles record submission and history requests.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleRecords dispatches /api/records by method.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.HandlePostRecord(w, r)
	case http.MethodGet:
		h.HandleGetHistory(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	}
}

// HandlePostRecord handles POST /api/records requests.
func (h *RecordsHandler) HandlePostRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_record"
	var req types.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFault(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := toSubmission(req)
	if err != nil {
		writeFault(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.SubmitResponse{
		Message: SavedMessage(rec.Category),
		Record:  types.FromRecord(rec),
	})
}

// HandleGetHistory handles GET /api/records requests.
func (h *RecordsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.History(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromReport(report))
}

// SavedMessage is the confirmation shown after a record is stored.
func SavedMessage(category string) string {
	return fmt.Sprintf("저장 완료! 항목: [%s]", category)
}

func toSubmission(req types.Submission) (model.Submission, error) {
	sub := model.Submission{
		BikeModel:      req.BikeModel,
		MileageKM:      req.MileageKM,
		PresetCategory: req.PresetCategory,
		ManualCategory: req.ManualCategory,
		Details:        req.Details,
		Cost:           req.Cost,
	}
	if d := strings.TrimSpace(req.Date); d != "" {
		t, err := time.ParseInLocation(model.DateLayout, d, time.Local)
		if err != nil {
			return model.Submission{}, fmt.Errorf("date must be YYYY-MM-DD: %q", d)
		}
		sub.Date = t
	}
	return sub, nil
}
