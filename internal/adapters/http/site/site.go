// Package site serves the server-rendered maintenance log pages.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/bikelog/internal/adapters/http/api"
	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/internal/domain/types"
	"github.com/shopspring/decimal"
)

// Error constants
var (
	ErrRender   = errors.New("page render failed")
	ErrBadInput = errors.New("invalid form input")
)

// Dependencies required by the pages; the API's bundle covers all of them.
type Dependencies = api.Dependencies

// Handler renders the entry, history and manual search pages.
type Handler struct {
	deps  Dependencies
	pages map[string]*template.Template
	now   func() time.Time
}

// NewHandler parses the embedded templates.
func NewHandler(deps Dependencies) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &Handler{deps: deps, pages: pages, now: time.Now}, nil
}

// Register attaches the page routes to mux.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", h.HandleEntry)
	mux.HandleFunc("/records", h.HandleSubmit)
	mux.HandleFunc("/history", h.HandleHistory)
	mux.HandleFunc("/history/reload", h.HandleReload)
	mux.HandleFunc("/manual", h.HandleManual)
	mux.HandleFunc("/manual/clear", h.HandleClearCache)
}

type entryPage struct {
	Tab      string
	Options  types.FormOptions
	Form     types.Submission
	Success  string
	Error    string
	Today    string
	Sentinel bool
}

// HandleEntry handles GET / requests.
func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	page := h.newEntryPage()
	if saved := takeSaved(w, r); saved != "" {
		page.Success = api.SavedMessage(saved)
	}
	h.render(w, http.StatusOK, "entry", page)
}

// HandleSubmit handles POST /records form submissions. On success it
// redirects back to the empty form.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	form := types.Submission{
		Date:           r.PostFormValue("date"),
		BikeModel:      r.PostFormValue("bike_model"),
		PresetCategory: r.PostFormValue("preset_category"),
		ManualCategory: r.PostFormValue("manual_category"),
		Details:        r.PostFormValue("details"),
	}
	sub, err := parseForm(r, form)
	if err != nil {
		page := h.newEntryPage()
		page.Form = form
		page.Error = err.Error()
		h.render(w, http.StatusBadRequest, "entry", page)
		return
	}

	rec, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		status, _ := api.StatusFor(err)
		page := h.newEntryPage()
		page.Form = form
		page.Error = "저장 중 오류 발생: " + err.Error()
		h.render(w, status, "entry", page)
		return
	}
	putSaved(w, rec.Category)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type historyPage struct {
	Tab    string
	Report types.Report
	Error  string
}

// HandleHistory handles GET /history requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	page := historyPage{Tab: "history"}
	report, err := h.deps.History(r.Context())
	if err != nil {
		status, _ := api.StatusFor(err)
		page.Error = "데이터를 불러오지 못했습니다: " + err.Error()
		h.render(w, status, "history", page)
		return
	}
	page.Report = types.FromReport(report)
	h.render(w, http.StatusOK, "history", page)
}

// HandleReload handles POST /history/reload: drop the store connection and
// show fresh data.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.deps.ResetStore(r.Context())
	}
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

type manualPage struct {
	Tab     string
	Options types.FormOptions
	Query   types.SearchRequest
	Result  *types.SearchResult
	Info    string
	Error   string
}

// HandleManual handles GET and POST /manual.
func (h *Handler) HandleManual(w http.ResponseWriter, r *http.Request) {
	opts := h.deps.Options()
	page := manualPage{Tab: "manual", Options: opts}
	if len(opts.BikeModels) > 0 {
		page.Query.Model = opts.BikeModels[0]
	}
	if len(opts.Symptoms) > 0 {
		page.Query.Symptom = opts.Symptoms[0]
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "manual", page)
	case http.MethodPost:
		page.Query = types.SearchRequest{
			Keyword: r.PostFormValue("keyword"),
			Model:   r.PostFormValue("model"),
			Symptom: r.PostFormValue("symptom"),
		}
		res, err := h.deps.Search(r.Context(), search.Query{Keyword: page.Query.Keyword, Model: page.Query.Model, Symptom: page.Query.Symptom})
		if err != nil {
			status, _ := api.StatusFor(err)
			page.Error = "매뉴얼 검색 중 오류가 발생했습니다. 설정과 입력값을 확인하세요. (" + err.Error() + ")"
			h.render(w, status, "manual", page)
			return
		}
		out := api.FromResult(res)
		page.Result = &out
		h.render(w, http.StatusOK, "manual", page)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// HandleClearCache handles POST /manual/clear.
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/manual", http.StatusSeeOther)
		return
	}
	h.deps.ClearSearchCache(r.Context())
	page := manualPage{Tab: "manual", Options: h.deps.Options()}
	page.Info = "검색 결과 캐시를 초기화했습니다. 동일한 쿼리도 새로 조회합니다."
	h.render(w, http.StatusOK, "manual", page)
}

func (h *Handler) newEntryPage() entryPage {
	opts := h.deps.Options()
	return entryPage{
		Tab:      "entry",
		Options:  opts,
		Form:     types.Submission{BikeModel: opts.DefaultBikeModel, PresetCategory: opts.DefaultCategory},
		Today:    h.now().Format(model.DateLayout),
		Sentinel: opts.Sentinel != "",
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := h.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("%s: unknown page %q", ErrRender, name), http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	if err := t.ExecuteTemplate(&b, "layout", data); err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", ErrRender, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.String()))
}

// parseForm reads the numeric fields; empty numbers count as zero.
func parseForm(r *http.Request, form types.Submission) (model.Submission, error) {
	sub := model.Submission{
		BikeModel:      form.BikeModel,
		PresetCategory: form.PresetCategory,
		ManualCategory: form.ManualCategory,
		Details:        form.Details,
	}
	if d := strings.TrimSpace(form.Date); d != "" {
		t, err := time.ParseInLocation(model.DateLayout, d, time.Local)
		if err != nil {
			return sub, fmt.Errorf("%w: 날짜 형식은 YYYY-MM-DD 입니다", ErrBadInput)
		}
		sub.Date = t
	}
	if s := strings.TrimSpace(r.PostFormValue("mileage_km")); s != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return sub, fmt.Errorf("%w: 주행거리는 숫자여야 합니다", ErrBadInput)
		}
		sub.MileageKM = v
	}
	if s := strings.TrimSpace(r.PostFormValue("cost")); s != "" {
		v, err := model.ParseMoney(s)
		if err != nil {
			return sub, fmt.Errorf("%w: 비용은 숫자여야 합니다", ErrBadInput)
		}
		sub.Cost = v
	} else {
		sub.Cost = decimal.Zero
	}
	return sub, nil
}
