// Package types contains the wire shapes shared by the HTTP API and its clients
package types

import (
	"github.com/okian/bikelog/internal/domain/history"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Record is the JSON form of a maintenance record.
type Record struct {
	Date       string          `json:"date"`
	BikeModel  string          `json:"bike_model"`
	MileageKM  float64         `json:"mileage_km"`
	Category   string          `json:"category"`
	Details    string          `json:"details"`
	Cost       decimal.Decimal `json:"cost"`
	RecordedAt string          `json:"recorded_at"`
}

// Submission is the JSON body of POST /api/records. Date is optional.
type Submission struct {
	Date           string          `json:"date,omitempty"`
	BikeModel      string          `json:"bike_model"`
	MileageKM      float64         `json:"mileage_km"`
	PresetCategory string          `json:"preset_category"`
	ManualCategory string          `json:"manual_category,omitempty"`
	Details        string          `json:"details,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
}

// SubmitResponse acknowledges a stored record.
type SubmitResponse struct {
	Message string `json:"message"`
	Record  Record `json:"record"`
}

// Report is the JSON form of the history view.
type Report struct {
	Records    []Record        `json:"records"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	TotalCount int             `json:"total_count"`
	MostRecent *Record         `json:"most_recent"`
}

// SearchRequest is the JSON body of POST /api/search.
type SearchRequest struct {
	Keyword string `json:"keyword"`
	Model   string `json:"model"`
	Symptom string `json:"symptom"`
}

// Link is a suggested reference document; URL may be empty.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// SearchResult carries either Summary/Links (kind "structured") or Text
// (kind "unstructured").
type SearchResult struct {
	Kind    string `json:"kind"`
	Summary string `json:"summary,omitempty"`
	Links   []Link `json:"links,omitempty"`
	Text    string `json:"text,omitempty"`
}

// FormOptions are the choices offered by the entry and search forms.
type FormOptions struct {
	CategoryMode     string   `json:"category_mode"`
	Sentinel         string   `json:"sentinel,omitempty"`
	Presets          []string `json:"presets"`
	DefaultCategory  string   `json:"default_category"`
	DefaultBikeModel string   `json:"default_bike_model"`
	BikeModels       []string `json:"bike_models"`
	Symptoms         []string `json:"symptoms"`
	SearchEnabled    bool     `json:"search_enabled"`
}

// FromRecord converts a domain record. Zero dates render as "".
func FromRecord(r model.Record) Record {
	out := Record{
		BikeModel: r.BikeModel,
		MileageKM: r.MileageKM,
		Category:  r.Category,
		Details:   r.Details,
		Cost:      r.Cost,
	}
	if !r.Date.IsZero() {
		out.Date = r.Date.Format(model.DateLayout)
	}
	if !r.RecordedAt.IsZero() {
		out.RecordedAt = r.RecordedAt.Format(model.RecordedAtLayout)
	}
	return out
}

// FromReport converts a history report.
func FromReport(rep history.Report) Report {
	out := Report{
		Records:    make([]Record, len(rep.Records)),
		TotalCost:  rep.TotalCost,
		TotalCount: rep.TotalCount,
	}
	for i, r := range rep.Records {
		out.Records[i] = FromRecord(r)
	}
	if rep.MostRecent != nil {
		mr := FromRecord(*rep.MostRecent)
		out.MostRecent = &mr
	}
	return out
}
