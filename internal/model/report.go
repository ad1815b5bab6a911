package model

import "time"

// ReportStatus represents the current state of a sourcing report.
type ReportStatus string

const (
	ReportStatusDraft        ReportStatus = "draft"
	ReportStatusSynthesizing ReportStatus = "synthesizing"
	ReportStatusDecided      ReportStatus = "decided"
	ReportStatusFailed       ReportStatus = "failed"
)

// InputStatus records which evidence inputs were supplied with the
// report, before any extraction ran.
type InputStatus struct {
	BarcodePhoto   bool `json:"barcode_photo"`
	LabelPhoto     bool `json:"label_photo"`
	PackagePhoto   bool `json:"package_photo"`
	BoxPhoto       bool `json:"box_photo"`
	WeightProvided bool `json:"weight_provided"`
	OriginProvided bool `json:"origin_provided"`
}

// CostRange is the landed-cost baseline attached to a report.
type CostRange struct {
	Min  float64 `json:"min"`
	Best float64 `json:"best"`
	Max  float64 `json:"max"`
}

// Baseline holds the pre-synthesis cost picture for a report.
type Baseline struct {
	CostRange   CostRange `json:"cost_range"`
	TargetPrice *float64  `json:"target_price,omitempty"`
}

// Report is the persisted report entity this engine reads and decorates
// with a decision-support record.
type Report struct {
	ID          string       `json:"id"`
	Status      ReportStatus `json:"status"`
	Category    string       `json:"category"`
	ProductName string       `json:"product_name,omitempty"`
	Baseline    Baseline     `json:"baseline"`
	Signals     Signals      `json:"signals"`
	InputStatus InputStatus  `json:"input_status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
