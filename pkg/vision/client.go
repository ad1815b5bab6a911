// Package vision wraps the hosted vision model behind the structured
// extraction contract the engine consumes. The engine never interprets
// pixels; it sees only these result types.
package vision

import (
	"context"
)

// Client defines the vision extraction operations used by the
// synthesis pipeline.
type Client interface {
	ExtractLabel(ctx context.Context, image []byte, requestID string) (*LabelResult, error)
	ReadBarcode(ctx context.Context, image []byte, requestID string) (*BarcodeResult, error)
	EstimateWeight(ctx context.Context, image []byte, category, requestID string) (*WeightResult, error)
	CountCasePack(ctx context.Context, image []byte, requestID string) (*CasePackResult, error)
	ClassifyCustoms(ctx context.Context, productName, category, requestID string) (*CustomsResult, error)
}

// LabelResult is the structured label extraction payload.
type LabelResult struct {
	Success       bool     `json:"success"`
	OriginCountry string   `json:"origin_country"`
	NetWeight     string   `json:"net_weight"`
	Allergens     []string `json:"allergens"`
	Brand         string   `json:"brand"`
	ProductName   string   `json:"product_name"`
	Confidence    float64  `json:"confidence"`
	Snippet       string   `json:"snippet"`
}

// BarcodeResult is the structured barcode read payload.
type BarcodeResult struct {
	Success    bool    `json:"success"`
	Barcode    string  `json:"barcode"`
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// WeightResult is the structured weight estimate payload.
type WeightResult struct {
	Success    bool    `json:"success"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"` // "g", "kg", or "ml"
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// CasePackResult carries candidate units-per-case counts.
type CasePackResult struct {
	Success    bool    `json:"success"`
	Counts     []int   `json:"counts"`
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// CustomsResult is the reasoning-based customs classification payload.
type CustomsResult struct {
	Success    bool          `json:"success"`
	Category   string        `json:"category"`
	Candidates []HSCandidate `json:"candidates"`
	Confidence float64       `json:"confidence"`
}

// HSCandidate is one candidate HS code with its rationale.
type HSCandidate struct {
	HSCode     string  `json:"hs_code"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}
