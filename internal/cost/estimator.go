// Package cost estimates the provider spend of a generation request
// before any provider is called. Estimation is pure: it reads the
// request and the configured unit prices and never performs IO.
package cost

import (
	"math"

	"inkwell/internal/config"
	"inkwell/internal/session"
	"inkwell/internal/stage"
)

// LineItem is the estimated spend of one pipeline stage.
type LineItem struct {
	StageID  string  `json:"stage_id"`
	Name     string  `json:"name"`
	Enabled  bool    `json:"enabled"`
	UnitCost float64 `json:"unit_cost"`
	Cost     float64 `json:"cost"`
}

// Estimate is the full cost breakdown for a request.
type Estimate struct {
	Lines []LineItem `json:"lines"`
	Total float64    `json:"total"`
}

// ForRequest computes the cost estimate for a request against the
// configured unit prices. Disabled optional stages appear as zero-cost
// lines so callers can render the full breakdown; mandatory stages are
// always counted. The total is rounded to whole cents.
func ForRequest(req session.GenerationRequest, pricing config.Pricing) Estimate {
	var estimate Estimate
	for _, descriptor := range stage.All() {
		enabled := descriptor.Mandatory() || req.StageEnabled(descriptor.ID)
		unit := unitPrice(descriptor.PriceKey, pricing)

		line := LineItem{
			StageID:  descriptor.ID,
			Name:     descriptor.Name,
			Enabled:  enabled,
			UnitCost: unit,
		}
		if enabled {
			line.Cost = unit * float64(units(descriptor, req))
		}
		estimate.Lines = append(estimate.Lines, line)
		estimate.Total += line.Cost
	}
	estimate.Total = roundCents(estimate.Total)
	return estimate
}

// units reports how many billable calls a stage makes for this request.
// Keyword research fans out per seed topic; everything else bills one
// call per run.
func units(descriptor stage.Descriptor, req session.GenerationRequest) int {
	if descriptor.ID == stage.KeywordResearch && len(req.Topics) > 1 {
		return len(req.Topics)
	}
	return 1
}

func unitPrice(key string, pricing config.Pricing) float64 {
	switch key {
	case stage.PriceDataForSEO:
		return pricing.DataForSEO
	case stage.PriceSerp:
		return pricing.Serp
	case stage.PricePerplexity:
		return pricing.Perplexity
	case stage.PriceGeneration:
		return pricing.Generation
	case stage.PriceScoring:
		return pricing.Scoring
	case stage.PriceImages:
		return pricing.Images
	default:
		return 0
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
