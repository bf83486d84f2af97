package response

import (
	"booking-core/internal/domain/pricing"
)

type PriceLineResponse struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
}

type PriceBreakdownResponse struct {
	TotalHours       int                 `json:"totalHours"`
	TotalDays        float64             `json:"totalDays"`
	FullDays         int                 `json:"fullDays"`
	ExtraHours       int                 `json:"extraHours"`
	BaseCostCents    int64               `json:"baseCostCents"`
	DailyCostCents   int64               `json:"dailyCostCents"`
	HourlyCostCents  int64               `json:"hourlyCostCents"`
	Surcharges       []PriceLineResponse `json:"surcharges"`
	DiscountCents    int64               `json:"discountCents"`
	SubtotalCents    int64               `json:"subtotalCents"`
	PlatformFeeCents int64               `json:"platformFeeCents"`
	TotalCents       int64               `json:"totalCents"`
	Currency         string              `json:"currency"`
	LineItems        []PriceLineResponse `json:"lineItems"`
	Method           string              `json:"calculationMethod"`
}

func FromBreakdown(bd *pricing.Breakdown) *PriceBreakdownResponse {
	return &PriceBreakdownResponse{
		TotalHours:       bd.TotalHours,
		TotalDays:        bd.TotalDays,
		FullDays:         bd.FullDays,
		ExtraHours:       bd.ExtraHours,
		BaseCostCents:    bd.BaseCostCents,
		DailyCostCents:   bd.DailyCostCents,
		HourlyCostCents:  bd.HourlyCostCents,
		Surcharges:       fromLines(bd.Surcharges),
		DiscountCents:    bd.DiscountCents,
		SubtotalCents:    bd.SubtotalCents,
		PlatformFeeCents: bd.PlatformFeeCents,
		TotalCents:       bd.TotalCents,
		Currency:         bd.Currency,
		LineItems:        fromLines(bd.LineItems),
		Method:           string(bd.Method),
	}
}

func fromLines(lines []pricing.Line) []PriceLineResponse {
	out := make([]PriceLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, PriceLineResponse{Label: l.Label, AmountCents: l.AmountCents})
	}
	return out
}
