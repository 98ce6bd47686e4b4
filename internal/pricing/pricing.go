// Package pricing estimates a sale price for a laser job from its cost
// components plus a margin.
package pricing

import "math"

// Input carries the cost components of one job. LaserTime is in hours and
// is billed at the Labor rate; the remaining fields are flat costs. Margin
// is a percentage.
type Input struct {
	Material  float64 `json:"material"`
	LaserTime float64 `json:"laser_time"`
	Labor     float64 `json:"labor"`
	Power     float64 `json:"power"`
	Packaging float64 `json:"packaging"`
	Overhead  float64 `json:"overhead"`
	Margin    float64 `json:"margin"`
}

// Quote is the computed estimate.
type Quote struct {
	BaseCost float64 `json:"base_cost"`
	Price    float64 `json:"price"`
}

// Calculate applies cost-plus pricing. Estimates above 100 are rounded to
// the nearest ten minus one (129.40 -> 129), a charm-price convention.
func Calculate(in Input) Quote {
	baseCost := in.Material + in.LaserTime*in.Labor + in.Power + in.Packaging + in.Overhead
	price := baseCost * (1 + in.Margin/100)

	if price > 100 {
		price = math.Round(price/10)*10 - 1
	}

	return Quote{
		BaseCost: round2(baseCost),
		Price:    round2(price),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
