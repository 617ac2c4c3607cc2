package model

import (
	"fmt"
	"strings"
)

// Coefficient is one fitted feature weight. Order follows the caller's
// feature selection.
type Coefficient struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Result is the outcome of one fit call. It is never mutated after the
// fit; a re-fit produces a fresh Result.
type Result struct {
	Variant      Variant       `json:"variant"`
	Coefficients []Coefficient `json:"coefficients"`
	Intercept    float64       `json:"intercept"`
	RSquared     float64       `json:"r_squared"`
	Actual       []float64     `json:"actual"`
	Predicted    []float64     `json:"predicted"`
}

// Summary renders the human-readable fit report: R² and coefficients to
// three decimals, intercept to two.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "R2: %.3f\n", r.RSquared)
	b.WriteString("Coefficients:\n")
	for _, c := range r.Coefficients {
		fmt.Fprintf(&b, "  %s: %.3f\n", c.Feature, c.Value)
	}
	fmt.Fprintf(&b, "Intercept: %.2f\n", r.Intercept)
	return b.String()
}
