// Package pricing supplies tax and shipping amounts for an order subtotal.
// The policy is pluggable so tax logic can grow without touching the
// checkout engine.
package pricing

import "math"

type Policy interface {
	// Quote returns (tax, shipping) for the given subtotal.
	Quote(subtotal float64) (float64, float64)
}

// ZeroPolicy charges no tax and no shipping.
type ZeroPolicy struct{}

func (ZeroPolicy) Quote(subtotal float64) (float64, float64) {
	return 0, 0
}

// FlatRatePolicy applies a fractional tax rate and a flat shipping charge.
type FlatRatePolicy struct {
	TaxRate  float64
	Shipping float64
}

func (p FlatRatePolicy) Quote(subtotal float64) (float64, float64) {
	tax := round2(subtotal * p.TaxRate)
	return tax, p.Shipping
}

// ForName selects a policy by config name, defaulting to zero.
func ForName(name string, taxRate, shipping float64) Policy {
	if name == "flat" {
		return FlatRatePolicy{TaxRate: taxRate, Shipping: shipping}
	}
	return ZeroPolicy{}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
