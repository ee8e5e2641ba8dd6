package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroPolicy(t *testing.T) {
	tax, shipping := ZeroPolicy{}.Quote(100)
	assert.Zero(t, tax)
	assert.Zero(t, shipping)
}

func TestFlatRatePolicy(t *testing.T) {
	p := FlatRatePolicy{TaxRate: 0.0825, Shipping: 4.99}

	tax, shipping := p.Quote(100)
	assert.Equal(t, 8.25, tax)
	assert.Equal(t, 4.99, shipping)

	// Tax rounds to cents.
	tax, _ = p.Quote(33.33)
	assert.Equal(t, 2.75, tax)
}

func TestForName(t *testing.T) {
	assert.IsType(t, FlatRatePolicy{}, ForName("flat", 0.08, 5))
	assert.IsType(t, ZeroPolicy{}, ForName("zero", 0, 0))
	assert.IsType(t, ZeroPolicy{}, ForName("unknown", 0, 0))
}
