package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSimple(t *testing.T) {
	q := Calculate(Input{
		Material:  10,
		LaserTime: 0.5,
		Labor:     20,
		Power:     1,
		Packaging: 2,
		Overhead:  3,
		Margin:    50,
	})

	assert.Equal(t, 26.0, q.BaseCost)
	assert.Equal(t, 39.0, q.Price)
}

func TestCalculateCharmRounding(t *testing.T) {
	// 100 * 1.30 = 130 -> rounded to nearest ten minus one.
	q := Calculate(Input{Material: 100, Margin: 30})
	assert.Equal(t, 129.0, q.Price)

	// At or under 100 no rounding applies.
	q = Calculate(Input{Material: 100})
	assert.Equal(t, 100.0, q.Price)
}

func TestCalculateZeroInput(t *testing.T) {
	q := Calculate(Input{})
	assert.Equal(t, 0.0, q.BaseCost)
	assert.Equal(t, 0.0, q.Price)
}
