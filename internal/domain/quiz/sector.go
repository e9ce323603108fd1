package quiz

import (
	"math"
	"strconv"

	"github.com/phrazzld/quizchain-api/internal/domain"
)

// MaxRadius bounds the sector radius.
const MaxRadius int64 = 65535

// generateSectorArea draws a radius and an arc length no longer than the
// circumference, then asks for the sector area A = r*L/2.
//
// The expected answer carries no decimals when r*L is even and one decimal
// otherwise; A is always an integer or a half so this is exact.
func generateSectorArea(rng Rand) (domain.Parameters, string) {
	// r starts at 1: PHI divides by r squared.
	r := 1 + rng.Int64N(MaxRadius)
	circumference := 2 * math.Pi * float64(r)
	l := rng.Int64N(int64(circumference) + 1)

	product := r * l
	area := float64(product) / 2

	decimals := 0
	if product%2 != 0 {
		decimals = 1
	}

	phi := 2 * area / float64(r*r)

	return domain.Parameters{
		{Name: "r", Value: r},
		{Name: "L", Value: l},
		{Name: "PHI", Value: strconv.FormatFloat(phi, 'f', 2, 64)},
	}, strconv.FormatFloat(area, 'f', decimals, 64)
}
