package quiz

import (
	"strconv"

	"github.com/phrazzld/quizchain-api/internal/domain"
)

// generateSum picks a total R in [0, MaxSafeInteger] and splits it into a and b.
func generateSum(rng Rand) (domain.Parameters, string) {
	total := rng.Int64N(MaxSafeInteger + 1)
	a := rng.Int64N(total + 1)
	b := total - a

	return domain.Parameters{
		{Name: "a", Value: a},
		{Name: "b", Value: b},
	}, strconv.FormatInt(total, 10)
}
