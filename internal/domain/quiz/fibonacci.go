package quiz

import (
	"strconv"

	"github.com/phrazzld/quizchain-api/internal/domain"
)

func generateFibonacci(rng Rand) (domain.Parameters, string) {
	n := 1 + rng.Int64N(MaxSafeInteger)

	return domain.Parameters{
		{Name: "N", Value: n},
	}, strconv.FormatInt(GreatestFibonacciBelow(n), 10)
}

// GreatestFibonacciBelow returns the greatest Fibonacci number strictly less
// than n, for the sequence 0, 1, 1, 2, 3, ... and n >= 1.
func GreatestFibonacciBelow(n int64) int64 {
	a, b := int64(0), int64(1)
	for b < n {
		a, b = b, a+b
	}
	return a
}
