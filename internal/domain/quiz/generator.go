package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/quizchain-api/internal/domain"
)

// ErrUnknownTask is returned when no generator is registered for a task name.
var ErrUnknownTask = errors.New("no generator for task")

// MaxSafeInteger is the largest integer a JSON client can represent exactly.
const MaxSafeInteger int64 = 1<<53 - 1

// Rand is the subset of *rand.Rand the generators draw from.
type Rand interface {
	Int64N(n int64) int64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand delegates to the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }
func (globalRand) IntN(n int) int { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Quiz is the output of a generator: everything a task needs except its
// identity and expiry.
type Quiz struct {
	Description string
	Parameters  domain.Parameters
	Answer      string
}

// Generator produces quizzes of a single task type.
type Generator interface {
	Description() string
	Generate(rng Rand) (domain.Parameters, string)
}

type generatorFunc struct {
	description string
	generate    func(rng Rand) (domain.Parameters, string)
}

func (g generatorFunc) Description() string { return g.description }

func (g generatorFunc) Generate(rng Rand) (domain.Parameters, string) {
	return g.generate(rng)
}

// generators maps every task of the sequence to its implementation.
var generators = map[domain.TaskName]Generator{
	domain.TaskNameSum: generatorFunc{
		description: "What is the sum of a and b?",
		generate:    generateSum,
	},
	domain.TaskNameSectorArea: generatorFunc{
		description: "What is the area of a sector with radius r, arc length L and angle PHI (in radians)?",
		generate:    generateSectorArea,
	},
	domain.TaskNameFibonacci: generatorFunc{
		description: "What is the greatest Fibonacci number less than N?",
		generate:    generateFibonacci,
	},
	domain.TaskNameShortestWord: generatorFunc{
		description: "What is the shortest word in array A?",
		generate:    generateShortestWord,
	},
}

// For returns the generator registered for name.
func For(name domain.TaskName) (Generator, error) {
	g, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return g, nil
}

// Registry binds the generators to a random source.
type Registry struct {
	rng Rand
}

// NewRegistry creates a Registry drawing from rng. A nil rng uses the
// process-wide math/rand/v2 source.
func NewRegistry(rng Rand) *Registry {
	if rng == nil {
		rng = globalRand{}
	}
	return &Registry{rng: rng}
}

// Generate produces a new quiz for the named task.
func (r *Registry) Generate(name domain.TaskName) (*Quiz, error) {
	g, err := For(name)
	if err != nil {
		return nil, err
	}

	params, answer := g.Generate(r.rng)
	return &Quiz{
		Description: g.Description(),
		Parameters:  params,
		Answer:      answer,
	}, nil
}
