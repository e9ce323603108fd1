// Package quiz holds the task generators of the chain. Each generator is a
// pure randomized function producing a parameter set and the canonical
// answer, together with a fixed human-readable prompt.
package quiz
