// Package domain contains the core business entities, value objects, and
// domain logic of the quiz chain. It represents the heart of the system,
// independent of any specific storage or delivery mechanism.
package domain
