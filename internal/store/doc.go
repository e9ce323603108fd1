// Package store defines interfaces for task persistence. These interfaces
// abstract the underlying key-value table from the lifecycle logic, allowing
// the chain rules to remain independent of a specific database engine.
package store
