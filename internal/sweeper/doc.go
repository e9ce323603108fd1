// Package sweeper periodically removes expired tasks from the store.
//
// Readers never depend on it: a task past its expiry is already invisible.
// The sweeper only reclaims the space, playing the part a native TTL
// mechanism plays in a key-value store.
package sweeper
