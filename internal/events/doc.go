// Package events provides types and interfaces for the task lifecycle events.
//
// The task service emits an event whenever it creates a task and whenever a
// client submits an answer. Handlers subscribe to an emitter without the
// service knowing who consumes the events; the only built-in handler writes
// one structured log line per event.
package events
