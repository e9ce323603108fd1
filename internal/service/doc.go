// Package service contains the quiz chain use cases.
//
// TaskService starts a chain, shows a live task and checks submitted answers.
// A correct answer on any task but the last creates the next task of the
// sequence. The service depends on the store interfaces and the quiz
// generators, never on a concrete database, and emits a lifecycle event for
// every task it creates and every answer it checks.
//
// Errors leave the service either as ErrTaskNotFound, which the API layer
// maps to 404, or wrapped in a TaskServiceError.
package service
