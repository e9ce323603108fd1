// Package api exposes the quiz chain over HTTP. It translates requests into
// TaskService calls, renders task links from the request host and maps
// service errors to status codes without leaking internal details.
//
// Routes (mounted under the configured path prefix):
//
//	GET     /start       302 to the first task
//	GET     /tasks/{id}  task description, parameters, self link and TTL
//	POST    /tasks/{id}  check an answer, returns the next link when correct
//	OPTIONS both paths   CORS preflight
package api
