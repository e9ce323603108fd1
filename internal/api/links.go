package api

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultLinkScheme is used when a LinkBuilder has no scheme.
const DefaultLinkScheme = "https"

// LinkBuilder renders absolute task links from the host the client used.
type LinkBuilder struct {
	// Scheme is the URL scheme of generated links
	Scheme string
	// Prefix is the path segment every route is mounted under; it may be empty
	Prefix string
}

// NewLinkBuilder returns a LinkBuilder for scheme and prefix. Slashes around
// prefix are ignored.
func NewLinkBuilder(scheme, prefix string) LinkBuilder {
	if scheme == "" {
		scheme = DefaultLinkScheme
	}
	return LinkBuilder{
		Scheme: scheme,
		Prefix: strings.Trim(prefix, "/"),
	}
}

// TaskPath returns the path of the task with the given id.
func (b LinkBuilder) TaskPath(id string) string {
	if b.Prefix == "" {
		return "/tasks/" + id
	}
	return "/" + b.Prefix + "/tasks/" + id
}

// TaskLink returns the absolute link of the task for a request that reached
// the server through r.Host.
func (b LinkBuilder) TaskLink(r *http.Request, id string) string {
	scheme := b.Scheme
	if scheme == "" {
		scheme = DefaultLinkScheme
	}

	u := url.URL{
		Scheme: scheme,
		Host:   r.Host,
		Path:   b.TaskPath(id),
	}
	return u.String()
}
