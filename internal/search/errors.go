package search

import "errors"

// Pipeline errors surfaced verbatim to the caller. Every per-field failure
// (bad number, failed geocode, unresolved code) is absorbed locally and
// degrades the query instead; only these four conditions terminate a search.
var (
	// ErrSearchTooBroad means no usable query or filter survived assembly.
	ErrSearchTooBroad = errors.New("search too broad")

	// ErrSessionNotFound means the session id was invalid, malformed, or
	// belongs to a different caller.
	ErrSessionNotFound = errors.New("session not found")

	// ErrJobNoLongerAvailable means a job-identifier lookup was attempted by
	// a caller without the identifier-lookup capability.
	ErrJobNoLongerAvailable = errors.New("job no longer available")

	// ErrQueryFormat means the search engine rejected, or could not be
	// reached for, the assembled request.
	ErrQueryFormat = errors.New("query format error")
)
