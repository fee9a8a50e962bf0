// Package schema lists and describes the sources (tables or collections) of
// an open connection.
package schema

import "context"

// DefaultNamespace is the postgres schema read when none is given.
const DefaultNamespace = "public"

// Reader is the interface for introspecting the sources of one database
type Reader interface {
	// ListSources returns the table or collection names, sorted
	ListSources(ctx context.Context) ([]string, error)

	// SourceExists checks whether a table or collection exists
	SourceExists(ctx context.Context, name string) (bool, error)

	// Describe returns field info for a source
	Describe(ctx context.Context, name string) (*SourceInfo, error)
}
