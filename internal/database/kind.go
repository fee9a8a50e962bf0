package database

import (
	"strings"

	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// Kind identifies the backend family a configuration resolves to.
type Kind int

const (
	KindUnknown    Kind = iota
	KindRelational      // PostgreSQL
	KindDocument        // MongoDB
)

// Markers searched for, case-insensitively, in a configured address.
const (
	markerRelational = "postgresql"
	markerDocument   = "mongodb"
)

func (k Kind) String() string {
	switch k {
	case KindRelational:
		return "postgresql"
	case KindDocument:
		return "mongodb"
	default:
		return "unknown"
	}
}

// InferKind derives the backend kind from an address. The relational marker
// is checked first, so an address mentioning both resolves to KindRelational.
func InferKind(address string) (Kind, error) {
	lower := strings.ToLower(address)
	switch {
	case strings.Contains(lower, markerRelational):
		return KindRelational, nil
	case strings.Contains(lower, markerDocument):
		return KindDocument, nil
	default:
		return KindUnknown, errs.New(errs.ErrKindUnrecognizedBackend,
			"unrecognized database backend: address must reference postgresql or mongodb")
	}
}
