package service

import (
	"context"

	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/schema"
)

// Connection is an open, caller-owned connection tagged with its backend.
// Exactly one of the backend handles is set, matching Kind.
type Connection struct {
	Name string
	Kind database.Kind

	relational *postgres.Conn
	document   *mongodb.Conn
}

// Relational returns the PostgreSQL handle, or nil for a document connection.
func (c *Connection) Relational() *postgres.Conn {
	return c.relational
}

// Document returns the MongoDB handle, or nil for a relational connection.
func (c *Connection) Document() *mongodb.Conn {
	return c.document
}

// Database returns the name of the connected database.
func (c *Connection) Database() string {
	switch c.Kind {
	case database.KindRelational:
		return c.relational.Database()
	case database.KindDocument:
		return c.document.Database()
	default:
		return ""
	}
}

// Schema returns a reader over the connection's tables or collections.
// Relational sources are read from the DefaultNamespace schema.
func (c *Connection) Schema() schema.Reader {
	switch c.Kind {
	case database.KindRelational:
		return schema.NewPgIntrospector(c.relational, schema.DefaultNamespace)
	case database.KindDocument:
		return schema.NewMongoIntrospector(c.document)
	default:
		return nil
	}
}

// Close closes whichever backend handle is held.
func (c *Connection) Close(ctx context.Context) error {
	switch c.Kind {
	case database.KindRelational:
		return c.relational.Close(ctx)
	case database.KindDocument:
		return c.document.Close(ctx)
	default:
		return nil
	}
}
