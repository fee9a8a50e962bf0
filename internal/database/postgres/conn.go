package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// Conn is a single, caller-owned PostgreSQL connection. It is not pooled and
// is not safe for concurrent use, like the *pgx.Conn it wraps.
type Conn struct {
	conn *pgx.Conn
}

// Connect opens a connection to url.
func Connect(ctx context.Context, url string) (*Conn, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed,
			"could not connect to the database: "+err.Error(), err)
	}
	return &Conn{conn: conn}, nil
}

// Wrap adopts a connection opened elsewhere.
func Wrap(conn *pgx.Conn) *Conn {
	return &Conn{conn: conn}
}

// Close closes the underlying connection.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close(ctx)
}

// Database returns the name of the connected database.
func (c *Conn) Database() string {
	if c == nil || c.conn == nil {
		return ""
	}
	return c.conn.Config().Database
}

// PgxConn returns the underlying *pgx.Conn (for advanced use)
func (c *Conn) PgxConn() *pgx.Conn {
	if c == nil {
		return nil
	}
	return c.conn
}

// --- pgx type wrappers ---

// pgxRows wraps pgx.Rows to satisfy database.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Close()                 { r.rows.Close() }
func (r *pgxRows) Err() error             { return r.rows.Err() }

func (r *pgxRows) Columns() ([]string, error) {
	descs := r.rows.FieldDescriptions()
	cols := make([]string, len(descs))
	for i, d := range descs {
		cols[i] = d.Name
	}
	return cols, nil
}
