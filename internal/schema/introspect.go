package schema

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/response"
)

// PgIntrospector implements Reader for PostgreSQL using information_schema
type PgIntrospector struct {
	conn   *postgres.Conn
	schema string
}

// NewPgIntrospector creates a Postgres introspector over one schema; an
// empty schema means DefaultNamespace.
func NewPgIntrospector(conn *postgres.Conn, schema string) *PgIntrospector {
	if schema == "" {
		schema = DefaultNamespace
	}
	return &PgIntrospector{conn: conn, schema: schema}
}

// ListSources returns all user-defined table names in the schema
func (p *PgIntrospector) ListSources(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	db, err := p.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, q, p.schema)
	if err != nil {
		return nil, queryError("list tables", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, queryError("list tables", err)
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}

// SourceExists checks whether a specific table exists
func (p *PgIntrospector) SourceExists(ctx context.Context, table string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`

	db, err := p.db()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := db.QueryRow(ctx, q, p.schema, table).Scan(&exists); err != nil {
		return false, queryError("table exists check", err)
	}
	return exists, nil
}

// Describe returns column details for a single table
func (p *PgIntrospector) Describe(ctx context.Context, table string) (*SourceInfo, error) {
	const q = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES'              AS is_nullable,
			c.column_default,
			c.character_maximum_length,
			COALESCE(pk.is_pk, false)          AS is_primary_key,
			COALESCE(uq.is_unique, false)      AS is_unique
		FROM information_schema.columns c

		-- Primary key check
		LEFT JOIN (
			SELECT kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND tc.table_schema = $1
			  AND tc.table_name   = $2
		) pk ON pk.column_name = c.column_name

		-- Unique constraint check
		LEFT JOIN (
			SELECT kcu.column_name, true AS is_unique
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'UNIQUE'
			  AND tc.table_schema = $1
			  AND tc.table_name   = $2
		) uq ON uq.column_name = c.column_name

		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`

	db, err := p.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, q, p.schema, table)
	if err != nil {
		return nil, queryError("describe table", err)
	}
	defer rows.Close()

	info := &SourceInfo{Namespace: p.schema, Name: table}
	for rows.Next() {
		var f FieldInfo
		if err := rows.Scan(
			&f.Name,
			&f.DataType,
			&f.IsNullable,
			&f.DefaultValue,
			&f.MaxLength,
			&f.IsPrimaryKey,
			&f.IsUnique,
		); err != nil {
			return nil, queryError("scan column", err)
		}
		info.Fields = append(info.Fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("describe table", err)
	}
	if len(info.Fields) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %s.%s not found or has no columns", p.schema, table)
	}
	return info, nil
}

func (p *PgIntrospector) db() (*pgx.Conn, error) {
	db := p.conn.PgxConn()
	if db == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "schema: no open PostgreSQL connection")
	}
	return db, nil
}

func queryError(op string, err error) *errs.Error {
	return errs.Wrap(errs.ErrKindQueryFailed, response.ErrorPrefix+op+": "+err.Error(), err)
}
