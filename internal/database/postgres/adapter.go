// Package postgres is the relational adapter. Statements are the caller's
// SQL text with positional ($1, $2, …) parameters, executed verbatim through
// pgx's parameterized path; results come back as column-name maps.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/logger"
)

// DefaultChannel is used by Notify when no channel is given.
const DefaultChannel = "notification"

// Select runs a query and returns every row.
type Select struct {
	Conn  *Conn
	Query string
	Args  []any
}

// Insert runs an INSERT that carries its own RETURNING clause.
type Insert struct {
	Conn  *Conn
	Query string
	Args  []any
}

// Update runs an UPDATE; it reports success when the statement's RETURNING
// clause produced at least one row.
type Update struct {
	Conn  *Conn
	Query string
	Args  []any
}

// Delete runs a DELETE inside a transaction committed before returning.
type Delete struct {
	Conn  *Conn
	Query string
	Args  []any
}

// Notify publishes Payload, JSON-encoded, on Channel.
type Notify struct {
	Conn    *Conn
	Channel string
	Payload map[string]any
}

// Adapter executes relational operations. It holds no connection state and
// is safe to share; each call uses the connection carried by its request.
type Adapter struct {
	log   *logger.Logger
	debug bool
}

// NewAdapter returns an Adapter logging to log. With debug set, statements
// and parameters are logged at info level.
func NewAdapter(log *logger.Logger, debug bool) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{log: log, debug: debug}
}

// Select returns the rows produced by the query, possibly none.
func (a *Adapter) Select(ctx context.Context, p Select) ([]map[string]any, error) {
	if err := a.begin("postgres.select", p.Conn, p.Query, p.Args); err != nil {
		return nil, err
	}
	rows, err := a.query(ctx, p.Conn, p.Query, p.Args)
	if err != nil {
		return nil, a.fail("postgres.select", p.Conn, err)
	}
	return rows, nil
}

// Insert returns the rows of the statement's RETURNING clause.
func (a *Adapter) Insert(ctx context.Context, p Insert) ([]map[string]any, error) {
	if err := a.begin("postgres.insert", p.Conn, p.Query, p.Args); err != nil {
		return nil, err
	}
	rows, err := a.query(ctx, p.Conn, p.Query, p.Args)
	if err != nil {
		return nil, a.fail("postgres.insert", p.Conn, err)
	}
	return rows, nil
}

// Update reports whether the statement returned any row.
func (a *Adapter) Update(ctx context.Context, p Update) (bool, error) {
	if err := a.begin("postgres.update", p.Conn, p.Query, p.Args); err != nil {
		return false, err
	}
	rows, err := a.query(ctx, p.Conn, p.Query, p.Args)
	if err != nil {
		return false, a.fail("postgres.update", p.Conn, err)
	}
	return len(rows) > 0, nil
}

// Delete executes the statement in its own transaction and commits before
// returning, so other connections observe the deletion once this returns.
// It reports whether the statement returned any row.
func (a *Adapter) Delete(ctx context.Context, p Delete) (bool, error) {
	if err := a.begin("postgres.delete", p.Conn, p.Query, p.Args); err != nil {
		return false, err
	}

	tx, err := p.Conn.conn.Begin(ctx)
	if err != nil {
		return false, a.fail("postgres.delete", p.Conn, err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	pgRows, err := tx.Query(ctx, p.Query, p.Args...)
	if err != nil {
		return false, a.fail("postgres.delete", p.Conn, err)
	}
	rows, err := database.ScanRows(&pgxRows{rows: pgRows})
	if err != nil {
		return false, a.fail("postgres.delete", p.Conn, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, a.fail("postgres.delete", p.Conn, err)
	}
	return len(rows) > 0, nil
}

// Notify publishes the payload on the channel. Delivery is at most once and
// unacknowledged: success only means the server accepted the notification.
func (a *Adapter) Notify(ctx context.Context, p Notify) error {
	channel := p.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	if err := a.begin("postgres.notify", p.Conn, "", nil); err != nil {
		return err
	}

	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "notification payload is not serializable", err)
	}
	if a.debug {
		a.log.InfoWith("postgres.notify", map[string]interface{}{
			"channel": channel,
			"payload": string(payload),
		})
	}

	if _, err := p.Conn.conn.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(payload)); err != nil {
		return a.fail("postgres.notify", p.Conn, err)
	}
	return nil
}

// query executes sql and collects every row; the cursor is closed on all paths.
func (a *Adapter) query(ctx context.Context, c *Conn, sql string, args []any) ([]map[string]any, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return database.ScanRows(&pgxRows{rows: rows})
}

// begin validates the connection and logs the call banner.
func (a *Adapter) begin(op string, c *Conn, sql string, args []any) error {
	if c == nil || c.conn == nil {
		return errs.New(errs.ErrKindInvalidInput, op+": no open PostgreSQL connection")
	}
	a.log.DebugWith(op, map[string]interface{}{"database": c.Database()})
	if a.debug && sql != "" {
		a.log.InfoWith(op, map[string]interface{}{
			"database": c.Database(),
			"query":    sql,
			"args":     args,
		})
	}
	return nil
}

func (a *Adapter) fail(op string, c *Conn, err error) error {
	mapped := mapError(err)
	a.log.ErrorWith(op+" failed", err, map[string]interface{}{
		"database": c.Database(),
		"kind":     mapped.Kind.String(),
	})
	return mapped
}
