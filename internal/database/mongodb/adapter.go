// Package mongodb is the document adapter. Filters, update sets and
// aggregation pipelines are passed to the server verbatim as BSON documents.
package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/logger"
	"github.com/FractureX/fracturex-module-database/internal/response"
)

// Select reads documents from Collection. When Pipeline is non-empty it is
// run as an aggregation and Filter and Sort are ignored. A nil Filter
// matches every document.
type Select struct {
	Conn       *Conn
	Collection string
	Filter     bson.M
	Pipeline   mongo.Pipeline
	Sort       bson.D
}

// Insert adds one document.
type Insert struct {
	Conn       *Conn
	Collection string
	Document   bson.M
}

// Update applies Set ($set) to every document matching Filter.
type Update struct {
	Conn       *Conn
	Collection string
	Filter     bson.M
	Set        bson.M
}

// Delete removes every document matching Filter.
type Delete struct {
	Conn       *Conn
	Collection string
	Filter     bson.M
}

// Adapter executes document operations. It holds no connection state.
type Adapter struct {
	log   *logger.Logger
	debug bool
}

// NewAdapter returns an Adapter logging to log. With debug set, filters,
// documents and pipelines are logged at info level.
func NewAdapter(log *logger.Logger, debug bool) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{log: log, debug: debug}
}

// Select returns the matching documents; no match is an empty slice.
func (a *Adapter) Select(ctx context.Context, p Select) ([]map[string]any, error) {
	if err := a.begin("mongodb.select", p.Conn, p.Collection, map[string]interface{}{
		"filter":   p.Filter,
		"pipeline": p.Pipeline,
		"sort":     p.Sort,
	}); err != nil {
		return nil, err
	}

	coll := p.Conn.collection(p.Collection)

	var (
		cursor *mongo.Cursor
		err    error
	)
	if len(p.Pipeline) > 0 {
		cursor, err = coll.Aggregate(ctx, p.Pipeline)
	} else {
		opts := options.Find()
		if len(p.Sort) > 0 {
			opts.SetSort(p.Sort)
		}
		cursor, err = coll.Find(ctx, orEmpty(p.Filter), opts)
	}
	if err != nil {
		return nil, a.fail("mongodb.select", p.Conn, err)
	}
	defer cursor.Close(ctx)

	docs := make([]map[string]any, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, a.fail("mongodb.select", p.Conn, err)
	}
	return docs, nil
}

// Insert returns the identifier of the inserted document.
func (a *Adapter) Insert(ctx context.Context, p Insert) (any, error) {
	if err := a.begin("mongodb.insert", p.Conn, p.Collection, map[string]interface{}{
		"document": p.Document,
	}); err != nil {
		return nil, err
	}
	if p.Document == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "mongodb.insert: document must not be nil")
	}

	res, err := p.Conn.collection(p.Collection).InsertOne(ctx, p.Document)
	if err != nil {
		return nil, a.fail("mongodb.insert", p.Conn, err)
	}
	return res.InsertedID, nil
}

// Update reports whether the server acknowledged the write. It does not
// report whether any document matched or changed. An empty Set is sent as
// is; the server decides whether to accept it.
func (a *Adapter) Update(ctx context.Context, p Update) (bool, error) {
	if err := a.begin("mongodb.update", p.Conn, p.Collection, map[string]interface{}{
		"filter": p.Filter,
		"set":    p.Set,
	}); err != nil {
		return false, err
	}
	res, err := p.Conn.collection(p.Collection).UpdateMany(ctx, orEmpty(p.Filter), bson.M{"$set": orEmpty(p.Set)})
	if err != nil {
		return false, a.fail("mongodb.update", p.Conn, err)
	}
	return res.Acknowledged, nil
}

// Delete reports whether at least one document was removed.
func (a *Adapter) Delete(ctx context.Context, p Delete) (bool, error) {
	if err := a.begin("mongodb.delete", p.Conn, p.Collection, map[string]interface{}{
		"filter": p.Filter,
	}); err != nil {
		return false, err
	}

	res, err := p.Conn.collection(p.Collection).DeleteMany(ctx, orEmpty(p.Filter))
	if err != nil {
		return false, a.fail("mongodb.delete", p.Conn, err)
	}
	return res.DeletedCount > 0, nil
}

// begin validates the request target and logs the call banner.
func (a *Adapter) begin(op string, c *Conn, collection string, fields map[string]interface{}) error {
	if c == nil || c.db == nil {
		return errs.New(errs.ErrKindInvalidInput, op+": no open MongoDB connection")
	}
	if collection == "" {
		return errs.New(errs.ErrKindInvalidInput, op+": collection name must not be empty")
	}
	a.log.DebugWith(op, map[string]interface{}{"database": c.Database()})
	if a.debug {
		fields["database"] = c.Database()
		fields["collection"] = collection
		a.log.InfoWith(op, fields)
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

// mapError keeps the raw driver text; document errors get no rewriting.
func mapError(err error) *errs.Error {
	if err == nil {
		return nil
	}
	kind := errs.ErrKindQueryFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || mongo.IsTimeout(err) {
		kind = errs.ErrKindTimeout
	}
	return errs.Wrap(kind, response.ErrorPrefix+err.Error(), err)
}

// orEmpty turns a nil document into {}; as a filter it matches everything.
func orEmpty(doc bson.M) bson.M {
	if doc == nil {
		return bson.M{}
	}
	return doc
}
