package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// Conn is a caller-owned MongoDB client bound to the default database named
// in its connection string.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for url and pings the primary. The URL must name a
// default database in its path, e.g. mongodb://host:27017/app.
func Connect(ctx context.Context, url string) (*Conn, error) {
	cs, err := connstring.ParseAndValidate(url)
	if err != nil {
		return nil, connectionError(err)
	}
	if cs.Database == "" {
		return nil, connectionError(errors.New("no default database defined in the connection string"))
	}

	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		return nil, connectionError(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, connectionError(err)
	}

	return &Conn{client: client, db: client.Database(cs.Database)}, nil
}

// Wrap adopts a client opened elsewhere, bound to database.
func Wrap(client *mongo.Client, database string) *Conn {
	return &Conn{client: client, db: client.Database(database)}
}

// Close disconnects the client.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Database returns the name of the bound database.
func (c *Conn) Database() string {
	if c == nil || c.db == nil {
		return ""
	}
	return c.db.Name()
}

// Client returns the underlying *mongo.Client (for advanced use)
func (c *Conn) Client() *mongo.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// DB returns the bound *mongo.Database
func (c *Conn) DB() *mongo.Database {
	if c == nil {
		return nil
	}
	return c.db
}

func (c *Conn) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func connectionError(err error) *errs.Error {
	return errs.Wrap(errs.ErrKindConnectionFailed, "could not connect to the database: "+err.Error(), err)
}
