package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/FractureX/fracturex-module-database/internal/config"
	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/logger"
	"github.com/FractureX/fracturex-module-database/internal/response"
	"github.com/FractureX/fracturex-module-database/internal/schema"
)

// openerCalls records which connector a test service used.
type openerCalls struct {
	relational []string
	document   []string
}

func newTestService(t *testing.T, entries ...config.DatabaseConfig) (*Service, *openerCalls) {
	t.Helper()
	reg, err := config.NewRegistry(entries...)
	require.NoError(t, err)

	calls := &openerCalls{}
	s := New(&config.Config{Databases: reg}, WithLogger(logger.Nop()))
	s.openRelational = func(_ context.Context, url string) (*postgres.Conn, error) {
		calls.relational = append(calls.relational, url)
		return &postgres.Conn{}, nil
	}
	s.openDocument = func(_ context.Context, url string) (*mongodb.Conn, error) {
		calls.document = append(calls.document, url)
		return &mongodb.Conn{}, nil
	}
	return s, calls
}

func TestConnect_DefaultsToFirstEntry(t *testing.T) {
	s, calls := newTestService(t,
		config.DatabaseConfig{Name: "a", URL: "postgresql://u:p@localhost:5432/a"},
		config.DatabaseConfig{Name: "b", URL: "mongodb://localhost:27017/b"},
	)

	conn, err := s.Connect(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "a", conn.Name)
	assert.Equal(t, database.KindRelational, conn.Kind)
	assert.NotNil(t, conn.Relational())
	assert.Nil(t, conn.Document())
	assert.IsType(t, &schema.PgIntrospector{}, conn.Schema())
	assert.Equal(t, []string{"postgresql://u:p@localhost:5432/a"}, calls.relational)
	assert.Empty(t, calls.document)
	assert.NoError(t, conn.Close(context.Background()))
}

func TestConnect_ByName(t *testing.T) {
	s, calls := newTestService(t,
		config.DatabaseConfig{Name: "a", URL: "postgresql://localhost/a"},
		config.DatabaseConfig{Name: "b", URL: "MongoDB://localhost:27017/b"},
	)

	conn, err := s.Connect(context.Background(), "b")
	require.NoError(t, err)

	assert.Equal(t, database.KindDocument, conn.Kind)
	assert.NotNil(t, conn.Document())
	assert.Nil(t, conn.Relational())
	assert.IsType(t, &schema.MongoIntrospector{}, conn.Schema())
	assert.Equal(t, []string{"MongoDB://localhost:27017/b"}, calls.document)
	assert.Empty(t, calls.relational)
	assert.NoError(t, conn.Close(context.Background()))
}

func TestConnect_UnrecognizedBackendNeverConnects(t *testing.T) {
	s, calls := newTestService(t,
		config.DatabaseConfig{Name: "legacy", URL: "mysql://localhost:3306/app"},
	)

	for _, name := range []string{"", "legacy"} {
		conn, err := s.Connect(context.Background(), name)
		assert.Nil(t, conn)
		assert.True(t, errs.IsUnrecognizedBackend(err))
		assert.False(t, response.Failure(err).Success)
	}
	assert.Empty(t, calls.relational)
	assert.Empty(t, calls.document)
}

func TestConnect_ConfigurationErrors(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Connect(context.Background(), "")
		assert.True(t, errs.IsNoConfiguration(err))
	})

	t.Run("nil config", func(t *testing.T) {
		s := New(nil, WithLogger(logger.Nop()))
		_, err := s.Connect(context.Background(), "main")
		assert.True(t, errs.IsNoConfiguration(err))
	})

	t.Run("unknown name", func(t *testing.T) {
		s, calls := newTestService(t, config.DatabaseConfig{Name: "a", URL: "postgresql://localhost/a"})
		_, err := s.Connect(context.Background(), "missing")
		assert.True(t, errs.IsNotFound(err))
		assert.Empty(t, calls.relational)
	})
}

func TestConnect_ConnectionErrors(t *testing.T) {
	s, _ := newTestService(t, config.DatabaseConfig{Name: "a", URL: "postgresql://localhost/a"})

	t.Run("foreign error is wrapped", func(t *testing.T) {
		s.openRelational = func(context.Context, string) (*postgres.Conn, error) {
			return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		conn, err := s.Connect(context.Background(), "a")
		assert.Nil(t, conn)
		assert.True(t, errs.IsConnectionFailed(err))
		assert.Equal(t,
			"could not connect to the database: dial tcp 127.0.0.1:5432: connect: connection refused",
			response.Failure(err).Message)
	})

	t.Run("module error passes through", func(t *testing.T) {
		native := errs.Wrap(errs.ErrKindConnectionFailed, "could not connect to the database: auth failed", errors.New("auth failed"))
		s.openRelational = func(context.Context, string) (*postgres.Conn, error) {
			return nil, native
		}
		_, err := s.Connect(context.Background(), "a")
		assert.Same(t, native, err)
	})
}

func TestConfig_Lookup(t *testing.T) {
	s, _ := newTestService(t,
		config.DatabaseConfig{Name: "a", URL: "postgresql://localhost/a"},
		config.DatabaseConfig{Name: "b", URL: "mongodb://localhost/b"},
	)

	entry, err := s.Config("b")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost/b", entry.URL)

	entry, err = s.Config("")
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Name)
}

func TestDispatch_RejectsMalformedUnions(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Insert{})
	assert.True(t, errs.IsInvalidInput(err))
	_, err = s.Insert(ctx, Insert{Relational: &postgres.Insert{}, Document: &mongodb.Insert{}})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = s.Select(ctx, Select{})
	assert.True(t, errs.IsInvalidInput(err))
	_, err = s.Select(ctx, Select{Relational: &postgres.Select{}, Document: &mongodb.Select{}})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = s.Update(ctx, Update{})
	assert.True(t, errs.IsInvalidInput(err))
	_, err = s.Update(ctx, Update{Relational: &postgres.Update{}, Document: &mongodb.Update{}})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = s.Delete(ctx, Delete{})
	assert.True(t, errs.IsInvalidInput(err))
	_, err = s.Delete(ctx, Delete{Relational: &postgres.Delete{}, Document: &mongodb.Delete{}})
	assert.True(t, errs.IsInvalidInput(err))
}

// Requests without a connection are rejected by the adapter they reach, so
// the message tells which adapter the dispatcher picked.
func TestDispatch_RoutesToAdapter(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		prefix string
	}{
		{"relational insert", func() error {
			_, err := s.Insert(ctx, Insert{Relational: &postgres.Insert{Query: "INSERT"}})
			return err
		}, "postgres.insert"},
		{"document insert", func() error {
			_, err := s.Insert(ctx, Insert{Document: &mongodb.Insert{Collection: "c", Document: bson.M{}}})
			return err
		}, "mongodb.insert"},
		{"relational select", func() error {
			_, err := s.Select(ctx, Select{Relational: &postgres.Select{Query: "SELECT 1"}})
			return err
		}, "postgres.select"},
		{"document select", func() error {
			_, err := s.Select(ctx, Select{Document: &mongodb.Select{Collection: "c"}})
			return err
		}, "mongodb.select"},
		{"relational update", func() error {
			_, err := s.Update(ctx, Update{Relational: &postgres.Update{Query: "UPDATE"}})
			return err
		}, "postgres.update"},
		{"document update", func() error {
			_, err := s.Update(ctx, Update{Document: &mongodb.Update{Collection: "c", Set: bson.M{"a": 1}}})
			return err
		}, "mongodb.update"},
		{"relational delete", func() error {
			_, err := s.Delete(ctx, Delete{Relational: &postgres.Delete{Query: "DELETE"}})
			return err
		}, "postgres.delete"},
		{"document delete", func() error {
			_, err := s.Delete(ctx, Delete{Document: &mongodb.Delete{Collection: "c"}})
			return err
		}, "mongodb.delete"},
		{"notify", func() error {
			return s.Notify(ctx, postgres.Notify{Channel: "events"})
		}, "postgres.notify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
			assert.Contains(t, errs.MessageOf(err), tt.prefix)
		})
	}
}

func TestConnection_ZeroValue(t *testing.T) {
	c := &Connection{}
	assert.Equal(t, "", c.Database())
	assert.Nil(t, c.Schema())
	assert.NoError(t, c.Close(context.Background()))
}
