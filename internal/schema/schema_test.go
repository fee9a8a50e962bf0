package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/errs"
)

func TestNewPgIntrospector_DefaultNamespace(t *testing.T) {
	assert.Equal(t, "public", NewPgIntrospector(nil, "").schema)
	assert.Equal(t, "sales", NewPgIntrospector(nil, "sales").schema)
}

func TestReaders_RequireOpenConnection(t *testing.T) {
	ctx := context.Background()
	readers := map[string]Reader{
		"postgres": NewPgIntrospector(&postgres.Conn{}, ""),
		"mongodb":  NewMongoIntrospector(&mongodb.Conn{}),
	}

	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			_, err := r.ListSources(ctx)
			assert.True(t, errs.IsInvalidInput(err))

			_, err = r.SourceExists(ctx, "users")
			assert.True(t, errs.IsInvalidInput(err))

			_, err = r.Describe(ctx, "users")
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestFieldsOf(t *testing.T) {
	id := bson.NewObjectID()
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "age", Value: int32(36)},
		{Key: "score", Value: 9.5},
		{Key: "active", Value: true},
		{Key: "joined", Value: bson.NewDateTimeFromTime(time.Unix(0, 0))},
		{Key: "address", Value: bson.D{{Key: "city", Value: "London"}}},
		{Key: "tags", Value: bson.A{"a"}},
		{Key: "note", Value: nil},
	}

	fields := fieldsOf(doc)
	assert.Len(t, fields, len(doc))

	types := make([]string, len(fields))
	for i, f := range fields {
		types[i] = f.DataType
	}
	assert.Equal(t, []string{
		"objectId", "string", "integer", "number", "boolean", "date", "object", "array", "null",
	}, types)

	assert.True(t, fields[0].IsPrimaryKey)
	assert.True(t, fields[0].IsUnique)
	assert.False(t, fields[1].IsPrimaryKey)
	assert.True(t, fields[8].IsNullable)
	assert.Equal(t, "unknown", typeName(errors.New("x")))
}

func TestQueryError(t *testing.T) {
	err := queryError("list tables", errors.New("permission denied for schema private"))
	assert.True(t, errs.IsQueryFailed(err))
	assert.Equal(t, "There was an error: list tables: permission denied for schema private", err.Message)
}
