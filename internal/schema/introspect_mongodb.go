package schema

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// MongoIntrospector implements Reader for MongoDB. Collections have no fixed
// schema, so Describe reports the top-level fields of one sampled document.
type MongoIntrospector struct {
	conn *mongodb.Conn
}

// NewMongoIntrospector creates a MongoDB introspector over the connection's
// bound database.
func NewMongoIntrospector(conn *mongodb.Conn) *MongoIntrospector {
	return &MongoIntrospector{conn: conn}
}

// ListSources returns the collection names of the database, sorted
func (m *MongoIntrospector) ListSources(ctx context.Context) ([]string, error) {
	db, err := m.db()
	if err != nil {
		return nil, err
	}
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, queryError("list collections", err)
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

// SourceExists checks whether a collection exists
func (m *MongoIntrospector) SourceExists(ctx context.Context, name string) (bool, error) {
	db, err := m.db()
	if err != nil {
		return false, err
	}
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, queryError("collection exists check", err)
	}
	return len(names) > 0, nil
}

// Describe samples one document of the collection. An empty collection
// yields no fields; a missing one is NotFound.
func (m *MongoIntrospector) Describe(ctx context.Context, name string) (*SourceInfo, error) {
	exists, err := m.SourceExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.Newf(errs.ErrKindNotFound, "collection %s.%s not found", m.conn.Database(), name)
	}

	info := &SourceInfo{Namespace: m.conn.Database(), Name: name, Fields: []FieldInfo{}}
	var doc bson.D
	err = m.conn.DB().Collection(name).FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return info, nil
	}
	if err != nil {
		return nil, queryError("sample document", err)
	}
	info.Fields = fieldsOf(doc)
	return info, nil
}

func (m *MongoIntrospector) db() (*mongo.Database, error) {
	db := m.conn.DB()
	if db == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "schema: no open MongoDB connection")
	}
	return db, nil
}

// fieldsOf keeps document order; _id is the primary key.
func fieldsOf(doc bson.D) []FieldInfo {
	fields := make([]FieldInfo, 0, len(doc))
	for _, e := range doc {
		fields = append(fields, FieldInfo{
			Name:         e.Key,
			DataType:     typeName(e.Value),
			IsNullable:   e.Value == nil,
			IsPrimaryKey: e.Key == "_id",
			IsUnique:     e.Key == "_id",
		})
	}
	return fields
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int, int32, int64:
		return "integer"
	case float32, float64:
		return "number"
	case bool:
		return "boolean"
	case bson.ObjectID:
		return "objectId"
	case bson.DateTime:
		return "date"
	case bson.D, bson.M:
		return "object"
	case bson.A:
		return "array"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
