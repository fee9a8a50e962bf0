package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/response"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    errs.ErrKind
		message string
	}{
		{
			name:    "driver error text is kept verbatim",
			err:     errors.New(`E11000 duplicate key error collection: app.users index: email_1 dup key: { email: "ada@example.com" }`),
			kind:    errs.ErrKindQueryFailed,
			message: `There was an error: E11000 duplicate key error collection: app.users index: email_1 dup key: { email: "ada@example.com" }`,
		},
		{
			name:    "cancellation",
			err:     context.Canceled,
			kind:    errs.ErrKindTimeout,
			message: "There was an error: context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.message, response.Failure(got).Message)
		})
	}
	assert.Nil(t, mapError(nil))
}

func TestOrEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, orEmpty(nil))
	assert.Equal(t, bson.M{}, orEmpty(bson.M{}))
	assert.Equal(t, bson.M{"a": 1}, orEmpty(bson.M{"a": 1}))
}

func TestAdapter_RejectsBadRequests(t *testing.T) {
	a := NewAdapter(nil, true)
	ctx := context.Background()

	_, err := a.Select(ctx, Select{Collection: "users"})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = a.Insert(ctx, Insert{Collection: "users", Document: bson.M{"a": 1}})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = a.Update(ctx, Update{Conn: &Conn{}, Collection: "users", Set: bson.M{"a": 1}})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = a.Delete(ctx, Delete{})
	assert.True(t, errs.IsInvalidInput(err))
}

func TestConn_NilSafe(t *testing.T) {
	var c *Conn
	assert.Equal(t, "", c.Database())
	assert.Nil(t, c.Client())
	assert.NoError(t, c.Close(context.Background()))
}

func TestConnect_RequiresDefaultDatabase(t *testing.T) {
	_, err := Connect(context.Background(), "mongodb://localhost:27017")
	assert.True(t, errs.IsConnectionFailed(err))
	assert.Contains(t, errs.MessageOf(err), "could not connect to the database: ")
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "mongodb://localhost:27017/app?connectTimeoutMS=soon")
	assert.True(t, errs.IsConnectionFailed(err))
}
