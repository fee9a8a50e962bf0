package service

import (
	"context"

	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// Insert is an insert request for either backend. Exactly one of Relational
// and Document must be set, as for every request type below.
type Insert struct {
	Relational *postgres.Insert
	Document   *mongodb.Insert
}

// Select is a query request for either backend.
type Select struct {
	Relational *postgres.Select
	Document   *mongodb.Select
}

// Update is an update request for either backend.
type Update struct {
	Relational *postgres.Update
	Document   *mongodb.Update
}

// Delete is a delete request for either backend.
type Delete struct {
	Relational *postgres.Delete
	Document   *mongodb.Delete
}

// InsertResult carries the backend's native insert outcome: Rows for a
// relational insert (its RETURNING rows), ID for a document insert.
type InsertResult struct {
	Rows []map[string]any
	ID   any
}

// Insert forwards req to the adapter of its backend.
func (s *Service) Insert(ctx context.Context, req Insert) (InsertResult, error) {
	kind, err := variant("insert", req.Relational != nil, req.Document != nil)
	if err != nil {
		return InsertResult{}, err
	}
	switch kind {
	case database.KindRelational:
		rows, err := s.relational.Insert(ctx, *req.Relational)
		if err != nil {
			return InsertResult{}, err
		}
		return InsertResult{Rows: rows}, nil
	case database.KindDocument:
		id, err := s.document.Insert(ctx, *req.Document)
		if err != nil {
			return InsertResult{}, err
		}
		return InsertResult{ID: id}, nil
	}
	return InsertResult{}, unreachable("insert")
}

// Select forwards req to the adapter of its backend. Relational rows and
// documents are both returned as field-name maps.
func (s *Service) Select(ctx context.Context, req Select) ([]map[string]any, error) {
	kind, err := variant("select", req.Relational != nil, req.Document != nil)
	if err != nil {
		return nil, err
	}
	switch kind {
	case database.KindRelational:
		return s.relational.Select(ctx, *req.Relational)
	case database.KindDocument:
		return s.document.Select(ctx, *req.Document)
	}
	return nil, unreachable("select")
}

// Update forwards req to the adapter of its backend. The boolean means
// "returned rows" for relational and "acknowledged" for document updates.
func (s *Service) Update(ctx context.Context, req Update) (bool, error) {
	kind, err := variant("update", req.Relational != nil, req.Document != nil)
	if err != nil {
		return false, err
	}
	switch kind {
	case database.KindRelational:
		return s.relational.Update(ctx, *req.Relational)
	case database.KindDocument:
		return s.document.Update(ctx, *req.Document)
	}
	return false, unreachable("update")
}

// Delete forwards req to the adapter of its backend.
func (s *Service) Delete(ctx context.Context, req Delete) (bool, error) {
	kind, err := variant("delete", req.Relational != nil, req.Document != nil)
	if err != nil {
		return false, err
	}
	switch kind {
	case database.KindRelational:
		return s.relational.Delete(ctx, *req.Relational)
	case database.KindDocument:
		return s.document.Delete(ctx, *req.Document)
	}
	return false, unreachable("delete")
}

// variant reports which side of a request union is set.
func variant(op string, relational, document bool) (database.Kind, error) {
	switch {
	case relational && document:
		return database.KindUnknown, errs.Newf(errs.ErrKindInvalidInput,
			"%s request must target exactly one backend, got both", op)
	case relational:
		return database.KindRelational, nil
	case document:
		return database.KindDocument, nil
	default:
		return database.KindUnknown, errs.Newf(errs.ErrKindInvalidInput,
			"%s request must target exactly one backend, got none", op)
	}
}

func unreachable(op string) error {
	return errs.Newf(errs.ErrKindUnknown, "%s: unhandled backend", op)
}
