// Package service is the single call surface of the module. It resolves a
// named database configuration to an open connection of the right backend,
// and forwards tagged CRUD requests to the matching adapter.
//
// Usage:
//
//	cfg := config.MustLoad()
//	svc := service.New(cfg)
//
//	conn, err := svc.Connect(ctx, "")        // first configured database
//	if err != nil { ... }
//	defer conn.Close(ctx)
//
//	rows, err := svc.Select(ctx, service.Select{
//	    Relational: &postgres.Select{Conn: conn.Relational(), Query: "SELECT * FROM users"},
//	})
package service

import (
	"context"

	"github.com/FractureX/fracturex-module-database/internal/config"
	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/database/mongodb"
	"github.com/FractureX/fracturex-module-database/internal/database/postgres"
	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/logger"
)

// Service dispatches requests to the relational and document adapters.
type Service struct {
	cfg        *config.Config
	log        *logger.Logger
	relational *postgres.Adapter
	document   *mongodb.Adapter

	openRelational func(ctx context.Context, url string) (*postgres.Conn, error)
	openDocument   func(ctx context.Context, url string) (*mongodb.Conn, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a Service over cfg. A nil cfg behaves as an empty registry.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = &config.Config{Log: *logger.DefaultConfig()}
	}
	s := &Service{
		cfg:            cfg,
		openRelational: postgres.Connect,
		openDocument:   mongodb.Connect,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.New(&cfg.Log)
	}
	s.relational = postgres.NewAdapter(s.log, cfg.Debug)
	s.document = mongodb.NewAdapter(s.log, cfg.Debug)
	return s
}

// Config resolves name to its configuration entry without connecting.
// An empty name selects the first entry in registry order.
func (s *Service) Config(name string) (config.DatabaseConfig, error) {
	reg := s.cfg.Databases
	if reg.Len() == 0 {
		return config.DatabaseConfig{}, errs.New(errs.ErrKindNoConfiguration, "no database configuration registered")
	}

	if name == "" {
		entry, _ := reg.First()
		return entry, nil
	}
	entry, ok := reg.Lookup(name)
	if !ok {
		return config.DatabaseConfig{}, errs.Newf(errs.ErrKindNotFound, "no database configuration named %q", name)
	}
	return entry, nil
}

// Connect opens a connection for the configuration called name, or the first
// configured one when name is empty. The backend is inferred from the
// address; an unrecognized address fails before any connection attempt.
// The returned Connection belongs to the caller, who must Close it.
func (s *Service) Connect(ctx context.Context, name string) (*Connection, error) {
	entry, err := s.Config(name)
	if err != nil {
		s.log.ErrorWith("resolve database configuration", err, map[string]interface{}{"name": name})
		return nil, err
	}

	kind, err := entry.Kind()
	if err != nil {
		s.log.ErrorWith("resolve database backend", err, map[string]interface{}{"name": entry.Name})
		return nil, err
	}

	conn := &Connection{Name: entry.Name, Kind: kind}
	switch kind {
	case database.KindRelational:
		conn.relational, err = s.openRelational(ctx, entry.URL)
	case database.KindDocument:
		conn.document, err = s.openDocument(ctx, entry.URL)
	default:
		err = errs.Newf(errs.ErrKindUnrecognizedBackend, "unrecognized database backend for %q", entry.Name)
	}
	if err != nil {
		if !errs.IsConnectionFailed(err) && !errs.IsUnrecognizedBackend(err) {
			err = errs.Wrap(errs.ErrKindConnectionFailed, "could not connect to the database: "+err.Error(), err)
		}
		s.log.ErrorWith("open database connection", err, map[string]interface{}{
			"name":    entry.Name,
			"backend": kind.String(),
		})
		return nil, err
	}

	s.log.DebugWith("database connection opened", map[string]interface{}{
		"name":     entry.Name,
		"backend":  kind.String(),
		"database": conn.Database(),
	})
	return conn, nil
}

// Notify publishes a notification through the relational adapter.
func (s *Service) Notify(ctx context.Context, req postgres.Notify) error {
	return s.relational.Notify(ctx, req)
}
