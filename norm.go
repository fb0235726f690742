/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package norm maps plain Go structs onto SQL Server tables. Queries are
// written as typed predicates and translated into parameterized SQL; writes
// are derived from the entity's columns by convention.
//
//	db := norm.New(conn)
//	people, err := norm.Select[Person](db, predicate.Field("LastName").Eq("Doe")).
//		OrderBy("FirstName").
//		Limit(10).
//		ToList(ctx)
package norm

import (
	"context"
	"time"

	"github.com/tomoncle/norm/builder"
	"github.com/tomoncle/norm/convert"
	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/mapper"
	"github.com/tomoncle/norm/schema"
)

// Database runs generated statements against a database.Connection.
type Database struct {
	conn       database.Connection
	factory    *database.BaseDatabaseFactory
	registry   *schema.Registry
	converters *convert.Registry
	clock      func() time.Time
	logger     database.Logger
}

type Option func(*Database)

// WithRegistry describes entity types with r instead of schema.Default().
func WithRegistry(r *schema.Registry) Option {
	return func(db *Database) {
		if r != nil {
			db.registry = r
		}
	}
}

// WithConverters coerces result cells with r instead of convert.Default().
func WithConverters(r *convert.Registry) Option {
	return func(db *Database) {
		if r != nil {
			db.converters = r
		}
	}
}

// WithClock sets the time source for created and updated columns.
func WithClock(clock func() time.Time) Option {
	return func(db *Database) {
		if clock != nil {
			db.clock = clock
		}
	}
}

// WithLogger replaces database.GetLogger() for failed statements.
func WithLogger(logger database.Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// New wraps an open connection. The caller keeps ownership of conn.
func New(conn database.Connection, opts ...Option) *Database {
	db := &Database{
		conn:       conn,
		registry:   schema.Default(),
		converters: convert.Default(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = database.GetLogger()
	}
	return db
}

// Open connects with cfg. The returned Database owns the connection pool
// and releases it on Close. Generated statements are SQL Server SQL, so any
// other cfg type fails with UnsupportedDatabaseError before connecting.
func Open(ctx context.Context, cfg *database.Config, opts ...Option) (*Database, error) {
	if cfg != nil && !database.IsSQLServer(cfg.ConnectionConfig.Type) {
		return nil, &UnsupportedDatabaseError{Type: cfg.ConnectionConfig.Type}
	}
	factory, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := New(factory.Connection(), opts...)
	db.factory = factory
	return db, nil
}

// Conn returns the underlying connection.
func (db *Database) Conn() database.Connection {
	return db.conn
}

// Registry returns the schema registry entities are described with.
func (db *Database) Registry() *schema.Registry {
	return db.registry
}

// HealthCheck reports the state of an owned connection pool. A borrowed
// connection reports nil.
func (db *Database) HealthCheck(ctx context.Context) *database.HealthStatus {
	if db.factory == nil {
		return nil
	}
	return db.factory.GetHealthStatus(ctx)
}

// Close releases an owned connection pool. Closing a Database created with
// New is a no-op.
func (db *Database) Close() error {
	if db.factory == nil {
		return nil
	}
	return db.factory.Close()
}

func (db *Database) builderOptions() []builder.Option {
	return []builder.Option{
		builder.WithClock(db.clock),
		builder.WithRegistry(db.registry),
		builder.WithConverters(db.converters),
	}
}

func (db *Database) mapperOptions() []mapper.Option {
	return []mapper.Option{
		mapper.WithRegistry(db.registry),
		mapper.WithConverters(db.converters),
	}
}

func (db *Database) prepare(cmd builder.Command) database.Command {
	c := db.conn.CreateCommand()
	c.SetText(cmd.Text)
	for _, p := range cmd.Params.All() {
		c.AddParameter(p.Name, p.Value)
	}
	return c
}

func (db *Database) failed(cmd builder.Command, err error) error {
	db.logger.Error("statement failed", "sql", cmd.Text, "params", cmd.Params.Len(), "error", err)
	return err
}
