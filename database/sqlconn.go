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

package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tomoncle/norm/types"
	"github.com/uptrace/bun"
)

// Executor is the part of *sql.DB, *sql.Conn and *sql.Tx the adapter uses.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ConnOption func(*sqlConnection)

// WithQueryHooks runs hooks around every statement the connection executes.
func WithQueryHooks(hooks ...bun.QueryHook) ConnOption {
	return func(c *sqlConnection) {
		c.hooks = append(c.hooks, hooks...)
	}
}

type sqlConnection struct {
	exec  Executor
	hooks []bun.QueryHook
}

// NewConnection adapts exec to Connection. Parameters are bound with
// sql.Named so the driver sees @name placeholders.
func NewConnection(exec Executor, opts ...ConnOption) Connection {
	c := &sqlConnection{exec: exec}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewBunConnection adapts the *sql.DB underneath db. bun query hooks added
// to db do not run for adapter statements; pass them as hooks instead.
func NewBunConnection(db *bun.DB, hooks ...bun.QueryHook) Connection {
	return NewConnection(db.DB, WithQueryHooks(hooks...))
}

func (c *sqlConnection) CreateCommand() Command {
	return &sqlCommand{conn: c}
}

func (c *sqlConnection) beforeQuery(ctx context.Context, query string, args []any) (context.Context, *bun.QueryEvent) {
	if len(c.hooks) == 0 {
		return ctx, nil
	}
	event := &bun.QueryEvent{
		Query:     query,
		QueryArgs: args,
		StartTime: time.Now(),
	}
	for _, h := range c.hooks {
		ctx = h.BeforeQuery(ctx, event)
	}
	return ctx, event
}

func (c *sqlConnection) afterQuery(ctx context.Context, event *bun.QueryEvent, res sql.Result, err error) {
	if event == nil {
		return
	}
	event.Result = res
	event.Err = err
	for i := len(c.hooks) - 1; i >= 0; i-- {
		c.hooks[i].AfterQuery(ctx, event)
	}
}

type sqlCommand struct {
	conn   *sqlConnection
	text   string
	params []types.Param
}

func (cmd *sqlCommand) SetText(sql string) { cmd.text = sql }

func (cmd *sqlCommand) Text() string { return cmd.text }

func (cmd *sqlCommand) AddParameter(name string, value types.Value) {
	cmd.params = append(cmd.params, types.Param{Name: name, Value: value})
}

func (cmd *sqlCommand) args() []any {
	args := make([]any, len(cmd.params))
	for i, p := range cmd.params {
		args[i] = sql.Named(p.Name, p.Value.Interface())
	}
	return args
}

func (cmd *sqlCommand) ExecuteScalar(ctx context.Context) (any, error) {
	args := cmd.args()
	ctx, event := cmd.conn.beforeQuery(ctx, cmd.text, args)

	var v any
	err := cmd.conn.exec.QueryRowContext(ctx, cmd.text, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	cmd.conn.afterQuery(ctx, event, nil, err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (cmd *sqlCommand) ExecuteNonQuery(ctx context.Context) (int64, error) {
	args := cmd.args()
	ctx, event := cmd.conn.beforeQuery(ctx, cmd.text, args)

	res, err := cmd.conn.exec.ExecContext(ctx, cmd.text, args...)
	cmd.conn.afterQuery(ctx, event, res, err)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (cmd *sqlCommand) ExecuteReader(ctx context.Context) (RowCursor, error) {
	args := cmd.args()
	ctx, event := cmd.conn.beforeQuery(ctx, cmd.text, args)

	rows, err := cmd.conn.exec.QueryContext(ctx, cmd.text, args...)
	cmd.conn.afterQuery(ctx, event, nil, err)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		key := strings.ToLower(name)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	return &sqlRowCursor{rows: rows, columns: columns, index: index}, nil
}

type sqlRowCursor struct {
	rows    *sql.Rows
	columns []string
	index   map[string]int
	values  []any
	err     error
}

func (c *sqlRowCursor) Read() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	values := make([]any, len(c.columns))
	dest := make([]any, len(c.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = err
		return false
	}
	c.values = values
	return true
}

func (c *sqlRowCursor) FieldCount() int { return len(c.columns) }

func (c *sqlRowCursor) ColumnName(i int) string { return c.columns[i] }

func (c *sqlRowCursor) Value(name string) any {
	i, ok := c.index[strings.ToLower(name)]
	if !ok || c.values == nil {
		return nil
	}
	if c.values[i] == nil {
		return DBNull
	}
	return c.values[i]
}

func (c *sqlRowCursor) Err() error { return c.err }

func (c *sqlRowCursor) Close() error { return c.rows.Close() }
