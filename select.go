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

package norm

import (
	"context"
	"reflect"

	"github.com/tomoncle/norm/builder"
	"github.com/tomoncle/norm/mapper"
	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/types"
)

// SelectQuery is a pending SELECT of T.
type SelectQuery[T any] struct {
	db *Database
	sb *builder.SelectBuilder
}

// Select starts a query of T filtered by where. A zero predicate selects
// every row.
func Select[T any](db *Database, where predicate.Predicate) *SelectQuery[T] {
	desc := db.registry.Describe(reflect.TypeOf((*T)(nil)).Elem())
	return &SelectQuery[T]{
		db: db,
		sb: builder.SelectFrom(desc).Where(where),
	}
}

// Limit caps the result at n rows; n must be positive.
func (q *SelectQuery[T]) Limit(n int) *SelectQuery[T] {
	q.sb.Limit(n)
	return q
}

func (q *SelectQuery[T]) OrderBy(column string) *SelectQuery[T] {
	q.sb.OrderBy(column)
	return q
}

func (q *SelectQuery[T]) OrderByDesc(column string) *SelectQuery[T] {
	q.sb.OrderByDesc(column)
	return q
}

// SQL returns the statement the query would run.
func (q *SelectQuery[T]) SQL() (builder.Command, error) {
	return q.sb.Build()
}

// ToList runs the query and returns every matching row.
func (q *SelectQuery[T]) ToList(ctx context.Context) ([]*T, error) {
	cmd, err := q.sb.Build()
	if err != nil {
		return nil, err
	}
	cursor, err := q.db.prepare(cmd).ExecuteReader(ctx)
	if err != nil {
		return nil, q.db.failed(cmd, err)
	}
	rows, err := mapper.Map[T](cursor, q.db.mapperOptions()...)
	if err != nil {
		return nil, q.db.failed(cmd, err)
	}
	return rows, nil
}

// SingleOrDefault returns the only matching row, nil when nothing matches,
// or ErrMultipleRows.
func (q *SelectQuery[T]) SingleOrDefault(ctx context.Context) (*T, error) {
	rows, err := q.ToList(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}
	return nil, &MultipleRowsError{Count: len(rows)}
}

// Find runs a one-shot query. An empty orderBy leaves the order to the
// server and a non-positive top returns every row.
func Find[T any](ctx context.Context, db *Database, where predicate.Predicate, orderBy string, direction types.SortDirection, top int) ([]*T, error) {
	q := Select[T](db, where)
	if orderBy != "" {
		if direction == types.Desc {
			q.OrderByDesc(orderBy)
		} else {
			q.OrderBy(orderBy)
		}
	}
	if top > 0 {
		q.Limit(top)
	}
	return q.ToList(ctx)
}
