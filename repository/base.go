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

package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tomoncle/norm"
	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/types"
)

type baseRepositoryImpl[T any] struct {
	db *norm.Database
}

// NewRepository returns a generic repository backed by db.
func NewRepository[T any](db *norm.Database) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

// Default returns a repository over the connection installed with
// database.InitDB. It panics when no global database is initialized.
func Default[T any]() Repository[T] {
	conn := database.GetConnection()
	if conn == nil {
		panic("repository: database not initialized, call database.InitDB first")
	}
	return NewRepository[T](norm.New(conn))
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	desc := r.db.Registry().Describe(reflect.TypeOf((*T)(nil)).Elem())
	if !desc.HasPrimaryKey() {
		return nil, &norm.NoPrimaryKeyError{Type: desc.Table}
	}
	return norm.Select[T](r.db, predicate.Field(desc.PrimaryKey.Name).Eq(id)).SingleOrDefault(ctx)
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	return norm.Select[T](r.db, predicate.Predicate{}).ToList(ctx)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, where predicate.Predicate, orders ...types.OrderKey) ([]*T, error) {
	return r.query(where, orders).ToList(ctx)
}

func (r *baseRepositoryImpl[T]) Top(ctx context.Context, n int, where predicate.Predicate, orders ...types.OrderKey) ([]*T, error) {
	return r.query(where, orders).Limit(n).ToList(ctx)
}

func (r *baseRepositoryImpl[T]) query(where predicate.Predicate, orders []types.OrderKey) *norm.SelectQuery[T] {
	q := norm.Select[T](r.db, where)
	for _, o := range orders {
		if o.Direction == types.Desc {
			q.OrderByDesc(o.Column)
		} else {
			q.OrderBy(o.Column)
		}
	}
	return q
}

// Create inserts each entity in turn, storing its generated key. It stops
// at the first failure.
func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	for i, e := range entity {
		if _, err := norm.Insert(ctx, r.db, e); err != nil {
			return fmt.Errorf("failed to create entity %d: %w", i, err)
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) (bool, error) {
	return norm.Update(ctx, r.db, entity)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, entity *T) (bool, error) {
	return norm.Delete(ctx, r.db, entity)
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id any) (bool, error) {
	return norm.DeleteByKey[T](ctx, r.db, id)
}
