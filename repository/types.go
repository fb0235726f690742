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

	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/types"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	Create(ctx context.Context, entity ...*T) error

	Update(ctx context.Context, entity *T) (bool, error)

	Delete(ctx context.Context, entity *T) (bool, error)

	DeleteByID(ctx context.Context, id any) (bool, error)
}

// QueryRepository defines predicate queries.
type QueryRepository[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, where predicate.Predicate, orders ...types.OrderKey) ([]*T, error)

	// Top returns at most n rows.
	Top(ctx context.Context, n int, where predicate.Predicate, orders ...types.OrderKey) ([]*T, error)
}

type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
}
