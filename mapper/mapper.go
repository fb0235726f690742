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

// Package mapper materializes entities from a database.RowCursor.
package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tomoncle/norm/convert"
	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/schema"
)

type options struct {
	registry   *schema.Registry
	converters *convert.Registry
}

type Option func(*options)

func WithRegistry(r *schema.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

func WithConverters(r *convert.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.converters = r
		}
	}
}

// binding pairs a result column with the entity column it fills.
type binding struct {
	name   string
	column *schema.Column
}

// Map reads every remaining row of cursor into a new *T and closes cursor.
// Result columns are matched to entity columns case-insensitively; columns
// with no matching field are ignored and fields with no matching column keep
// their zero value. NULL cells assign the field's zero value.
func Map[T any](cursor database.RowCursor, opts ...Option) (result []*T, err error) {
	o := &options{registry: schema.Default(), converters: convert.Default()}
	for _, opt := range opts {
		opt(o)
	}

	defer func() {
		if cerr := cursor.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close cursor: %w", cerr)
		}
	}()

	desc := o.registry.Describe(reflect.TypeOf((*T)(nil)).Elem())
	bindings := bind(desc, cursor)

	result = make([]*T, 0)
	for cursor.Read() {
		entity := new(T)
		ev := reflect.ValueOf(entity).Elem()
		for _, b := range bindings {
			if err := o.converters.Assign(b.column.FieldOf(ev), cursor.Value(b.name)); err != nil {
				return nil, &ColumnError{Table: desc.Table, Column: b.name, Err: err}
			}
		}
		result = append(result, entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func bind(desc *schema.EntityDescriptor, cursor database.RowCursor) []binding {
	n := cursor.FieldCount()
	bindings := make([]binding, 0, n)
	for i := 0; i < n; i++ {
		name := cursor.ColumnName(i)
		if c, ok := desc.Column(name); ok {
			bindings = append(bindings, binding{name: name, column: c})
		}
	}
	return bindings
}

// ColumnError reports a cell that could not be assigned to its field.
type ColumnError struct {
	Table  string
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("failed to map %s.%s: %v", e.Table, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// IsColumnError reports whether err came from assigning a result cell.
func IsColumnError(err error) bool {
	var ce *ColumnError
	return errors.As(err, &ce)
}
