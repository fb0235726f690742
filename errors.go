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
	"errors"
	"fmt"
	"reflect"

	"github.com/tomoncle/norm/builder"
	"github.com/tomoncle/norm/convert"
	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/types"
)

type (
	NoPrimaryKeyError         = builder.NoPrimaryKeyError
	InvalidArgumentError      = builder.InvalidArgumentError
	UnsupportedOperationError = predicate.UnsupportedOperationError
	UnresolvedFieldError      = predicate.UnresolvedFieldError
	DuplicateParameterError   = types.DuplicateParameterError
	ConversionError           = convert.ConversionError
)

// ErrNoGeneratedKey is returned when an insert yields no key.
var ErrNoGeneratedKey = errors.New("insert returned no generated key")

// MultipleRowsError is returned by SingleOrDefault when more than one row
// matches.
type MultipleRowsError struct {
	Count int
}

func (e *MultipleRowsError) Error() string {
	return fmt.Sprintf("expected at most one row, got %d", e.Count)
}

// UnsupportedDatabaseError is returned by Open for a database type the
// generated SQL cannot run on.
type UnsupportedDatabaseError struct {
	Type string
}

func (e *UnsupportedDatabaseError) Error() string {
	return fmt.Sprintf("norm generates SQL Server statements, database type %q is not supported", e.Type)
}

func entityValue(entity any) reflect.Value {
	return reflect.ValueOf(entity).Elem()
}
