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

	"github.com/tomoncle/norm/types"
)

// Connection creates parameterized commands against one database.
type Connection interface {
	CreateCommand() Command
}

// Command is a single parameterized statement.
type Command interface {
	SetText(sql string)
	Text() string
	AddParameter(name string, value types.Value)
	// ExecuteScalar returns the first column of the first row, or nil.
	ExecuteScalar(ctx context.Context) (any, error)
	// ExecuteNonQuery returns the number of affected rows.
	ExecuteNonQuery(ctx context.Context) (int64, error)
	ExecuteReader(ctx context.Context) (RowCursor, error)
}

// RowCursor iterates the rows of a result set. Value returns DBNull for a
// NULL cell and nil for a column the row does not have.
type RowCursor interface {
	Read() bool
	FieldCount() int
	ColumnName(i int) string
	Value(name string) any
	Err() error
	Close() error
}

type dbNull struct{}

func (dbNull) String() string { return "DBNull" }

// DBNull is the cell value a RowCursor reports for SQL NULL.
var DBNull any = dbNull{}

// IsNull reports whether v is nil or DBNull.
func IsNull(v any) bool {
	return v == nil || v == DBNull
}
