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

package builder

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

// SelectBuilder builds a SELECT over one entity table.
type SelectBuilder struct {
	desc    *schema.EntityDescriptor
	where   predicate.Predicate
	orderBy []types.OrderKey
	limit   int
	err     error
}

// Select starts a SELECT over the table of T.
func Select[T any](opts ...Option) *SelectBuilder {
	o := newOptions(opts)
	return SelectFrom(o.registry.Describe(reflect.TypeOf((*T)(nil)).Elem()))
}

// SelectFrom starts a SELECT over the table described by desc.
func SelectFrom(desc *schema.EntityDescriptor) *SelectBuilder {
	return &SelectBuilder{desc: desc}
}

// Where replaces the filter.
func (b *SelectBuilder) Where(p predicate.Predicate) *SelectBuilder {
	b.where = p
	return b
}

// OrderBy appends an ascending sort key.
func (b *SelectBuilder) OrderBy(column string) *SelectBuilder {
	return b.order(column, types.Asc)
}

// OrderByDesc appends a descending sort key.
func (b *SelectBuilder) OrderByDesc(column string) *SelectBuilder {
	return b.order(column, types.Desc)
}

func (b *SelectBuilder) order(column string, dir types.SortDirection) *SelectBuilder {
	if b.err != nil {
		return b
	}
	c, ok := b.desc.Column(column)
	if !ok {
		b.err = &predicate.UnresolvedFieldError{Type: b.desc.Table, Field: column}
		return b
	}
	b.orderBy = append(b.orderBy, types.NewOrderKey(c.Name, dir))
	return b
}

// Limit caps the result at n rows. n must be positive.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n <= 0 {
		if b.err == nil {
			b.err = &InvalidArgumentError{Argument: "limit", Value: n, Reason: "must be greater than zero"}
		}
		return b
	}
	b.limit = n
	return b
}

// Build renders the statement, reporting the first error recorded while
// the builder was configured.
func (b *SelectBuilder) Build() (Command, error) {
	if b.err != nil {
		return Command{}, b.err
	}
	where, err := predicate.TranslatePredicate(b.desc, b.where)
	if err != nil {
		return Command{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.limit > 0 {
		sb.WriteString("TOP " + strconv.Itoa(b.limit) + " ")
	}
	sb.WriteString("* FROM " + quote(b.desc.Table))
	if !where.IsEmpty() {
		sb.WriteString(" WHERE " + where.Text)
	}
	for i, key := range b.orderBy {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(key.SQL())
	}
	return Command{Text: sb.String(), Params: where.Params}, nil
}
