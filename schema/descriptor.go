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

package schema

import (
	"reflect"
	"strings"

	"github.com/vmihailenco/tagparser/v2"
)

// TagName is the struct tag read while deriving columns:
//
//	norm:"-"            skip the field
//	norm:"Name"         column name differs from the field name
//	norm:",pk"          explicit primary key
//	norm:",nullable"    column accepts NULL
const TagName = "norm"

// Column describes one mapped entity field.
type Column struct {
	Name     string
	Field    string
	Type     reflect.Type
	Nullable bool

	index []int
	pk    bool
}

// FieldOf returns the field of the entity struct value v. Nil embedded
// struct pointers on the way are allocated when v is addressable; otherwise
// the zero value of the column type is returned.
func (c *Column) FieldOf(v reflect.Value) reflect.Value {
	for i, x := range c.index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Zero(c.Type)
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// EntityDescriptor is the immutable column layout of an entity type.
type EntityDescriptor struct {
	Type       reflect.Type
	Table      string
	Columns    []*Column
	PrimaryKey *Column

	byName map[string]*Column
}

// HasPrimaryKey reports whether exactly one key column was found.
func (d *EntityDescriptor) HasPrimaryKey() bool {
	return d.PrimaryKey != nil
}

// Column looks a column up by name, case-insensitively.
func (d *EntityDescriptor) Column(name string) (*Column, bool) {
	c, ok := d.byName[strings.ToLower(name)]
	return c, ok
}

// ColumnNames returns the column names in declaration order.
func (d *EntityDescriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

func describe(t reflect.Type) *EntityDescriptor {
	desc := &EntityDescriptor{
		Type:   t,
		Table:  t.Name(),
		byName: make(map[string]*Column),
	}
	if t.Kind() != reflect.Struct {
		return desc
	}

	collectColumns(desc, t, nil)

	var tagged, named []*Column
	for _, c := range desc.Columns {
		if c.pk {
			tagged = append(tagged, c)
		}
		if IsPrimaryKeyName(t.Name(), c.Name) {
			named = append(named, c)
		}
	}
	switch {
	case len(tagged) > 0:
		if len(tagged) == 1 {
			desc.PrimaryKey = tagged[0]
		}
	case len(named) == 1:
		desc.PrimaryKey = named[0]
	}
	return desc
}

func collectColumns(desc *EntityDescriptor, t reflect.Type, parent []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		if f.Anonymous {
			if _, tagged := f.Tag.Lookup(TagName); !tagged {
				switch {
				case f.Type.Kind() == reflect.Struct:
					collectColumns(desc, f.Type, index)
					continue
				case f.Type.Kind() == reflect.Pointer && f.Type.Elem().Kind() == reflect.Struct:
					// unexported embedded pointers cannot be allocated
					if f.IsExported() {
						collectColumns(desc, f.Type.Elem(), index)
					}
					continue
				}
			}
		}
		if !f.IsExported() {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}

		tag := tagparser.Parse(f.Tag.Get(TagName))
		if tag.Name == "-" {
			continue
		}
		name := f.Name
		if tag.Name != "" {
			name = tag.Name
		}
		key := strings.ToLower(name)
		if _, dup := desc.byName[key]; dup {
			continue
		}

		c := &Column{
			Name:     name,
			Field:    f.Name,
			Type:     f.Type,
			Nullable: tag.HasOption("nullable") || isNullable(f.Type),
			index:    index,
			pk:       tag.HasOption("pk"),
		}
		desc.Columns = append(desc.Columns, c)
		desc.byName[key] = c
	}
}

func isNullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return t.PkgPath() == "database/sql" && strings.HasPrefix(t.Name(), "Null")
}
