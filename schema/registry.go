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
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

var defaultRegistry = NewRegistry()

// Registry caches one EntityDescriptor per entity type for the life of the
// process. Descriptors are derived on first use and never invalidated.
type Registry struct {
	entities *xsync.MapOf[reflect.Type, *EntityDescriptor]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: xsync.NewMapOf[reflect.Type, *EntityDescriptor](),
	}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Describe returns the descriptor of t, deriving it on first use. Pointer
// types describe their element type.
func (r *Registry) Describe(t reflect.Type) *EntityDescriptor {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	desc, _ := r.entities.LoadOrCompute(t, func() *EntityDescriptor {
		return describe(t)
	})
	return desc
}

// DescribeOf returns the descriptor of the dynamic type of entity.
func (r *Registry) DescribeOf(entity any) *EntityDescriptor {
	return r.Describe(reflect.TypeOf(entity))
}

// PrimaryKey returns the key column of t, or nil when t has none.
func (r *Registry) PrimaryKey(t reflect.Type) *Column {
	return r.Describe(t).PrimaryKey
}

// Register derives the descriptors of models up front, typically at startup.
func (r *Registry) Register(models ...any) {
	for _, model := range models {
		if model == nil {
			continue
		}
		r.DescribeOf(model)
	}
}

// Len returns the number of described entity types.
func (r *Registry) Len() int {
	return r.entities.Size()
}

// Entities returns every described entity ordered by table name.
func (r *Registry) Entities() []*EntityDescriptor {
	result := make([]*EntityDescriptor, 0, r.entities.Size())
	r.entities.Range(func(_ reflect.Type, desc *EntityDescriptor) bool {
		result = append(result, desc)
		return true
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i].Table < result[j].Table
	})
	return result
}

// Describe returns the descriptor of t from the default registry.
func Describe(t reflect.Type) *EntityDescriptor {
	return defaultRegistry.Describe(t)
}

// Register derives descriptors for models in the default registry.
func Register(models ...any) {
	defaultRegistry.Register(models...)
}
