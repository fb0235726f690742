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

package convert

import (
	"database/sql"
	"errors"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/types"
)

// Converter converts a non-null raw value into a value of type target.
type Converter func(raw any, target reflect.Type) (reflect.Value, error)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

var errUnsupported = errors.New("unsupported conversion")

// Registry resolves a Converter for a target type: an exact type match
// first, then sql.Scanner, then the target's reflect.Kind.
type Registry struct {
	byType *xsync.MapOf[reflect.Type, Converter]
	byKind map[reflect.Kind]Converter
}

var defaultRegistry = NewRegistry()

// NewRegistry returns a registry holding the built-in converters.
func NewRegistry() *Registry {
	r := &Registry{
		byType: xsync.NewMapOf[reflect.Type, Converter](),
		byKind: make(map[reflect.Kind]Converter, len(kindConverters)),
	}
	for t, fn := range typeConverters {
		r.byType.Store(t, fn)
	}
	for k, fn := range kindConverters {
		r.byKind[k] = fn
	}
	return r
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register installs fn for values of exactly type t, replacing any
// built-in converter.
func (r *Registry) Register(t reflect.Type, fn Converter) {
	r.byType.Store(t, fn)
}

// Coerce converts raw into a value of type target. Null input yields nil
// whatever the target.
func (r *Registry) Coerce(raw any, target reflect.Type) (any, error) {
	v, err := r.coerce(raw, target)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, nil
	}
	return v.Interface(), nil
}

// Assign coerces raw into the type of dst and stores it. dst must be
// settable.
func (r *Registry) Assign(dst reflect.Value, raw any) error {
	v, err := r.coerce(raw, dst.Type())
	if err != nil {
		return err
	}
	if !v.IsValid() {
		dst.SetZero()
		return nil
	}
	dst.Set(v)
	return nil
}

// coerce returns an invalid Value for null input on a non-pointer target.
func (r *Registry) coerce(raw any, target reflect.Type) (reflect.Value, error) {
	raw = normalize(raw)
	if raw == nil {
		if target.Kind() == reflect.Pointer {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type() == target {
		return rv, nil
	}
	if target.Kind() == reflect.Pointer {
		elem, err := r.coerce(raw, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	if rv.Kind() == reflect.Pointer {
		return r.coerce(rv.Elem().Interface(), target)
	}

	if fn, ok := r.byType.Load(target); ok {
		return fn(raw, target)
	}
	if reflect.PointerTo(target).Implements(scannerType) {
		ptr := reflect.New(target)
		if err := ptr.Interface().(sql.Scanner).Scan(raw); err != nil {
			return fail(raw, target, err)
		}
		return ptr.Elem(), nil
	}
	if fn, ok := r.byKind[target.Kind()]; ok {
		return fn(raw, target)
	}
	if rv.Type().AssignableTo(target) {
		v := reflect.New(target).Elem()
		v.Set(rv)
		return v, nil
	}
	return fail(raw, target, errUnsupported)
}

// normalize maps every null form to nil and unwraps types.Value.
func normalize(raw any) any {
	switch x := raw.(type) {
	case nil:
		return nil
	case types.Value:
		return x.Interface()
	case *types.Value:
		if x == nil {
			return nil
		}
		return x.Interface()
	}
	if database.IsNull(raw) {
		return nil
	}
	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return raw
}

// Coerce converts raw to target with the default registry.
func Coerce(raw any, target reflect.Type) (any, error) {
	return defaultRegistry.Coerce(raw, target)
}

// Assign stores raw into dst with the default registry.
func Assign(dst reflect.Value, raw any) error {
	return defaultRegistry.Assign(dst, raw)
}

// To converts raw to T with the default registry. Null yields the zero T.
func To[T any](raw any) (T, error) {
	var zero T
	v, err := defaultRegistry.Coerce(raw, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
