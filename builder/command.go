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
	"strings"
	"time"

	"github.com/tomoncle/norm/convert"
	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

// Command is a complete statement and its parameter bindings.
type Command struct {
	Text   string
	Params *types.Params
}

type options struct {
	clock      func() time.Time
	registry   *schema.Registry
	converters *convert.Registry
}

type Option func(*options)

// WithClock sets the time source used to stamp convention columns.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRegistry describes entities with r instead of schema.Default().
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithConverters assigns stamped timestamps with r instead of convert.Default().
func WithConverters(r *convert.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.converters = r
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:      time.Now,
		registry:   schema.Default(),
		converters: convert.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// entityValue returns the struct behind entity, which must be a non-nil
// pointer to a struct.
func entityValue(entity any) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, &InvalidArgumentError{
			Argument: "entity",
			Value:    entity,
			Reason:   "must be a non-nil pointer to a struct",
		}
	}
	return v.Elem(), nil
}

func (o *options) describeWritable(entity any) (*schema.EntityDescriptor, reflect.Value, error) {
	ev, err := entityValue(entity)
	if err != nil {
		return nil, reflect.Value{}, err
	}
	desc := o.registry.Describe(ev.Type())
	if !desc.HasPrimaryKey() {
		return nil, reflect.Value{}, &NoPrimaryKeyError{Type: desc.Table}
	}
	return desc, ev, nil
}

// bindColumn reads the value of c from ev. Empty values bind as NULL.
func bindColumn(c *schema.Column, ev reflect.Value) (types.Value, error) {
	v, err := types.ValueOf(c.FieldOf(ev).Interface())
	if err != nil {
		return types.Null, err
	}
	if v.IsEmpty() {
		return types.Null, nil
	}
	return v, nil
}

// stamp sets c on ev to the current time and returns the stored value.
func (o *options) stamp(c *schema.Column, ev reflect.Value) (types.Value, error) {
	field := c.FieldOf(ev)
	if err := o.converters.Assign(field, o.clock()); err != nil {
		return types.Null, err
	}
	return types.ValueOf(field.Interface())
}

func quote(name string) string {
	return "[" + name + "]"
}

func joinColumns(names []string, prefix, suffix string) string {
	var sb strings.Builder
	for i, n := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(prefix + n + suffix)
	}
	return sb.String()
}
