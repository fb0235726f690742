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

package types

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Value is the discriminated value used for parameter bindings and coerced
// result cells. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	b    bool
	c    Char
	s    string
	d    decimal.Decimal
	g    uuid.UUID
	t    time.Time
	raw  []byte
}

// Null is the SQL NULL value.
var Null = Value{}

func IntValue(v int64) Value               { return Value{kind: KindInt, i: v} }
func UintValue(v uint64) Value             { return Value{kind: KindUint, u: v} }
func FloatValue(v float64) Value           { return Value{kind: KindFloat, f: v} }
func DecimalValue(v decimal.Decimal) Value { return Value{kind: KindDecimal, d: v} }
func BoolValue(v bool) Value               { return Value{kind: KindBool, b: v} }
func CharValue(v Char) Value               { return Value{kind: KindChar, c: v} }
func StringValue(v string) Value           { return Value{kind: KindString, s: v} }
func UUIDValue(v uuid.UUID) Value          { return Value{kind: KindUUID, g: v} }
func TimeValue(v time.Time) Value          { return Value{kind: KindTime, t: v} }

// BytesValue copies v into a bytes Value. A nil slice is Null.
func BytesValue(v []byte) Value {
	if v == nil {
		return Null
	}
	raw := make([]byte, len(v))
	copy(raw, v)
	return Value{kind: KindBytes, raw: raw}
}

// ValueOf converts a Go value into a Value. Nil pointers become Null and
// driver.Valuer implementations are resolved to their driver value first.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case Char:
		if x == 0 {
			return Null, nil
		}
		return CharValue(x), nil
	case uuid.UUID:
		return UUIDValue(x), nil
	case decimal.Decimal:
		return DecimalValue(x), nil
	case time.Time:
		return TimeValue(x), nil
	case []byte:
		return BytesValue(x), nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return UintValue(uint64(x)), nil
	case uint8:
		return UintValue(uint64(x)), nil
	case uint16:
		return UintValue(uint64(x)), nil
	case uint32:
		return UintValue(uint64(x)), nil
	case uint64:
		return UintValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null, nil
		}
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return Null, fmt.Errorf("failed to resolve driver value of %T: %w", v, err)
		}
		return ValueOf(dv)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return ValueOf(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return UintValue(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	}
	return Null, &UnsupportedValueError{Value: v}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsEmpty reports whether v is Null or renders as an empty string.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == ""
	case KindChar:
		return v.c == 0
	}
	return false
}

func (v Value) Int() int64               { return v.i }
func (v Value) Uint() uint64             { return v.u }
func (v Value) Float() float64           { return v.f }
func (v Value) Decimal() decimal.Decimal { return v.d }
func (v Value) Bool() bool               { return v.b }
func (v Value) Char() Char               { return v.c }
func (v Value) Str() string              { return v.s }
func (v Value) UUID() uuid.UUID          { return v.g }
func (v Value) Time() time.Time          { return v.t }
func (v Value) Bytes() []byte            { return v.raw }

// Interface returns the value in the form handed to a database driver.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindDecimal:
		return v.d
	case KindBool:
		return v.b
	case KindChar:
		return v.c.String()
	case KindString:
		return v.s
	case KindUUID:
		return v.g
	case KindTime:
		return v.t
	case KindBytes:
		return v.raw
	default:
		return nil
	}
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.d.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindChar:
		return v.c.String()
	case KindString:
		return v.s
	case KindUUID:
		return v.g.String()
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindBytes:
		return fmt.Sprintf("%x", v.raw)
	default:
		return IllegalName
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindDecimal:
		return v.d.Equal(o.d)
	case KindTime:
		return v.t.Equal(o.t)
	case KindBytes:
		return string(v.raw) == string(o.raw)
	default:
		return v.Interface() == o.Interface()
	}
}
