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
	"errors"
	"math"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/types"
)

type level string

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestCoerceNullAlwaysYieldsNil(t *testing.T) {
	targets := []reflect.Type{
		typeOf[string](), typeOf[int32](), typeOf[decimal.Decimal](), typeOf[float64](),
		typeOf[bool](), typeOf[types.Char](), typeOf[uuid.UUID](), typeOf[time.Time](),
		typeOf[*time.Time](),
	}
	var nilTime *time.Time
	for _, target := range targets {
		for _, raw := range []any{nil, database.DBNull, types.Null, nilTime} {
			v, err := Coerce(raw, target)
			require.NoError(t, err, target.String())
			assert.Nil(t, v, target.String())
		}
	}
}

func TestCoerceParsesText(t *testing.T) {
	tests := []struct {
		raw    any
		target reflect.Type
		want   any
	}{
		{"abcde", typeOf[string](), "abcde"},
		{"123", typeOf[int32](), int32(123)},
		{" 123 ", typeOf[int](), 123},
		{"123.4", typeOf[decimal.Decimal](), decimal.RequireFromString("123.4")},
		{"123.4", typeOf[float64](), 123.4},
		{"true", typeOf[bool](), true},
		{"A", typeOf[types.Char](), types.Char('A')},
		{"1/2/2003", typeOf[time.Time](), time.Date(2003, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2004-02-03", typeOf[time.Time](), time.Date(2004, 2, 3, 0, 0, 0, 0, time.UTC)},
		{[]byte("42"), typeOf[uint16](), uint16(42)},
		{"warn", typeOf[level](), level("warn")},
		{"1500ms", typeOf[time.Duration](), 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			got, err := Coerce(tt.raw, tt.target)
			require.NoError(t, err)
			if d, ok := tt.want.(decimal.Decimal); ok {
				assert.True(t, d.Equal(got.(decimal.Decimal)))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceNullableTargets(t *testing.T) {
	v, err := Coerce("2/3/2004", typeOf[*time.Time]())
	require.NoError(t, err)
	require.IsType(t, &time.Time{}, v)
	assert.Equal(t, time.Date(2004, 2, 3, 0, 0, 0, 0, time.UTC), *v.(*time.Time))

	v, err = Coerce("Q", typeOf[*types.Char]())
	require.NoError(t, err)
	assert.Equal(t, types.Char('Q'), *v.(*types.Char))
}

func TestCoerceGUID(t *testing.T) {
	raw := "79b4a64f-100a-43c7-9d57-12ba0342b449"
	v, err := Coerce(raw, typeOf[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(raw), v)

	g := uuid.MustParse(raw)
	v, err = Coerce(g[:], typeOf[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, g, v)
}

func TestCoerceNumericSources(t *testing.T) {
	v, err := Coerce(int64(7), typeOf[int]())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = Coerce(float64(3), typeOf[int64]())
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = Coerce(types.IntValue(9), typeOf[float32]())
	require.NoError(t, err)
	assert.Equal(t, float32(9), v)

	v, err = Coerce(int64(1), typeOf[bool]())
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Coerce(decimal.NewFromInt(12), typeOf[uint8]())
	require.NoError(t, err)
	assert.Equal(t, uint8(12), v)

	v, err = Coerce(int64(12), typeOf[string]())
	require.NoError(t, err)
	assert.Equal(t, "12", v)
}

func TestCoerceFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		target reflect.Type
	}{
		{"unparsable int", "12a", typeOf[int]()},
		{"empty int", "", typeOf[int]()},
		{"int8 overflow", int64(300), typeOf[int8]()},
		{"int32 overflow text", strconv.FormatInt(math.MaxInt32+1, 10), typeOf[int32]()},
		{"fraction to int", 1.5, typeOf[int]()},
		{"negative to uint", int64(-1), typeOf[uint]()},
		{"float32 overflow", math.MaxFloat64, typeOf[float32]()},
		{"bad bool", "maybe", typeOf[bool]()},
		{"two chars", "AB", typeOf[types.Char]()},
		{"bad guid", "not-a-guid", typeOf[uuid.UUID]()},
		{"bad time", "yesterday", typeOf[time.Time]()},
		{"bad decimal", "1,5", typeOf[decimal.Decimal]()},
		{"struct target", "x", typeOf[struct{ A int }]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(tt.raw, tt.target)
			var convErr *ConversionError
			require.True(t, errors.As(err, &convErr), "got %v", err)
			assert.Equal(t, tt.target, convErr.Target)
			assert.Equal(t, tt.raw, convErr.Value)
		})
	}
}

func TestAssign(t *testing.T) {
	var row struct {
		Id     int
		Name   string
		Middle *types.Char
		Tags   types.JsonObject
	}
	v := reflect.ValueOf(&row).Elem()

	require.NoError(t, Assign(v.Field(0), int64(5)))
	require.NoError(t, Assign(v.Field(1), "Ada"))
	require.NoError(t, Assign(v.Field(2), "L"))
	require.NoError(t, Assign(v.Field(3), []byte(`{"a":1}`)))
	assert.Equal(t, 5, row.Id)
	assert.Equal(t, "Ada", row.Name)
	require.NotNil(t, row.Middle)
	assert.Equal(t, types.Char('L'), *row.Middle)
	assert.Equal(t, types.JsonObject{"a": float64(1)}, row.Tags)

	require.NoError(t, Assign(v.Field(0), database.DBNull))
	require.NoError(t, Assign(v.Field(2), nil))
	assert.Zero(t, row.Id)
	assert.Nil(t, row.Middle)

	err := Assign(v.Field(0), "five")
	var convErr *ConversionError
	assert.ErrorAs(t, err, &convErr)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(typeOf[level](), func(raw any, target reflect.Type) (reflect.Value, error) {
		s, _ := raw.(string)
		if s == "" {
			return fail(raw, target, errEmpty)
		}
		return reflect.ValueOf(level("L:" + s)), nil
	})

	v, err := r.Coerce("info", typeOf[level]())
	require.NoError(t, err)
	assert.Equal(t, level("L:info"), v)

	v, err = Default().Coerce("info", typeOf[level]())
	require.NoError(t, err)
	assert.Equal(t, level("info"), v)
}

func TestTo(t *testing.T) {
	id, err := To[int64](int64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = To[int64](nil)
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = To[int64]("x")
	assert.Error(t, err)
}
