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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gender string

func TestValueOf(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	var nilPtr *int
	n := 7

	cases := []struct {
		name string
		in   any
		kind Kind
		out  any
	}{
		{"nil", nil, KindNull, nil},
		{"nil pointer", nilPtr, KindNull, nil},
		{"pointer", &n, KindInt, int64(7)},
		{"int32", int32(-3), KindInt, int64(-3)},
		{"uint16", uint16(3), KindUint, uint64(3)},
		{"float", 1.5, KindFloat, 1.5},
		{"bool", true, KindBool, true},
		{"string", "abc", KindString, "abc"},
		{"named string", gender("F"), KindString, "F"},
		{"char", Char('M'), KindChar, "M"},
		{"empty char", Char(0), KindNull, nil},
		{"uuid", id, KindUUID, id},
		{"time", now, KindTime, now},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := ValueOf(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.kind, v.Kind())
			assert.Equal(t, c.out, v.Interface())
		})
	}
}

func TestValueOfDecimalAndValuer(t *testing.T) {
	v, err := ValueOf(decimal.RequireFromString("123.40"))
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, v.Kind())
	assert.True(t, v.Decimal().Equal(decimal.RequireFromString("123.4")))

	v, err = ValueOf(JsonObject{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, KindBytes, v.Kind())
	assert.JSONEq(t, `{"a":1}`, string(v.Bytes()))
}

func TestValueOfUnsupported(t *testing.T) {
	_, err := ValueOf(struct{ A int }{1})
	var target *UnsupportedValueError
	assert.ErrorAs(t, err, &target)
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, Null.IsEmpty())
	assert.True(t, StringValue("").IsEmpty())
	assert.True(t, CharValue(0).IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, IntValue(0).IsEmpty())
}

func TestParamsKeepOrderAndRejectDuplicates(t *testing.T) {
	p := NewParams()
	require.NoError(t, p.Add("Id", IntValue(1)))
	require.NoError(t, p.Add("FirstName", StringValue("J")))

	err := p.Add("Id", IntValue(2))
	var dup *DuplicateParameterError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Id", dup.Name)

	assert.Equal(t, []string{"Id", "FirstName"}, p.Names())
	v, ok := p.Get("Id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.Int())
	assert.Equal(t, 2, p.Len())
}

func TestParseChar(t *testing.T) {
	c, err := ParseChar("A")
	require.NoError(t, err)
	assert.Equal(t, Char('A'), c)

	_, err = ParseChar("AB")
	assert.Error(t, err)
	_, err = ParseChar("")
	assert.Error(t, err)
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, "ASC", Asc.String())
	assert.Equal(t, "DESC", Desc.String())
	assert.False(t, SortDirection(5).IsValid())
	assert.Equal(t, "[LastName] DESC", NewOrderKey("LastName", Desc).SQL())
}
