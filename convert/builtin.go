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
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/tomoncle/norm/types"
)

var (
	errFraction = errors.New("value has a fractional part")
	errRange    = errors.New("value out of range")
	errEmpty    = errors.New("empty string")
)

// usDateLayouts are month-first forms tried after the ISO-style layouts.
var usDateLayouts = []string{"1/2/2006", "1/2/2006 15:04:05", "1/2/2006 3:04:05 PM"}

var typeConverters = map[reflect.Type]Converter{
	reflect.TypeOf(time.Time{}):       toTime,
	reflect.TypeOf(uuid.UUID{}):       toUUID,
	reflect.TypeOf(decimal.Decimal{}): toDecimal,
	reflect.TypeOf(types.Char(0)):     toChar,
	reflect.TypeOf([]byte(nil)):       toBytes,
	reflect.TypeOf(time.Duration(0)):  toDuration,
}

var kindConverters = map[reflect.Kind]Converter{
	reflect.Int:       toInt,
	reflect.Int8:      toInt,
	reflect.Int16:     toInt,
	reflect.Int32:     toInt,
	reflect.Int64:     toInt,
	reflect.Uint:      toUint,
	reflect.Uint8:     toUint,
	reflect.Uint16:    toUint,
	reflect.Uint32:    toUint,
	reflect.Uint64:    toUint,
	reflect.Float32:   toFloat,
	reflect.Float64:   toFloat,
	reflect.Bool:      toBool,
	reflect.String:    toString,
	reflect.Interface: toInterface,
}

// text returns the string form of string-like raw values.
func text(raw any) (string, bool) {
	switch x := raw.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case types.Char:
		return x.String(), true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toInt(raw any, target reflect.Type) (reflect.Value, error) {
	var n int64
	rv := reflect.ValueOf(raw)
	switch {
	case rv.CanInt():
		n = rv.Int()
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return fail(raw, target, errRange)
		}
		n = int64(u)
	case rv.CanFloat():
		f := rv.Float()
		if f != math.Trunc(f) {
			return fail(raw, target, errFraction)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return fail(raw, target, errRange)
		}
		n = int64(f)
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			n = 1
		}
	default:
		if d, ok := raw.(decimal.Decimal); ok {
			if !d.IsInteger() {
				return fail(raw, target, errFraction)
			}
			if !d.BigInt().IsInt64() {
				return fail(raw, target, errRange)
			}
			n = d.IntPart()
			break
		}
		s, ok := text(raw)
		if !ok {
			return fail(raw, target, errUnsupported)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return fail(raw, target, errEmpty)
		}
		var err error
		if n, err = strconv.ParseInt(s, 10, 64); err != nil {
			return fail(raw, target, err)
		}
	}
	v := reflect.New(target).Elem()
	if v.OverflowInt(n) {
		return fail(raw, target, errRange)
	}
	v.SetInt(n)
	return v, nil
}

func toUint(raw any, target reflect.Type) (reflect.Value, error) {
	var n uint64
	rv := reflect.ValueOf(raw)
	switch {
	case rv.CanUint():
		n = rv.Uint()
	case rv.CanInt():
		i := rv.Int()
		if i < 0 {
			return fail(raw, target, errRange)
		}
		n = uint64(i)
	case rv.CanFloat():
		f := rv.Float()
		if f != math.Trunc(f) {
			return fail(raw, target, errFraction)
		}
		if f < 0 || f >= math.MaxUint64 {
			return fail(raw, target, errRange)
		}
		n = uint64(f)
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			n = 1
		}
	default:
		if d, ok := raw.(decimal.Decimal); ok {
			if !d.IsInteger() {
				return fail(raw, target, errFraction)
			}
			if d.IsNegative() || !d.BigInt().IsUint64() {
				return fail(raw, target, errRange)
			}
			n = d.BigInt().Uint64()
			break
		}
		s, ok := text(raw)
		if !ok {
			return fail(raw, target, errUnsupported)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return fail(raw, target, errEmpty)
		}
		var err error
		if n, err = strconv.ParseUint(s, 10, 64); err != nil {
			return fail(raw, target, err)
		}
	}
	v := reflect.New(target).Elem()
	if v.OverflowUint(n) {
		return fail(raw, target, errRange)
	}
	v.SetUint(n)
	return v, nil
}

func toFloat(raw any, target reflect.Type) (reflect.Value, error) {
	var f float64
	rv := reflect.ValueOf(raw)
	switch {
	case rv.CanFloat():
		f = rv.Float()
	case rv.CanInt():
		f = float64(rv.Int())
	case rv.CanUint():
		f = float64(rv.Uint())
	default:
		if d, ok := raw.(decimal.Decimal); ok {
			f, _ = d.Float64()
			break
		}
		s, ok := text(raw)
		if !ok {
			return fail(raw, target, errUnsupported)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return fail(raw, target, errEmpty)
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return fail(raw, target, err)
		}
	}
	v := reflect.New(target).Elem()
	if !math.IsInf(f, 0) && !math.IsNaN(f) && v.OverflowFloat(f) {
		return fail(raw, target, errRange)
	}
	v.SetFloat(f)
	return v, nil
}

func toBool(raw any, target reflect.Type) (reflect.Value, error) {
	var b bool
	rv := reflect.ValueOf(raw)
	switch {
	case rv.Kind() == reflect.Bool:
		b = rv.Bool()
	case rv.CanInt():
		b = rv.Int() != 0
	case rv.CanUint():
		b = rv.Uint() != 0
	default:
		s, ok := text(raw)
		if !ok {
			return fail(raw, target, errUnsupported)
		}
		var err error
		if b, err = strconv.ParseBool(strings.TrimSpace(s)); err != nil {
			return fail(raw, target, err)
		}
	}
	return reflect.ValueOf(b).Convert(target), nil
}

func toString(raw any, target reflect.Type) (reflect.Value, error) {
	s, ok := text(raw)
	if !ok {
		if t, isTime := raw.(time.Time); isTime {
			s = t.Format(time.RFC3339Nano)
		} else {
			var err error
			if s, err = cast.ToStringE(raw); err != nil {
				return fail(raw, target, err)
			}
		}
	}
	return reflect.ValueOf(s).Convert(target), nil
}

func toInterface(raw any, target reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if !rv.Type().AssignableTo(target) {
		return fail(raw, target, errUnsupported)
	}
	v := reflect.New(target).Elem()
	v.Set(rv)
	return v, nil
}

func toTime(raw any, target reflect.Type) (reflect.Value, error) {
	s, ok := text(raw)
	if !ok {
		return fail(raw, target, errUnsupported)
	}
	if strings.TrimSpace(s) == "" {
		return fail(raw, target, errEmpty)
	}
	s = strings.TrimSpace(s)
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		for _, layout := range usDateLayouts {
			if ut, uerr := time.ParseInLocation(layout, s, time.UTC); uerr == nil {
				return reflect.ValueOf(ut), nil
			}
		}
		return fail(raw, target, err)
	}
	return reflect.ValueOf(t), nil
}

func toDuration(raw any, target reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if rv.CanInt() {
		return reflect.ValueOf(time.Duration(rv.Int())), nil
	}
	s, ok := text(raw)
	if !ok {
		return fail(raw, target, errUnsupported)
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fail(raw, target, err)
	}
	return reflect.ValueOf(d), nil
}

func toUUID(raw any, target reflect.Type) (reflect.Value, error) {
	if b, ok := raw.([]byte); ok && len(b) == 16 {
		g, err := uuid.FromBytes(b)
		if err != nil {
			return fail(raw, target, err)
		}
		return reflect.ValueOf(g), nil
	}
	s, ok := text(raw)
	if !ok {
		return fail(raw, target, errUnsupported)
	}
	g, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return fail(raw, target, err)
	}
	return reflect.ValueOf(g), nil
}

func toDecimal(raw any, target reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	switch {
	case rv.CanInt():
		return reflect.ValueOf(decimal.NewFromInt(rv.Int())), nil
	case rv.CanUint():
		return reflect.ValueOf(decimal.NewFromUint64(rv.Uint())), nil
	case rv.CanFloat():
		f := rv.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fail(raw, target, errRange)
		}
		return reflect.ValueOf(decimal.NewFromFloat(f)), nil
	}
	s, ok := text(raw)
	if !ok {
		return fail(raw, target, errUnsupported)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fail(raw, target, err)
	}
	return reflect.ValueOf(d), nil
}

func toChar(raw any, target reflect.Type) (reflect.Value, error) {
	if r, ok := raw.(rune); ok {
		if r <= 0 || r > 0x10FFFF {
			return fail(raw, target, errRange)
		}
		return reflect.ValueOf(types.Char(r)), nil
	}
	s, ok := text(raw)
	if !ok {
		return fail(raw, target, errUnsupported)
	}
	c, err := types.ParseChar(s)
	if err != nil {
		return fail(raw, target, err)
	}
	return reflect.ValueOf(c), nil
}

func toBytes(raw any, target reflect.Type) (reflect.Value, error) {
	switch x := raw.(type) {
	case []byte:
		return reflect.ValueOf(append([]byte(nil), x...)), nil
	case string:
		return reflect.ValueOf([]byte(x)), nil
	}
	return fail(raw, target, fmt.Errorf("%w from %T", errUnsupported, raw))
}
