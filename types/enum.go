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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Kind discriminates the primitive shapes a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindUint
	KindFloat
	KindDecimal
	KindBool
	KindChar
	KindString
	KindUUID
	KindTime
	KindBytes
)

var kindNames = [...]string{
	KindNull:    "null",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindBool:    "bool",
	KindChar:    "char",
	KindString:  "string",
	KindUUID:    "uuid",
	KindTime:    "time",
	KindBytes:   "bytes",
}

var _ BaseEnum = Kind(0)

func (k Kind) IsValid() bool { return k >= KindNull && k <= KindBytes }

func (k Kind) Number() int {
	if !k.IsValid() {
		return IllegalValue
	}
	return int(k)
}

func (k Kind) String() string { return k.Name() }

func (k Kind) Desc() string {
	if !k.IsValid() {
		return IllegalDesc
	}
	return kindNames[k] + " value"
}

func (k Kind) Name() string {
	if !k.IsValid() {
		return IllegalName
	}
	return kindNames[k]
}

// SortDirection is the ordering applied to one ORDER BY key.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

var _ BaseEnum = Asc

func (d SortDirection) IsValid() bool { return d == Asc || d == Desc }

func (d SortDirection) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

// String returns the SQL keyword for the direction.
func (d SortDirection) String() string {
	switch d {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d SortDirection) Desc() string {
	switch d {
	case Asc:
		return "ascending"
	case Desc:
		return "descending"
	default:
		return IllegalDesc
	}
}

func (d SortDirection) Name() string { return d.String() }
