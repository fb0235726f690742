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

package predicate

import (
	"fmt"

	"github.com/tomoncle/norm/types"
)

// Op is a binary or unary operator.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
	// Arithmetic operators can be represented but are not translated.
	OpAdd
	OpSubtract
	OpNegate
)

var opNames = [...]string{
	OpAnd:      "AND",
	OpOr:       "OR",
	OpEq:       "=",
	OpNe:       "<>",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpNot:      "NOT",
	OpAdd:      "+",
	OpSubtract: "-",
	OpNegate:   "NEGATE",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

func (o Op) logical() bool {
	return o == OpAnd || o == OpOr
}

// CallKind names a method call node.
type CallKind int

const (
	CallStartsWith CallKind = iota
	CallEndsWith
	CallContains
	CallIsNullOrEmpty
	CallToUpper
	CallToLower
	CallTrim
	// CallSubstring can be represented but is not translated.
	CallSubstring
)

var callNames = [...]string{
	CallStartsWith:    "StartsWith",
	CallEndsWith:      "EndsWith",
	CallContains:      "Contains",
	CallIsNullOrEmpty: "IsNullOrEmpty",
	CallToUpper:       "ToUpper",
	CallToLower:       "ToLower",
	CallTrim:          "Trim",
	CallSubstring:     "Substring",
}

func (k CallKind) String() string {
	if k < 0 || int(k) >= len(callNames) {
		return fmt.Sprintf("CallKind(%d)", int(k))
	}
	return callNames[k]
}

// Node is a predicate AST node.
type Node interface {
	node()
}

// FieldRef references an entity column by name.
type FieldRef struct {
	Name string
}

// Literal is a value resolved when the predicate was built.
type Literal struct {
	Value types.Value
}

type Binary struct {
	Op          Op
	Left, Right Node
}

type Unary struct {
	Op      Op
	Operand Node
}

// Call is a method call. Receiver is nil for static calls such as
// IsNullOrEmpty, whose operand is the single argument.
type Call struct {
	Kind     CallKind
	Receiver Node
	Args     []Node
}

// invalidLiteral carries a value that could not become a Literal. It fails
// translation with the underlying error.
type invalidLiteral struct {
	raw any
	err error
}

func (FieldRef) node()       {}
func (Literal) node()        {}
func (Binary) node()         {}
func (Unary) node()          {}
func (Call) node()           {}
func (invalidLiteral) node() {}

// Lit resolves v into a Literal node. Unsupported values produce a node
// that fails translation.
func Lit(v any) Node {
	val, err := types.ValueOf(v)
	if err != nil {
		return invalidLiteral{raw: v, err: err}
	}
	return Literal{Value: val}
}
