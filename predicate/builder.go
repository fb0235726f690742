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

// Operand is a column, or a string function applied to one, that can be
// compared with a value.
type Operand struct {
	node Node
}

// Field references the column name.
func Field(name string) Operand {
	return Operand{node: FieldRef{Name: name}}
}

func (o Operand) Node() Node { return o.node }

func (o Operand) compare(op Op, v any) Predicate {
	if other, ok := v.(Operand); ok {
		return Predicate{node: Binary{Op: op, Left: o.node, Right: other.node}}
	}
	return Predicate{node: Binary{Op: op, Left: o.node, Right: Lit(v)}}
}

// Eq compares with v. A nil v tests for NULL. v may be another Operand.
func (o Operand) Eq(v any) Predicate { return o.compare(OpEq, v) }
func (o Operand) Ne(v any) Predicate { return o.compare(OpNe, v) }
func (o Operand) Lt(v any) Predicate { return o.compare(OpLt, v) }
func (o Operand) Le(v any) Predicate { return o.compare(OpLe, v) }
func (o Operand) Gt(v any) Predicate { return o.compare(OpGt, v) }
func (o Operand) Ge(v any) Predicate { return o.compare(OpGe, v) }

func (o Operand) IsNull() Predicate { return o.compare(OpEq, nil) }

func (o Operand) IsNotNull() Predicate { return Not(o.IsNull()) }

func (o Operand) call(kind CallKind, args ...Node) Node {
	return Call{Kind: kind, Receiver: o.node, Args: args}
}

func (o Operand) StartsWith(s string) Predicate {
	return Predicate{node: o.call(CallStartsWith, Lit(s))}
}

func (o Operand) EndsWith(s string) Predicate {
	return Predicate{node: o.call(CallEndsWith, Lit(s))}
}

func (o Operand) Contains(s string) Predicate {
	return Predicate{node: o.call(CallContains, Lit(s))}
}

func (o Operand) ToUpper() Operand { return Operand{node: o.call(CallToUpper)} }
func (o Operand) ToLower() Operand { return Operand{node: o.call(CallToLower)} }
func (o Operand) Trim() Operand    { return Operand{node: o.call(CallTrim)} }

// Predicate is a boolean filter expression.
type Predicate struct {
	node Node
}

// From wraps a hand-built AST.
func From(n Node) Predicate {
	return Predicate{node: n}
}

// Node returns the AST of p, or nil for the zero Predicate.
func (p Predicate) Node() Node { return p.node }

// IsZero reports whether p matches every row.
func (p Predicate) IsZero() bool { return p.node == nil }

func (p Predicate) And(q Predicate) Predicate { return And(p, q) }
func (p Predicate) Or(q Predicate) Predicate  { return Or(p, q) }
func (p Predicate) Not() Predicate            { return Not(p) }

// And joins ps left to right. Zero predicates are skipped.
func And(ps ...Predicate) Predicate { return join(OpAnd, ps) }

// Or joins ps left to right. Zero predicates are skipped.
func Or(ps ...Predicate) Predicate { return join(OpOr, ps) }

func join(op Op, ps []Predicate) Predicate {
	var acc Node
	for _, p := range ps {
		switch {
		case p.node == nil:
		case acc == nil:
			acc = p.node
		default:
			acc = Binary{Op: op, Left: acc, Right: p.node}
		}
	}
	return Predicate{node: acc}
}

func Not(p Predicate) Predicate {
	if p.node == nil {
		return p
	}
	return Predicate{node: Unary{Op: OpNot, Operand: p.node}}
}

// IsNullOrEmpty tests o for NULL or the empty string without binding a
// parameter.
func IsNullOrEmpty(o Operand) Predicate {
	return Predicate{node: Call{Kind: CallIsNullOrEmpty, Args: []Node{o.node}}}
}
