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
	"strings"

	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

// Fragment is a SQL boolean expression with its parameter bindings.
type Fragment struct {
	Text   string
	Params *types.Params
}

// IsEmpty reports whether the fragment has no SQL text.
func (f Fragment) IsEmpty() bool { return f.Text == "" }

// Translate renders n as a SQL Server boolean expression. When desc is not
// nil every field reference must name one of its columns. A nil n yields an
// empty fragment.
func Translate(desc *schema.EntityDescriptor, n Node) (Fragment, error) {
	t := &translator{desc: desc, params: types.NewParams()}
	if n == nil {
		return Fragment{Params: t.params}, nil
	}
	if err := t.visit(n); err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: t.sb.String(), Params: t.params}, nil
}

// TranslatePredicate translates the AST of p.
func TranslatePredicate(desc *schema.EntityDescriptor, p Predicate) (Fragment, error) {
	return Translate(desc, p.node)
}

type translator struct {
	desc   *schema.EntityDescriptor
	sb     strings.Builder
	params *types.Params
	// field names the parameter of the next literal.
	field string
}

func (t *translator) visit(n Node) error {
	switch x := n.(type) {
	case FieldRef:
		return t.visitField(x)
	case Literal:
		return t.visitLiteral(x)
	case Binary:
		return t.visitBinary(x)
	case Unary:
		return t.visitUnary(x)
	case Call:
		return t.visitCall(x)
	case invalidLiteral:
		return fmt.Errorf("invalid literal %v: %w", x.raw, x.err)
	case nil:
		return &UnsupportedOperationError{Operation: "empty expression"}
	default:
		return &UnsupportedOperationError{Operation: fmt.Sprintf("%T", n)}
	}
}

func (t *translator) visitField(f FieldRef) error {
	name := f.Name
	if t.desc != nil {
		col, ok := t.desc.Column(name)
		if !ok {
			return &UnresolvedFieldError{Type: t.desc.Table, Field: name}
		}
		name = col.Name
	}
	t.sb.WriteString("[" + name + "]")
	t.field = name
	return nil
}

func (t *translator) visitLiteral(l Literal) error {
	if l.Value.IsNull() {
		t.sb.WriteString("NULL")
		return nil
	}
	if t.field == "" {
		return &UnsupportedOperationError{Operation: "literal " + l.Value.String() + " without a column"}
	}
	if err := t.params.Add(t.field, l.Value); err != nil {
		return err
	}
	t.sb.WriteString("@" + t.field)
	return nil
}

func isNullLiteral(n Node) bool {
	l, ok := n.(Literal)
	return ok && l.Value.IsNull()
}

func (t *translator) visitBinary(b Binary) error {
	var token string
	switch b.Op {
	case OpEq:
		token = " = "
		if isNullLiteral(b.Right) {
			token = " IS "
		}
	case OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
		token = " " + b.Op.String() + " "
	default:
		return &UnsupportedOperationError{Operation: b.Op.String()}
	}

	if err := t.operand(b.Op, b.Left); err != nil {
		return err
	}
	t.sb.WriteString(token)
	return t.operand(b.Op, b.Right)
}

// operand parenthesizes an AND under an OR and vice versa.
func (t *translator) operand(parent Op, n Node) error {
	if child, ok := n.(Binary); ok && parent.logical() && child.Op.logical() && child.Op != parent {
		t.sb.WriteString("(")
		if err := t.visit(n); err != nil {
			return err
		}
		t.sb.WriteString(")")
		return nil
	}
	return t.visit(n)
}

func (t *translator) visitUnary(u Unary) error {
	if u.Op != OpNot {
		return &UnsupportedOperationError{Operation: u.Op.String()}
	}
	t.sb.WriteString("NOT (")
	if err := t.visit(u.Operand); err != nil {
		return err
	}
	t.sb.WriteString(")")
	return nil
}

func (t *translator) visitCall(c Call) error {
	switch c.Kind {
	case CallStartsWith, CallEndsWith, CallContains:
		if c.Receiver == nil || len(c.Args) != 1 {
			return arityError(c)
		}
		if err := t.visit(c.Receiver); err != nil {
			return err
		}
		switch c.Kind {
		case CallStartsWith:
			t.sb.WriteString(" LIKE ")
		default:
			t.sb.WriteString(" LIKE '%' + ")
		}
		if err := t.visit(c.Args[0]); err != nil {
			return err
		}
		if c.Kind != CallEndsWith {
			t.sb.WriteString(" + '%'")
		}
		return nil

	case CallIsNullOrEmpty:
		arg := c.Receiver
		if len(c.Args) == 1 {
			arg = c.Args[0]
		}
		if arg == nil || len(c.Args) > 1 {
			return arityError(c)
		}
		t.sb.WriteString("(")
		if err := t.visit(arg); err != nil {
			return err
		}
		t.sb.WriteString(" IS NULL OR ")
		if err := t.visit(arg); err != nil {
			return err
		}
		t.sb.WriteString(" = '')")
		return nil

	case CallToUpper, CallToLower, CallTrim:
		if c.Receiver == nil || len(c.Args) != 0 {
			return arityError(c)
		}
		open, closing := "UPPER(", ")"
		switch c.Kind {
		case CallToLower:
			open = "LOWER("
		case CallTrim:
			open, closing = "LTRIM(RTRIM(", "))"
		}
		t.sb.WriteString(open)
		if err := t.visit(c.Receiver); err != nil {
			return err
		}
		t.sb.WriteString(closing)
		return nil
	}
	return &UnsupportedOperationError{Operation: c.Kind.String()}
}

func arityError(c Call) error {
	return &UnsupportedOperationError{
		Operation: fmt.Sprintf("%s with %d argument(s)", c.Kind, len(c.Args)),
	}
}
