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
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/norm/database/dbtest"
	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

var person = schema.Describe(reflect.TypeOf(dbtest.Person{}))

func translate(t *testing.T, p Predicate) Fragment {
	t.Helper()
	f, err := TranslatePredicate(person, p)
	require.NoError(t, err)
	return f
}

func TestBinaryOperatorTokens(t *testing.T) {
	tests := []struct {
		p    Predicate
		want string
	}{
		{Field("Id").Eq(5), "[Id] = @Id"},
		{Field("Id").Ne(5), "[Id] <> @Id"},
		{Field("Id").Lt(5), "[Id] < @Id"},
		{Field("Id").Le(5), "[Id] <= @Id"},
		{Field("Id").Gt(5), "[Id] > @Id"},
		{Field("Id").Ge(5), "[Id] >= @Id"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := translate(t, tt.p)
			assert.Equal(t, tt.want, f.Text)
			require.Equal(t, 1, f.Params.Len())
			v, ok := f.Params.Get("Id")
			require.True(t, ok)
			assert.Equal(t, types.IntValue(5), v)
		})
	}
}

func TestEqualsNullIsNullTest(t *testing.T) {
	f := translate(t, Field("FirstName").Eq(nil))
	assert.Equal(t, "[FirstName] IS NULL", f.Text)
	assert.Zero(t, f.Params.Len())

	var missing *string
	f = translate(t, Field("FirstName").Eq(missing))
	assert.Equal(t, "[FirstName] IS NULL", f.Text)

	f = translate(t, Field("FirstName").IsNotNull())
	assert.Equal(t, "NOT ([FirstName] IS NULL)", f.Text)
	assert.Zero(t, f.Params.Len())
}

func TestLikeTemplates(t *testing.T) {
	tests := []struct {
		p    Predicate
		want string
	}{
		{Field("FirstName").StartsWith("J"), "[FirstName] LIKE @FirstName + '%'"},
		{Field("FirstName").EndsWith("J"), "[FirstName] LIKE '%' + @FirstName"},
		{Field("FirstName").Contains("J"), "[FirstName] LIKE '%' + @FirstName + '%'"},
		{Not(Field("FirstName").StartsWith("J")), "NOT ([FirstName] LIKE @FirstName + '%')"},
		{Field("FirstName").EndsWith("J").Not(), "NOT ([FirstName] LIKE '%' + @FirstName)"},
		{Not(Field("FirstName").Contains("J")), "NOT ([FirstName] LIKE '%' + @FirstName + '%')"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := translate(t, tt.p)
			assert.Equal(t, tt.want, f.Text)
			v, ok := f.Params.Get("FirstName")
			require.True(t, ok)
			assert.Equal(t, "J", v.Str())
		})
	}
}

func TestIsNullOrEmptyBindsNothing(t *testing.T) {
	f := translate(t, IsNullOrEmpty(Field("FirstName")))
	assert.Equal(t, "([FirstName] IS NULL OR [FirstName] = '')", f.Text)
	assert.Zero(t, f.Params.Len())

	f = translate(t, Not(IsNullOrEmpty(Field("FirstName"))))
	assert.Equal(t, "NOT (([FirstName] IS NULL OR [FirstName] = ''))", f.Text)
}

func TestStringFunctions(t *testing.T) {
	f := translate(t, Field("FirstName").ToUpper().Eq("JOHN"))
	assert.Equal(t, "UPPER([FirstName]) = @FirstName", f.Text)
	v, _ := f.Params.Get("FirstName")
	assert.Equal(t, "JOHN", v.Str())

	f = translate(t, Field("LastName").ToLower().StartsWith("sm"))
	assert.Equal(t, "LOWER([LastName]) LIKE @LastName + '%'", f.Text)

	f = translate(t, Field("LastName").Trim().Eq("Smith"))
	assert.Equal(t, "LTRIM(RTRIM([LastName])) = @LastName", f.Text)
}

func TestConjunctionAndDisjunction(t *testing.T) {
	and := Field("Id").Eq(1).And(Field("FirstName").Eq("John"))
	f := translate(t, and)
	assert.Equal(t, "[Id] = @Id AND [FirstName] = @FirstName", f.Text)
	assert.Equal(t, []string{"Id", "FirstName"}, f.Params.Names())

	or := Or(Field("Id").Eq(1), Field("FirstName").Eq("John"))
	f = translate(t, or)
	assert.Equal(t, "[Id] = @Id OR [FirstName] = @FirstName", f.Text)
	assert.Equal(t, 2, f.Params.Len())

	f = translate(t, Not(and))
	assert.Equal(t, "NOT ([Id] = @Id AND [FirstName] = @FirstName)", f.Text)
	f = translate(t, Not(or))
	assert.Equal(t, "NOT ([Id] = @Id OR [FirstName] = @FirstName)", f.Text)
}

func TestMixedLogicKeepsGrouping(t *testing.T) {
	p := Field("Id").Gt(10).And(Field("FirstName").Eq("A").Or(Field("LastName").Eq("B")))
	f := translate(t, p)
	assert.Equal(t, "[Id] > @Id AND ([FirstName] = @FirstName OR [LastName] = @LastName)", f.Text)
}

func TestFieldNamesAreCanonicalized(t *testing.T) {
	f := translate(t, Field("firstname").Eq("x"))
	assert.Equal(t, "[FirstName] = @FirstName", f.Text)
}

func TestFieldToFieldComparison(t *testing.T) {
	f := translate(t, Field("FirstName").Eq(Field("LastName")))
	assert.Equal(t, "[FirstName] = [LastName]", f.Text)
	assert.Zero(t, f.Params.Len())
}

func TestHandBuiltAST(t *testing.T) {
	n := Unary{Op: OpNot, Operand: Binary{
		Op:    OpOr,
		Left:  Binary{Op: OpEq, Left: FieldRef{Name: "Id"}, Right: Lit(3)},
		Right: Call{Kind: CallStartsWith, Receiver: FieldRef{Name: "LastName"}, Args: []Node{Lit("Mc")}},
	}}
	f, err := Translate(person, n)
	require.NoError(t, err)
	assert.Equal(t, "NOT ([Id] = @Id OR [LastName] LIKE @LastName + '%')", f.Text)
}

func TestEmptyPredicate(t *testing.T) {
	f, err := TranslatePredicate(person, And())
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
	assert.Zero(t, f.Params.Len())
}

func TestUnresolvedField(t *testing.T) {
	_, err := TranslatePredicate(person, Field("Nickname").Eq("x"))
	var unresolved *UnresolvedFieldError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "Person", unresolved.Type)
	assert.Equal(t, "Nickname", unresolved.Field)
}

func TestUnsupportedOperations(t *testing.T) {
	tests := []struct {
		node Node
		op   string
	}{
		{Binary{Op: OpAdd, Left: FieldRef{Name: "Id"}, Right: Lit(1)}, "+"},
		{Unary{Op: OpNegate, Operand: FieldRef{Name: "Id"}}, "NEGATE"},
		{Call{Kind: CallSubstring, Receiver: FieldRef{Name: "FirstName"}, Args: []Node{Lit(1)}}, "Substring"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			_, err := Translate(person, tt.node)
			var unsupported *UnsupportedOperationError
			require.True(t, errors.As(err, &unsupported), "got %v", err)
			assert.Equal(t, tt.op, unsupported.Operation)
		})
	}
}

func TestSameFieldTwiceCollides(t *testing.T) {
	_, err := TranslatePredicate(person, Field("Id").Gt(1).And(Field("Id").Lt(9)))
	var dup *types.DuplicateParameterError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Id", dup.Name)
}

func TestInvalidLiteral(t *testing.T) {
	_, err := TranslatePredicate(person, Field("FirstName").Eq(struct{}{}))
	var unsupported *types.UnsupportedValueError
	assert.True(t, errors.As(err, &unsupported))
}
