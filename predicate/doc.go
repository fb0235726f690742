// Package predicate builds boolean filters over entity columns and
// translates them into SQL Server WHERE fragments with @name parameters.
//
// A filter is an AST of FieldRef, Literal, Binary, Unary and Call nodes,
// usually assembled through the fluent helpers:
//
//	p := predicate.Field("FirstName").StartsWith("J").
//		And(predicate.Field("Id").Gt(10))
//
// Parameter names are taken from the column a literal is compared with, so
// one statement cannot bind two literals against the same column.
package predicate
