package dsl

import (
	"strings"

	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/typesystem"
)

// Simple returns the example domain signature: ints and polymorphic lists.
// Beyond the named primitives, any symbol starting with a digit types as
// int and any "[...]" literal as (list int), so the domain covers an
// infinite family of constants.
func Simple() *Table {
	t := NewTable(config.DefaultPrimCost)
	def := func(sym, tp string) {
		parsed, err := typesystem.ParseType(tp)
		if err != nil {
			// the schemes below are constants; a parse failure here is a
			// programming error
			panic(err)
		}
		t.Define(sym, parsed, config.DefaultPrimCost)
	}
	def("+", "int -> int -> int")
	def("*", "int -> int -> int")
	def("map", "(t0 -> t1) -> (list t0) -> (list t1)")
	def("sum", "list int -> int")
	def("[]", "(list t0)")

	t.DefineFallback(func(sym string) (typesystem.Type, bool) {
		if sym == "" {
			return typesystem.Type{}, false
		}
		if sym[0] >= '0' && sym[0] <= '9' {
			return typesystem.Base("int"), true
		}
		if strings.HasPrefix(sym, "[") {
			return typesystem.NewTerm("list", typesystem.Base("int")), true
		}
		return typesystem.Type{}, false
	})
	return t
}
