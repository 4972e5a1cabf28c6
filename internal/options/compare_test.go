package options

import (
	"github.com/google/go-cmp/cmp"
)

// cmpOptionalInt compares OptionalInt values by their content.
var cmpOptionalInt = cmp.Comparer(func(a, b OptionalInt) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	return aok == bok && av == bv
})
