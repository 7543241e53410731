package contract

import (
	language "github.com/hanpama/contractgraph/internal/language"
)

// resolveScalar decides how the generic payload parameter is threaded
// through generated signatures. An explicit override that names one of the
// declaration's own generic parameters makes the contract polymorphic over
// payload representation; any other override fixes it; no override
// synthesizes a defaulted parameter so non-generic callers are unaffected.
func (b *builder) resolveScalar() *ScalarParameter {
	if b.opts.Scalar == "" {
		return &ScalarParameter{Implicit: &ImplicitScalar{
			Param:   ImplicitScalarParam,
			Default: DefaultScalarType,
		}}
	}
	for _, param := range b.decl.Generics {
		if param == b.opts.Scalar {
			return &ScalarParameter{ExplicitGeneric: param}
		}
	}
	return &ScalarParameter{Concrete: &language.TypeRef{Name: b.opts.Scalar}}
}
