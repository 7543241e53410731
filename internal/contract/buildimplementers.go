package contract

import (
	language "github.com/hanpama/contractgraph/internal/language"
)

// seedImplementers builds the implementer registry from the declared list,
// then applies every external downcast binding. External bindings are merged
// before method-level ones so they are always visible when detecting
// duplicates, regardless of declaration order in source.
func (b *builder) seedImplementers() {
	for _, ty := range b.opts.Implementers {
		b.implementers = append(b.implementers, &ImplementerDefinition{
			Type:     ty,
			Position: b.decl.Position,
		})
	}
	for _, dc := range b.opts.ExternalDowncasts {
		impl := b.findImplementer(dc.Type)
		if impl == nil {
			b.addViolation(violationNonImplementerDowncast(dc.Position))
			continue
		}
		impl.Downcast = &DowncastBinding{External: &ExternalDowncast{Func: dc.Func}}
	}
}

// attachMethodDowncast merges one method-level downcast into the registry.
func (b *builder) attachMethodDowncast(m *language.Method, implementer string, contextTy *language.TypeRef) {
	impl := b.findImplementer(implementer)
	if impl == nil {
		b.addViolation(violationNonImplementerDowncast(m.Position))
		return
	}
	if impl.Downcast != nil {
		if impl.Downcast.External != nil {
			b.addViolation(violationDuplicateDowncast(m.Name, impl.Downcast.External.Func, implementer, m.Position))
		} else {
			b.addViolation(violationDuplicateDowncastMethods(m.Name, impl.Downcast.ByMethod.Method, implementer, m.Position))
		}
		return
	}
	impl.Downcast = &DowncastBinding{ByMethod: &MethodDowncast{
		Method:      m.Name,
		WithContext: contextTy != nil,
	}}
	impl.Context = contextTy
}

func (b *builder) findImplementer(ty string) *ImplementerDefinition {
	for _, impl := range b.implementers {
		if impl.Type == ty {
			return impl
		}
	}
	return nil
}
