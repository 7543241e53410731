package contract

import (
	directive "github.com/hanpama/contractgraph/internal/directive"
	language "github.com/hanpama/contractgraph/internal/language"
)

// classifyMethods decides ignore/field/downcast for every declared method.
// Invalid methods are reported and dropped; the pass continues so every
// independent problem surfaces in one run.
func (b *builder) classifyMethods() {
	for _, m := range b.decl.Methods {
		opts, err := b.extractor.Method(m.Annotation, m.Position)
		if err != nil {
			b.addViolation(violationAnnotation(err))
			continue
		}
		if opts.Ignore {
			continue
		}
		if opts.Downcast {
			b.classifyDowncast(m)
			continue
		}
		if f := b.classifyField(m, opts); f != nil {
			for _, existing := range b.fields {
				if existing.Name == f.Name {
					b.addViolation(violationDuplicateField(f.Name, b.name, m.Position))
				}
			}
			b.fields = append(b.fields, f)
		}
	}
}

// classifyField validates the method shape and projects it into a field.
func (b *builder) classifyField(m *language.Method, opts *directive.MethodOptions) *FieldDefinition {
	name := opts.Name
	if name == "" {
		name = camelCase(m.Name)
	}
	if !b.opts.IsInternal && hasReservedPrefix(name) {
		b.addViolation(violationReservedNamePrefix("Field", name, m.Position))
		return nil
	}

	switch m.Receiver {
	case language.ReceiverRef:
	case language.ReceiverNone:
		b.addViolation(violationMissingReceiver(m.Name, m.Position))
		return nil
	default:
		b.addViolation(violationInvalidReceiver(m.Name, m.Position))
		return nil
	}

	fieldType := m.Result.Erased()
	if fieldType == nil {
		fieldType = &language.TypeRef{Name: "()"}
	}

	var deprecation *Deprecation
	if opts.Deprecated != nil {
		deprecation = &Deprecation{Reason: opts.Deprecated.Reason}
	}

	return &FieldDefinition{
		Name:        name,
		Type:        fieldType,
		Description: opts.Description,
		Deprecation: deprecation,
		Args:        b.resolveArguments(m),
		Method:      m.Name,
		IsAsync:     m.IsAsync,
	}
}

// classifyDowncast validates a downcast operator and merges its binding into
// the implementer registry. Expected shape: `&self` receiver, optionally one
// `&Context` parameter, result `Option<&ImplementerType>`, not async.
func (b *builder) classifyDowncast(m *language.Method) {
	implementer, ok := downcastTarget(m.Result)
	if !ok {
		b.addViolation(violationDowncastResult(m.Name, m.Position))
		return
	}

	contextTy, ok := downcastContext(m)
	if !ok {
		b.addViolation(violationDowncastReceiver(m.Name, m.Position))
		return
	}

	if m.IsAsync {
		b.addViolation(violationAsyncDowncast(m.Name, m.Position))
		return
	}

	b.attachMethodDowncast(m, implementer, contextTy)
}

// downcastTarget extracts the implementer type from a result shaped exactly
// `Option<&ImplementerType>`.
func downcastTarget(result *language.TypeRef) (string, bool) {
	if result == nil || result.Ref || result.Name != "Option" || len(result.Args) != 1 {
		return "", false
	}
	target := result.Args[0]
	if !target.Ref || len(target.Args) != 0 {
		return "", false
	}
	return target.Name, true
}

// downcastContext validates the receiver form and returns the optional
// context parameter type.
func downcastContext(m *language.Method) (*language.TypeRef, bool) {
	if m.Receiver != language.ReceiverRef {
		return nil, false
	}
	switch len(m.Params) {
	case 0:
		return nil, true
	case 1:
		p := m.Params[0]
		if p.Type == nil || !p.Type.Ref {
			return nil, false
		}
		return p.Type.Unreferenced().Erased(), true
	default:
		return nil, false
	}
}
