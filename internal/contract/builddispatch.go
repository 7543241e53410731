package contract

import (
	directive "github.com/hanpama/contractgraph/internal/directive"
)

// selectDispatch chooses the dispatch representation. Open dispatch is a
// dynamic handle with unbounded membership; closed dispatch enumerates one
// variant per implementer and re-exposes the contract's declared surface as
// delegating members. A declaration that picks no mode falls back to closed
// dispatch under a synthesized artifact name.
func (b *builder) selectDispatch(isAsync bool) *DispatchArtifact {
	if b.opts.DispatchMode == directive.DispatchModeOpen {
		ident := b.opts.DispatchName
		if ident == "" {
			ident = b.decl.Contract
		}
		return &DispatchArtifact{Open: &OpenDispatch{
			Ident:    ident,
			Contract: b.decl.Contract,
		}}
	}

	ident := b.opts.DispatchName
	if ident == "" {
		ident = artifactName(b.decl.Contract)
	}
	closed := &ClosedDispatch{
		Ident:    ident,
		Contract: b.decl.Contract,
	}
	for _, impl := range b.implementers {
		closed.Variants = append(closed.Variants, impl.Type)
	}
	for _, ty := range b.decl.Types {
		closed.AssocTypes = append(closed.AssocTypes, ty.Name)
	}
	closed.AssocConsts = b.decl.Consts
	for _, m := range b.decl.Methods {
		closed.Methods = append(closed.Methods, m.Name)
	}
	return &DispatchArtifact{Closed: closed}
}

// resolveAsync marks the contract asynchronous when the declaration or any
// field method is, so every generated field-call signature uniformly returns
// a suspendable result. Default-bodied async methods additionally require
// the contract to be safely shareable across concurrent call sites, since
// default async logic behind indirection cannot otherwise satisfy the
// object-safety requirements of open dispatch.
func (b *builder) resolveAsync() (bool, []string) {
	isAsync := b.opts.IsAsync
	hasDefaultAsync := false
	for _, m := range b.decl.Methods {
		if m.IsAsync {
			isAsync = true
			if m.HasDefault {
				hasDefaultAsync = true
			}
		}
	}
	if isAsync && hasDefaultAsync {
		return true, []string{CapabilityShareable}
	}
	return isAsync, nil
}

// CapabilityShareable marks a contract that must be callable from multiple
// concurrent call sites.
const CapabilityShareable = "shareable"

// resolveContext determines the contract's context type: explicit @context
// first, then the first context-classified field argument in declaration
// order, then the first implementer downcast context.
func (b *builder) resolveContext() string {
	if b.opts.Context != "" {
		return b.opts.Context
	}
	for _, f := range b.fields {
		for _, arg := range f.Args {
			if arg.Context != nil && arg.Context.Type != nil {
				return arg.Context.Type.String()
			}
		}
	}
	for _, impl := range b.implementers {
		if impl.Context != nil {
			return impl.Context.String()
		}
	}
	return ""
}
