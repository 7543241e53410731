package contract

import (
	directive "github.com/hanpama/contractgraph/internal/directive"
	language "github.com/hanpama/contractgraph/internal/language"
)

// resolveArguments classifies every non-receiver parameter of a field
// method as context, executor or a regular named argument. A field may
// carry at most one context and one executor argument.
func (b *builder) resolveArguments(m *language.Method) []*ArgumentDefinition {
	var args []*ArgumentDefinition
	var hasContext, hasExecutor bool
	for _, p := range m.Params {
		arg := b.resolveArgument(m, p)
		if arg == nil {
			continue
		}
		if arg.Context != nil {
			if hasContext {
				b.addViolation(violationDuplicateSpecialArgument("context", m.Name, p.Position))
				continue
			}
			hasContext = true
		}
		if arg.Executor != nil {
			if hasExecutor {
				b.addViolation(violationDuplicateSpecialArgument("executor", m.Name, p.Position))
				continue
			}
			hasExecutor = true
		}
		args = append(args, arg)
	}
	return args
}

func (b *builder) resolveArgument(m *language.Method, p *language.Param) *ArgumentDefinition {
	opts, err := b.extractor.Argument(p.Annotation, p.Position)
	if err != nil {
		b.addViolation(violationAnnotation(err))
		return nil
	}

	// Explicit role directives take precedence over naming conventions.
	// Either way a special role cannot carry regular-argument directives.
	if opts.Context {
		if !b.ensureNoRegularArgumentOptions(opts, p) {
			return nil
		}
		return &ArgumentDefinition{Context: &ContextArgument{Type: p.Type.Unreferenced().Erased()}}
	}
	if opts.Executor {
		if !b.ensureNoRegularArgumentOptions(opts, p) {
			return nil
		}
		return &ArgumentDefinition{Executor: &ExecutorArgument{}}
	}

	// An explicit @name turns a conventionally named parameter back into a
	// regular argument; the convention only fills the gap when nothing else
	// claims the parameter.
	if opts.Name == "" {
		switch p.Pattern {
		case "context", "ctx":
			if !b.ensureNoRegularArgumentOptions(opts, p) {
				return nil
			}
			return &ArgumentDefinition{Context: &ContextArgument{Type: p.Type.Unreferenced().Erased()}}
		case "executor":
			if !b.ensureNoRegularArgumentOptions(opts, p) {
				return nil
			}
			return &ArgumentDefinition{Executor: &ExecutorArgument{}}
		}
	}

	name := opts.Name
	if name == "" {
		if !isIdent(p.Pattern) {
			b.addViolation(violationMalformedArgumentPattern(p.Pattern, m.Name, p.Position))
			return nil
		}
		name = camelCase(p.Pattern)
	}
	if !b.opts.IsInternal && hasReservedPrefix(name) {
		b.addViolation(violationReservedNamePrefix("Argument", name, p.Position))
		return nil
	}

	regular := &RegularArgument{
		Name:        name,
		Type:        p.Type.Erased(),
		Description: opts.Description,
	}
	if opts.Default != nil {
		regular.Default = opts.Default.Value
		regular.HasDefault = true
	}
	return &ArgumentDefinition{Regular: regular}
}

// ensureNoRegularArgumentOptions reports a conflict when a context or
// executor argument also carries name, description or default directives.
func (b *builder) ensureNoRegularArgumentOptions(opts *directive.ArgumentOptions, p *language.Param) bool {
	if opts.Name != "" {
		b.addViolation(violationDisallowedArgumentDirective("name", p.Position))
		return false
	}
	if opts.Description != "" {
		b.addViolation(violationDisallowedArgumentDirective("description", p.Position))
		return false
	}
	if opts.Default != nil {
		b.addViolation(violationDisallowedArgumentDirective("default", p.Position))
		return false
	}
	return true
}
