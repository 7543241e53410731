package directive

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	language "github.com/hanpama/contractgraph/internal/language"
)

// Parser extracts option bags from raw annotation text. An annotation is a
// GraphQL directive list, e.g. `@name(value: "Character") @async`.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Declaration extracts the declaration-level option bag.
func (p *Parser) Declaration(text string, pos *language.Position) (*DeclarationOptions, error) {
	dirs, err := p.parse(text, pos)
	if err != nil {
		return nil, err
	}
	opts := &DeclarationOptions{}
	for _, dir := range dirs {
		switch dir.Name {
		case "name":
			if opts.Name, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "description":
			if opts.Description, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "scalar":
			if opts.Scalar, err = p.stringArg(dir, "type", pos); err != nil {
				return nil, err
			}
		case "implement":
			if opts.Implementers, err = p.stringListArg(dir, "types", pos); err != nil {
				return nil, err
			}
		case "downcast":
			if err = p.checkArgs(dir, pos, "type", "with"); err != nil {
				return nil, err
			}
			dc := &ExternalDowncast{Position: pos}
			if dc.Type, err = p.fetchString(dir, "type", pos); err != nil {
				return nil, err
			}
			if dc.Func, err = p.fetchString(dir, "with", pos); err != nil {
				return nil, err
			}
			opts.ExternalDowncasts = append(opts.ExternalDowncasts, dc)
		case "context":
			if opts.Context, err = p.stringArg(dir, "type", pos); err != nil {
				return nil, err
			}
		case "dispatch":
			if err = p.extractDispatch(dir, opts, pos); err != nil {
				return nil, err
			}
		case "async":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.IsAsync = true
		case "internal":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.IsInternal = true
		default:
			return nil, unknownDirective(dir.Name, "declaration", pos)
		}
	}
	return opts, nil
}

// Method extracts the method-level option bag.
func (p *Parser) Method(text string, pos *language.Position) (*MethodOptions, error) {
	dirs, err := p.parse(text, pos)
	if err != nil {
		return nil, err
	}
	opts := &MethodOptions{}
	for _, dir := range dirs {
		switch dir.Name {
		case "name":
			if opts.Name, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "description":
			if opts.Description, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "deprecated":
			opts.Deprecated, err = p.extractDeprecation(dir, pos)
			if err != nil {
				return nil, err
			}
		case "ignore":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.Ignore = true
		case "downcast":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.Downcast = true
		default:
			return nil, unknownDirective(dir.Name, "method", pos)
		}
	}
	return opts, nil
}

// Argument extracts the argument-level option bag.
func (p *Parser) Argument(text string, pos *language.Position) (*ArgumentOptions, error) {
	dirs, err := p.parse(text, pos)
	if err != nil {
		return nil, err
	}
	opts := &ArgumentOptions{}
	for _, dir := range dirs {
		switch dir.Name {
		case "name":
			if opts.Name, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "description":
			if opts.Description, err = p.stringArg(dir, "value", pos); err != nil {
				return nil, err
			}
		case "default":
			if err = p.checkArgs(dir, pos, "value"); err != nil {
				return nil, err
			}
			arg := dir.Arguments.ForName("value")
			if arg == nil {
				return nil, missingArgument(dir.Name, "value", pos)
			}
			value, verr := arg.Value.Value(nil)
			if verr != nil {
				return nil, &ParseError{Message: verr.Error(), Position: pos}
			}
			opts.Default = &DefaultValue{Value: value}
		case "context":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.Context = true
		case "executor":
			if err = p.noArgs(dir, pos); err != nil {
				return nil, err
			}
			opts.Executor = true
		default:
			return nil, unknownDirective(dir.Name, "argument", pos)
		}
	}
	return opts, nil
}

// parse wraps the annotation in a throwaway scalar definition so the
// directive list is valid schema syntax on its own.
func (p *Parser) parse(text string, pos *language.Position) (ast.DirectiveList, error) {
	if text == "" {
		return nil, nil
	}
	doc, err := parser.ParseSchema(&ast.Source{Name: posFile(pos), Input: "scalar _Annotated " + text})
	if err != nil {
		return nil, &ParseError{Message: "malformed annotation: " + err.Error(), Position: pos}
	}
	if len(doc.Definitions) != 1 {
		return nil, &ParseError{Message: "malformed annotation: expected a directive list", Position: pos}
	}
	return doc.Definitions[0].Directives, nil
}

func (p *Parser) extractDispatch(dir *ast.Directive, opts *DeclarationOptions, pos *language.Position) error {
	for _, arg := range dir.Arguments {
		switch arg.Name {
		case "mode":
			mode, err := p.stringValue(arg.Value, pos)
			if err != nil {
				return err
			}
			if mode != DispatchModeOpen && mode != DispatchModeClosed {
				return &ParseError{
					Message:  fmt.Sprintf("@dispatch mode must be %q or %q, got %q", DispatchModeOpen, DispatchModeClosed, mode),
					Position: pos,
				}
			}
			opts.DispatchMode = mode
		case "name":
			name, err := p.stringValue(arg.Value, pos)
			if err != nil {
				return err
			}
			opts.DispatchName = name
		default:
			return unknownArgument(dir.Name, arg.Name, pos)
		}
	}
	return nil
}

func (p *Parser) extractDeprecation(dir *ast.Directive, pos *language.Position) (*Deprecation, error) {
	dep := &Deprecation{Reason: "No longer supported"}
	for _, arg := range dir.Arguments {
		switch arg.Name {
		case "reason":
			reason, err := p.stringValue(arg.Value, pos)
			if err != nil {
				return nil, err
			}
			dep.Reason = reason
		default:
			return nil, unknownArgument(dir.Name, arg.Name, pos)
		}
	}
	return dep, nil
}

// checkArgs rejects any directive argument outside the allowed set.
func (p *Parser) checkArgs(dir *ast.Directive, pos *language.Position, allowed ...string) error {
	for _, arg := range dir.Arguments {
		known := false
		for _, name := range allowed {
			if arg.Name == name {
				known = true
				break
			}
		}
		if !known {
			return unknownArgument(dir.Name, arg.Name, pos)
		}
	}
	return nil
}

func (p *Parser) stringArg(dir *ast.Directive, name string, pos *language.Position) (string, error) {
	if err := p.checkArgs(dir, pos, name); err != nil {
		return "", err
	}
	return p.fetchString(dir, name, pos)
}

// fetchString reads one named string argument without validating the rest of
// the argument list; callers with multiple arguments run checkArgs first.
func (p *Parser) fetchString(dir *ast.Directive, name string, pos *language.Position) (string, error) {
	arg := dir.Arguments.ForName(name)
	if arg == nil {
		return "", missingArgument(dir.Name, name, pos)
	}
	return p.stringValue(arg.Value, pos)
}

func (p *Parser) stringListArg(dir *ast.Directive, name string, pos *language.Position) ([]string, error) {
	if err := p.checkArgs(dir, pos, name); err != nil {
		return nil, err
	}
	arg := dir.Arguments.ForName(name)
	if arg == nil {
		return nil, missingArgument(dir.Name, name, pos)
	}
	if arg.Value.Kind != ast.ListValue {
		return nil, &ParseError{Message: fmt.Sprintf("@%s(%s:) expects a list of strings", dir.Name, name), Position: pos}
	}
	var out []string
	for _, child := range arg.Value.Children {
		s, err := p.stringValue(child.Value, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Parser) stringValue(v *ast.Value, pos *language.Position) (string, error) {
	if v.Kind != ast.StringValue && v.Kind != ast.BlockValue {
		return "", &ParseError{Message: "expected a string value, got " + v.String(), Position: pos}
	}
	return v.Raw, nil
}

func (p *Parser) noArgs(dir *ast.Directive, pos *language.Position) error {
	if len(dir.Arguments) > 0 {
		return &ParseError{Message: fmt.Sprintf("@%s does not accept arguments", dir.Name), Position: pos}
	}
	return nil
}

func unknownDirective(name, site string, pos *language.Position) *ParseError {
	return &ParseError{Message: fmt.Sprintf("unknown %s directive @%s", site, name), Position: pos}
}

func unknownArgument(dir, arg string, pos *language.Position) *ParseError {
	return &ParseError{Message: fmt.Sprintf("unknown argument %q in @%s directive", arg, dir), Position: pos}
}

func missingArgument(dir, arg string, pos *language.Position) *ParseError {
	return &ParseError{Message: fmt.Sprintf("@%s requires a %q argument", dir, arg), Position: pos}
}

func posFile(pos *language.Position) string {
	if pos == nil {
		return ""
	}
	return pos.File
}
