package schema

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"

	contract "github.com/hanpama/contractgraph/internal/contract"
	language "github.com/hanpama/contractgraph/internal/language"
)

// BuildDocument projects a compiled contract model into a GraphQL schema
// document: one interface definition plus an object stub per implementer.
// Context and executor arguments are dispatch plumbing and never appear in
// the schema.
func BuildDocument(model *contract.ContractModel) *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}

	iface := &ast.Definition{
		Kind:        ast.Interface,
		Name:        model.Name,
		Description: model.Description,
		Fields:      buildFields(model),
	}
	doc.Definitions = append(doc.Definitions, iface)

	for _, impl := range model.Implementers {
		doc.Definitions = append(doc.Definitions, &ast.Definition{
			Kind:       ast.Object,
			Name:       impl.Type,
			Interfaces: []string{model.Name},
			Fields:     buildFields(model),
		})
	}
	return doc
}

func buildFields(model *contract.ContractModel) ast.FieldList {
	var fields ast.FieldList
	for _, f := range model.Fields {
		field := &ast.FieldDefinition{
			Name:        f.Name,
			Description: f.Description,
			Type:        buildType(f.Type),
		}
		if f.Deprecation != nil {
			field.Directives = append(field.Directives, deprecatedDirective(f.Deprecation.Reason))
		}
		for _, arg := range f.Args {
			if arg.Regular == nil {
				continue
			}
			field.Arguments = append(field.Arguments, &ast.ArgumentDefinition{
				Name:         arg.Regular.Name,
				Description:  arg.Regular.Description,
				Type:         buildType(arg.Regular.Type),
				DefaultValue: buildDefault(arg.Regular),
			})
		}
		fields = append(fields, field)
	}
	return fields
}

// buildType maps a source type shape onto a GraphQL type expression.
// Option removes the non-null wrapper, Vec becomes a list, references are
// transparent, well-known scalar names map to built-in scalars.
func buildType(t *language.TypeRef) *ast.Type {
	typ, nonNull := projectType(t)
	if typ == nil {
		return ast.NonNullNamedType("Unit", nil)
	}
	typ.NonNull = nonNull
	return typ
}

func projectType(t *language.TypeRef) (*ast.Type, bool) {
	if t == nil {
		return nil, false
	}
	switch t.Name {
	case "Option":
		if len(t.Args) == 1 {
			inner, _ := projectType(t.Args[0])
			return inner, false
		}
	case "Vec":
		if len(t.Args) == 1 {
			return ast.ListType(buildType(t.Args[0]), nil), true
		}
	case "String", "str":
		return ast.NamedType("String", nil), true
	case "i8", "i16", "i32", "u8", "u16", "u32":
		return ast.NamedType("Int", nil), true
	case "f32", "f64":
		return ast.NamedType("Float", nil), true
	case "bool":
		return ast.NamedType("Boolean", nil), true
	case "()":
		return nil, false
	}
	return ast.NamedType(t.Name, nil), true
}

func buildDefault(arg *contract.RegularArgument) *ast.Value {
	if !arg.HasDefault {
		return nil
	}
	return buildValue(arg.Default)
}

func buildValue(v any) *ast.Value {
	switch v := v.(type) {
	case nil:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v)}
	case string:
		return &ast.Value{Kind: ast.StringValue, Raw: v}
	case int64:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(v, 10)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
	case []any:
		value := &ast.Value{Kind: ast.ListValue}
		for _, child := range v {
			value.Children = append(value.Children, &ast.ChildValue{Value: buildValue(child)})
		}
		return value
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		value := &ast.Value{Kind: ast.ObjectValue}
		for _, name := range names {
			value.Children = append(value.Children, &ast.ChildValue{Name: name, Value: buildValue(v[name])})
		}
		return value
	default:
		return &ast.Value{Kind: ast.StringValue, Raw: fmt.Sprint(v)}
	}
}

func deprecatedDirective(reason string) *ast.Directive {
	dir := &ast.Directive{Name: "deprecated"}
	if reason != "" {
		dir.Arguments = append(dir.Arguments, &ast.Argument{
			Name:  "reason",
			Value: &ast.Value{Kind: ast.StringValue, Raw: reason},
		})
	}
	return dir
}
