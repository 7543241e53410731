package gen

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	contract "github.com/hanpama/contractgraph/internal/contract"
	language "github.com/hanpama/contractgraph/internal/language"
)

// Render generates Go source for every dispatch artifact in the project and
// writes one file per contract into outDir.
func Render(p *contract.Project, pkg, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	names := make([]string, 0, len(p.Contracts))
	for name := range p.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		compiled := p.Contracts[name]
		src := RenderContract(compiled.Model, compiled.Artifact, pkg)
		fp := path.Join(outDir, fileName(compiled.Model.Contract))
		if err := os.WriteFile(fp, []byte(src), 0644); err != nil {
			return err
		}
	}
	return nil
}

// RenderContract generates the Go dispatch source for one compiled contract.
func RenderContract(model *contract.ContractModel, artifact *contract.DispatchArtifact, pkg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by contractgraph. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if len(model.Fields) > 0 {
		if artifact.Closed != nil {
			b.WriteString("import (\n\t\"context\"\n\t\"fmt\"\n)\n\n")
		} else {
			b.WriteString("import \"context\"\n\n")
		}
	}
	if artifact.Open != nil {
		renderOpen(&b, model, artifact.Open)
	} else {
		renderClosed(&b, model, artifact.Closed)
	}
	return b.String()
}

// renderOpen emits a dynamic handle: an interface any current or future
// implementer satisfies, at the cost of indirection on every field call.
func renderOpen(b *strings.Builder, model *contract.ContractModel, open *contract.OpenDispatch) {
	fmt.Fprintf(b, "// %s is the open dispatch handle for contract %s.\n", open.Ident, open.Contract)
	fmt.Fprintf(b, "type %s interface {\n", open.Ident)
	for _, f := range model.Fields {
		fmt.Fprintf(b, "\t%s\n", methodSignature(f))
	}
	b.WriteString("}\n")
}

// renderClosed emits a tagged union with one variant per implementer and a
// forwarding method per field. Callers address the contract's surface
// through the union, not through the original declaration.
func renderClosed(b *strings.Builder, model *contract.ContractModel, closed *contract.ClosedDispatch) {
	fmt.Fprintf(b, "// %s is the closed dispatch representation of contract %s.\n", closed.Ident, closed.Contract)
	if len(closed.AssocTypes) > 0 || len(closed.AssocConsts) > 0 {
		fmt.Fprintf(b, "// It delegates the contract's declared members:")
		for _, ty := range closed.AssocTypes {
			fmt.Fprintf(b, " type %s;", ty)
		}
		for _, c := range closed.AssocConsts {
			fmt.Fprintf(b, " const %s %s;", c.Name, c.Type)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "// Exactly one variant field is set.\n")
	fmt.Fprintf(b, "type %s struct {\n", closed.Ident)
	for _, variant := range closed.Variants {
		fmt.Fprintf(b, "\t%s *%s\n", variant, variant)
	}
	b.WriteString("}\n")

	for _, variant := range closed.Variants {
		fmt.Fprintf(b, "\n// As%s narrows the union to the %s implementer.\n", variant, variant)
		fmt.Fprintf(b, "func (v %s) As%s() (*%s, bool) {\n", closed.Ident, variant, variant)
		fmt.Fprintf(b, "\treturn v.%s, v.%s != nil\n", variant, variant)
		b.WriteString("}\n")
	}

	for _, f := range model.Fields {
		fmt.Fprintf(b, "\nfunc (v %s) %s {\n", closed.Ident, methodSignature(f))
		b.WriteString("\tswitch {\n")
		for _, variant := range closed.Variants {
			fmt.Fprintf(b, "\tcase v.%s != nil:\n", variant)
			fmt.Fprintf(b, "\t\treturn v.%s.%s(%s)\n", variant, methodName(f), callArgs(f))
		}
		b.WriteString("\t}\n")
		fmt.Fprintf(b, "\tvar zero %s\n", goType(f.Type))
		fmt.Fprintf(b, "\treturn zero, fmt.Errorf(\"%s: no variant set\")\n", closed.Ident)
		b.WriteString("}\n")
	}
}

func methodSignature(f *contract.FieldDefinition) string {
	params := []string{"ctx context.Context"}
	for _, arg := range f.Args {
		if arg.Regular == nil {
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", arg.Regular.Name, goType(arg.Regular.Type)))
	}
	return fmt.Sprintf("%s(%s) (%s, error)", methodName(f), strings.Join(params, ", "), goType(f.Type))
}

func callArgs(f *contract.FieldDefinition) string {
	args := []string{"ctx"}
	for _, arg := range f.Args {
		if arg.Regular == nil {
			continue
		}
		args = append(args, arg.Regular.Name)
	}
	return strings.Join(args, ", ")
}

func methodName(f *contract.FieldDefinition) string {
	return exportName(f.Method)
}

func exportName(ident string) string {
	parts := strings.Split(ident, "_")
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		out += strings.ToUpper(part[:1]) + part[1:]
	}
	return out
}

// goType maps a source type shape onto a Go type: Option becomes a pointer,
// Vec a slice, references are transparent.
func goType(t *language.TypeRef) string {
	if t == nil {
		return "struct{}"
	}
	switch t.Name {
	case "Option":
		if len(t.Args) == 1 {
			return "*" + goType(t.Args[0])
		}
	case "Vec":
		if len(t.Args) == 1 {
			return "[]" + goType(t.Args[0])
		}
	case "String", "str":
		return "string"
	case "i8":
		return "int8"
	case "i16":
		return "int16"
	case "i32":
		return "int32"
	case "i64":
		return "int64"
	case "u8":
		return "uint8"
	case "u16":
		return "uint16"
	case "u32":
		return "uint32"
	case "f32":
		return "float32"
	case "f64":
		return "float64"
	case "bool":
		return "bool"
	case "()":
		return "struct{}"
	}
	return t.Name
}

func fileName(contractName string) string {
	out := ""
	for i, r := range contractName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out += "_"
			}
			out += string(r - 'A' + 'a')
			continue
		}
		out += string(r)
	}
	return out + "_dispatch.go"
}
