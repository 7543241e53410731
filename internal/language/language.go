package language

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseDeclaration decodes a declaration document. The name is recorded as
// the position file for every element that did not carry one.
func ParseDeclaration(name string, source []byte) (*Declaration, error) {
	var decl Declaration
	if err := json.Unmarshal(source, &decl); err != nil {
		return nil, fmt.Errorf("parsing declaration %s: %w", name, err)
	}
	if decl.Contract == "" {
		return nil, fmt.Errorf("parsing declaration %s: missing contract name", name)
	}
	if decl.Position == nil {
		decl.Position = &Position{File: name}
	}
	for _, m := range decl.Methods {
		if m.Position == nil {
			m.Position = &Position{File: name}
		}
		for _, p := range m.Params {
			if p.Position == nil {
				p.Position = m.Position
			}
		}
	}
	return &decl, nil
}

// Erased returns a copy of t with every lifetime annotation removed.
// Reference layers are kept: they shape the type, lifetimes do not.
func (t *TypeRef) Erased() *TypeRef {
	if t == nil {
		return nil
	}
	out := &TypeRef{Name: t.Name, Ref: t.Ref}
	for _, a := range t.Args {
		out.Args = append(out.Args, a.Erased())
	}
	return out
}

// Unreferenced strips the outermost reference layer, if any.
func (t *TypeRef) Unreferenced() *TypeRef {
	if t == nil || !t.Ref {
		return t
	}
	return &TypeRef{Name: t.Name, Args: t.Args, Lifetime: ""}
}

func (t *TypeRef) String() string {
	if t == nil {
		return "()"
	}
	var b strings.Builder
	if t.Ref {
		b.WriteString("&")
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteString("<")
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(">")
	}
	return b.String()
}
