package language

// Position locates a declaration element in its source document.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Declaration is one annotated behavioral contract: a named set of method
// signatures plus declaration-level annotation text. It is immutable input
// to the compiler.
type Declaration struct {
	Contract   string        `json:"contract"`
	Generics   []string      `json:"generics,omitempty"`
	Visibility string        `json:"visibility,omitempty"`
	Annotation string        `json:"annotation,omitempty"`
	Types      []*AssocType  `json:"types,omitempty"`
	Consts     []*AssocConst `json:"consts,omitempty"`
	Methods    []*Method     `json:"methods"`
	Position   *Position     `json:"position,omitempty"`
}

// AssocType is an associated type declared by the contract itself.
type AssocType struct {
	Name string `json:"name"`
}

// AssocConst is an associated constant declared by the contract itself.
type AssocConst struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Receiver forms a method may declare.
const (
	ReceiverNone = ""
	ReceiverRef  = "ref"
	ReceiverMut  = "mut"
	ReceiverOwn  = "own"
)

type Method struct {
	Name       string    `json:"method"`
	Receiver   string    `json:"receiver"`
	IsAsync    bool      `json:"async,omitempty"`
	HasDefault bool      `json:"hasDefault,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
	Result     *TypeRef  `json:"result,omitempty"`
	Params     []*Param  `json:"params,omitempty"`
	Position   *Position `json:"position,omitempty"`
}

// Param is a non-receiver method parameter. Pattern is the raw binding
// pattern; only single bare identifiers can be named implicitly.
type Param struct {
	Pattern    string    `json:"pattern"`
	Type       *TypeRef  `json:"type"`
	Annotation string    `json:"annotation,omitempty"`
	Position   *Position `json:"position,omitempty"`
}

// TypeRef is a structural reference to a source-language type. Ref marks a
// shared-reference layer and Lifetime its borrow annotation, both of which
// are erased when the type is projected into a field shape.
type TypeRef struct {
	Name     string     `json:"name"`
	Args     []*TypeRef `json:"args,omitempty"`
	Ref      bool       `json:"ref,omitempty"`
	Lifetime string     `json:"lifetime,omitempty"`
}
