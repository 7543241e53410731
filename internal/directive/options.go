package directive

import (
	language "github.com/hanpama/contractgraph/internal/language"
)

// DeclarationOptions is the structured option bag recognized on a whole
// contract declaration.
type DeclarationOptions struct {
	Name              string
	Description       string
	Scalar            string
	Implementers      []string
	ExternalDowncasts []*ExternalDowncast
	Context           string
	DispatchMode      string
	DispatchName      string
	IsAsync           bool
	IsInternal        bool
}

// Dispatch modes accepted by @dispatch(mode:).
const (
	DispatchModeOpen   = "open"
	DispatchModeClosed = "closed"
)

// ExternalDowncast binds an implementer type to a downcast function declared
// outside the contract.
type ExternalDowncast struct {
	Type     string
	Func     string
	Position *language.Position
}

// MethodOptions is the option bag recognized on a single method.
type MethodOptions struct {
	Name        string
	Description string
	Deprecated  *Deprecation
	Ignore      bool
	Downcast    bool
}

type Deprecation struct {
	Reason string
}

// ArgumentOptions is the option bag recognized on a method parameter.
// Default is a pointer so an explicit default of "" or 0 stays observable.
type ArgumentOptions struct {
	Name        string
	Description string
	Default     *DefaultValue
	Context     bool
	Executor    bool
}

type DefaultValue struct {
	Value any
}

// ParseError is a structured extraction failure carrying the source
// location of the annotated element.
type ParseError struct {
	Message  string
	Position *language.Position
}

func (e *ParseError) Error() string {
	if e.Position == nil || e.Position.File == "" {
		return e.Message
	}
	return e.Message + " at " + e.Position.File
}
