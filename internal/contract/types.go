package contract

import (
	language "github.com/hanpama/contractgraph/internal/language"
)

// Project is the result of compiling every discovered declaration.
type Project struct {
	Contracts map[string]*Compiled `json:"contracts"`
}

// Compiled pairs a contract model with its dispatch artifact.
type Compiled struct {
	Model    *ContractModel    `json:"model"`
	Artifact *DispatchArtifact `json:"artifact"`
}

// ContractModel is the structured description of a compiled contract handed
// to the schema-building side.
type ContractModel struct {
	Name         string                   `json:"name"`
	Contract     string                   `json:"contract"`
	Artifact     string                   `json:"artifactType"`
	Visibility   string                   `json:"visibility,omitempty"`
	Description  string                   `json:"description,omitempty"`
	Context      string                   `json:"context,omitempty"`
	Scalar       *ScalarParameter         `json:"scalar"`
	Generics     []string                 `json:"generics,omitempty"`
	Fields       []*FieldDefinition       `json:"fields"`
	Implementers []*ImplementerDefinition `json:"implementers"`
	IsAsync      bool                     `json:"isAsync,omitempty"`
	Capabilities []string                 `json:"capabilities,omitempty"`
}

// FieldDefinition is one queryable field classified from a contract method.
type FieldDefinition struct {
	Name        string                `json:"name"`
	Type        *language.TypeRef     `json:"fieldType"`
	Description string                `json:"description,omitempty"`
	Deprecation *Deprecation          `json:"deprecation,omitempty"`
	Args        []*ArgumentDefinition `json:"args,omitempty"`
	Method      string                `json:"method"`
	IsAsync     bool                  `json:"isAsync,omitempty"`
}

type Deprecation struct {
	Reason string `json:"reason,omitempty"`
}

// ArgumentDefinition is a tagged union: exactly one of Context, Executor or
// Regular is set.
type ArgumentDefinition struct {
	Context  *ContextArgument  `json:"context,omitempty"`
	Executor *ExecutorArgument `json:"executor,omitempty"`
	Regular  *RegularArgument  `json:"regular,omitempty"`
}

// ContextArgument receives the caller-provided context value.
type ContextArgument struct {
	Type *language.TypeRef `json:"type"`
}

// ExecutorArgument receives the executor handle of the running operation.
type ExecutorArgument struct{}

// RegularArgument is an externally visible named argument.
type RegularArgument struct {
	Name        string            `json:"name"`
	Type        *language.TypeRef `json:"type"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	HasDefault  bool              `json:"hasDefault,omitempty"`
}

// ImplementerDefinition is one concrete type claiming to satisfy the
// contract. There is never more than one entry per distinct type.
type ImplementerDefinition struct {
	Type     string             `json:"type"`
	Downcast *DowncastBinding   `json:"downcast,omitempty"`
	Context  *language.TypeRef  `json:"context,omitempty"`
	Position *language.Position `json:"-"`
}

// DowncastBinding is a tagged union: exactly one of ByMethod or External is
// set. An implementer carries at most one binding.
type DowncastBinding struct {
	ByMethod *MethodDowncast   `json:"byMethod,omitempty"`
	External *ExternalDowncast `json:"external,omitempty"`
}

// MethodDowncast narrows through a method declared on the contract itself.
type MethodDowncast struct {
	Method      string `json:"method"`
	WithContext bool   `json:"withContext,omitempty"`
}

// ExternalDowncast narrows through a free function bound on the declaration.
type ExternalDowncast struct {
	Func string `json:"func"`
}

// ScalarParameter describes how the generic payload parameter is threaded
// through generated signatures: exactly one of Concrete, ExplicitGeneric or
// Implicit is set.
type ScalarParameter struct {
	Concrete        *language.TypeRef `json:"concrete,omitempty"`
	ExplicitGeneric string            `json:"explicitGeneric,omitempty"`
	Implicit        *ImplicitScalar   `json:"implicit,omitempty"`
}

// ImplicitScalar is a synthesized payload parameter with a default concrete
// type, so non-generic callers are unaffected.
type ImplicitScalar struct {
	Param   string `json:"param"`
	Default string `json:"default"`
}

// DefaultScalarType is the concrete payload representation assumed when the
// declaration does not bind one.
const DefaultScalarType = "DefaultScalarValue"

// ImplicitScalarParam is the synthesized generic parameter identifier.
const ImplicitScalarParam = "S"

func (s *ScalarParameter) IsGeneric() bool {
	return s != nil && (s.ExplicitGeneric != "" || s.Implicit != nil)
}

// DispatchArtifact is a tagged union: exactly one of Open or Closed is set.
type DispatchArtifact struct {
	Open   *OpenDispatch   `json:"open,omitempty"`
	Closed *ClosedDispatch `json:"closed,omitempty"`
}

// OpenDispatch is a dynamic handle to anything satisfying the contract:
// membership is unbounded, every field call goes through indirection.
type OpenDispatch struct {
	Ident    string `json:"ident"`
	Contract string `json:"contract"`
}

// ClosedDispatch is a tagged union with one variant per implementer. It
// re-exposes the contract's own associated types, consts and methods as
// delegating members, since callers address the contract through the union.
type ClosedDispatch struct {
	Ident       string                 `json:"ident"`
	Contract    string                 `json:"contract"`
	Variants    []string               `json:"variants"`
	AssocTypes  []string               `json:"assocTypes,omitempty"`
	AssocConsts []*language.AssocConst `json:"assocConsts,omitempty"`
	Methods     []string               `json:"methods,omitempty"`
}

// Ident names the generated dispatch type regardless of mode.
func (a *DispatchArtifact) Ident() string {
	if a == nil {
		return ""
	}
	if a.Open != nil {
		return a.Open.Ident
	}
	return a.Closed.Ident
}
