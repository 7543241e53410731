package contract_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hanpama/contractgraph/internal/contract"
	"github.com/hanpama/contractgraph/internal/directive"
	"github.com/hanpama/contractgraph/internal/language"
)

func compileJSON(t *testing.T, source string) (*contract.ContractModel, *contract.DispatchArtifact, error) {
	t.Helper()
	decl, err := language.ParseDeclaration("test.contract.json", []byte(source))
	if err != nil {
		t.Fatalf("ParseDeclaration failed: %v", err)
	}
	return contract.Compile(t.Context(), decl, directive.NewParser())
}

func mustCompile(t *testing.T, source string) (*contract.ContractModel, *contract.DispatchArtifact) {
	t.Helper()
	model, artifact, err := compileJSON(t, source)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return model, artifact
}

var ignorePositions = cmpopts.IgnoreFields(contract.ImplementerDefinition{}, "Position")

const basicDecl = `{
	"contract": "Character",
	"annotation": "@implement(types: [\"Human\"])",
	"methods": [
		{"method": "name", "receiver": "ref", "result": {"name": "String"}},
		{"method": "value", "receiver": "ref", "result": {"name": "i32"}},
		{"method": "as_human", "receiver": "ref", "annotation": "@downcast",
		 "result": {"name": "Option", "args": [{"name": "Human", "ref": true}]}}
	]
}`

func TestCompileBasic(t *testing.T) {
	model, artifact := mustCompile(t, basicDecl)

	expected := &contract.ContractModel{
		Name:     "Character",
		Contract: "Character",
		Artifact: "CharacterValue",
		Scalar: &contract.ScalarParameter{Implicit: &contract.ImplicitScalar{
			Param:   contract.ImplicitScalarParam,
			Default: contract.DefaultScalarType,
		}},
		Fields: []*contract.FieldDefinition{
			{Name: "name", Type: &language.TypeRef{Name: "String"}, Method: "name"},
			{Name: "value", Type: &language.TypeRef{Name: "i32"}, Method: "value"},
		},
		Implementers: []*contract.ImplementerDefinition{
			{Type: "Human", Downcast: &contract.DowncastBinding{
				ByMethod: &contract.MethodDowncast{Method: "as_human"},
			}},
		},
	}
	if diff := cmp.Diff(expected, model, ignorePositions); diff != "" {
		t.Errorf("model mismatch (-expected +got):\n%s", diff)
	}

	if artifact.Closed == nil {
		t.Fatal("expected a closed dispatch artifact")
	}
	expectedArtifact := &contract.ClosedDispatch{
		Ident:    "CharacterValue",
		Contract: "Character",
		Variants: []string{"Human"},
		Methods:  []string{"name", "value", "as_human"},
	}
	if diff := cmp.Diff(expectedArtifact, artifact.Closed); diff != "" {
		t.Errorf("artifact mismatch (-expected +got):\n%s", diff)
	}
}

func TestIdempotence(t *testing.T) {
	model1, artifact1 := mustCompile(t, basicDecl)
	model2, artifact2 := mustCompile(t, basicDecl)
	if diff := cmp.Diff(model1, model2, ignorePositions); diff != "" {
		t.Errorf("models differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(artifact1, artifact2); diff != "" {
		t.Errorf("artifacts differ between runs:\n%s", diff)
	}
}

func TestExternalDowncastBinding(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"annotation": "@implement(types: [\"Human\", \"Droid\"]) @downcast(type: \"Droid\", with: \"resolve_droid\")",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}}
		]
	}`)
	expected := []*contract.ImplementerDefinition{
		{Type: "Human"},
		{Type: "Droid", Downcast: &contract.DowncastBinding{
			External: &contract.ExternalDowncast{Func: "resolve_droid"},
		}},
	}
	if diff := cmp.Diff(expected, model.Implementers, ignorePositions); diff != "" {
		t.Errorf("implementers mismatch (-expected +got):\n%s", diff)
	}
}

func TestExternalDowncastNonImplementer(t *testing.T) {
	model, _, err := compileJSON(t, `{
		"contract": "Character",
		"annotation": "@downcast(type: \"Ewok\", with: \"resolve_ewok\")",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}}
		]
	}`)
	if model != nil {
		t.Fatal("expected no model")
	}
	verr, ok := err.(contract.ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %v", len(verr), err)
	}
	if !strings.Contains(verr[0].Message, "downcasting is possible only to declared implementers") {
		t.Errorf("unexpected message: %s", verr[0].Message)
	}
}

func TestDuplicateDowncast(t *testing.T) {
	model, _, err := compileJSON(t, `{
		"contract": "Character",
		"annotation": "@implement(types: [\"Human\"]) @downcast(type: \"Human\", with: \"resolve_human\")",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}},
			{"method": "as_human", "receiver": "ref", "annotation": "@downcast",
			 "result": {"name": "Option", "args": [{"name": "Human", "ref": true}]}}
		]
	}`)
	if model != nil {
		t.Fatal("expected no model")
	}
	verr, ok := err.(contract.ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %v", len(verr), err)
	}
	msg := verr[0].Message
	if !strings.Contains(msg, "as_human") || !strings.Contains(msg, "resolve_human") {
		t.Errorf("conflict must name both bindings, got: %s", msg)
	}
}

func TestDowncastWithContext(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"annotation": "@implement(types: [\"Human\"])",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}},
			{"method": "as_human", "receiver": "ref", "annotation": "@downcast",
			 "result": {"name": "Option", "args": [{"name": "Human", "ref": true}]},
			 "params": [{"pattern": "db", "type": {"name": "Database", "ref": true}}]}
		]
	}`)
	impl := model.Implementers[0]
	if impl.Downcast == nil || impl.Downcast.ByMethod == nil || !impl.Downcast.ByMethod.WithContext {
		t.Fatalf("expected a context-consuming method binding, got %+v", impl.Downcast)
	}
	if model.Context != "Database" {
		t.Errorf("expected context type inferred from downcast, got %q", model.Context)
	}
}

func TestAsyncDowncastRejected(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"annotation": "@implement(types: [\"Human\"])",
		"methods": [
			{"method": "as_human", "receiver": "ref", "async": true, "annotation": "@downcast",
			 "result": {"name": "Option", "args": [{"name": "Human", "ref": true}]}}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "async downcast") {
		t.Fatalf("expected async downcast violation, got %v", err)
	}
}

func TestContextArgumentByConvention(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "friends", "receiver": "ref", "result": {"name": "Vec", "args": [{"name": "String"}]},
			 "params": [
				{"pattern": "context", "type": {"name": "Database", "ref": true}},
				{"pattern": "executor", "type": {"name": "Executor", "ref": true}},
				{"pattern": "name_filter", "type": {"name": "String"}}
			 ]}
		]
	}`)
	args := model.Fields[0].Args
	if len(args) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(args))
	}
	if args[0].Context == nil {
		t.Error("first argument should be classified as context")
	}
	if args[1].Executor == nil {
		t.Error("second argument should be classified as executor")
	}
	if args[2].Regular == nil || args[2].Regular.Name != "nameFilter" {
		t.Errorf("third argument should be a regular argument named nameFilter, got %+v", args[2])
	}
	for _, arg := range args {
		if arg.Regular != nil && (arg.Regular.Name == "context" || arg.Regular.Name == "executor") {
			t.Errorf("special argument leaked into regular arguments: %+v", arg.Regular)
		}
	}
	if model.Context != "Database" {
		t.Errorf("expected context type inferred from field argument, got %q", model.Context)
	}
}

func TestNamedArgumentOptsOutOfConvention(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "params": [
				{"pattern": "context", "type": {"name": "String"},
				 "annotation": "@name(value: \"scope\")"}
			 ]}
		]
	}`)
	args := model.Fields[0].Args
	if len(args) != 1 || args[0].Regular == nil || args[0].Regular.Name != "scope" {
		t.Fatalf("explicitly renamed parameter must be a regular argument, got %+v", args)
	}
	if model.Context != "" {
		t.Errorf("renamed parameter must not feed context inference, got %q", model.Context)
	}
}

func TestExplicitRoleForbidsRegularDirectives(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "params": [
				{"pattern": "db", "type": {"name": "Database", "ref": true},
				 "annotation": "@context @default(value: 1)"}
			 ]}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "not allowed on a context or executor argument") {
		t.Fatalf("expected disallowed-directive violation, got %v", err)
	}
}

func TestDuplicateContextArguments(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "params": [
				{"pattern": "ctx", "type": {"name": "Database", "ref": true}},
				{"pattern": "context", "type": {"name": "Database", "ref": true}}
			 ]}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "more than one context argument") {
		t.Fatalf("expected duplicate special argument violation, got %v", err)
	}
}

func TestDestructuredArgumentNeedsExplicitName(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "params": [{"pattern": "(a, b)", "type": {"name": "Pair"}}]}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "must be a single identifier") {
		t.Fatalf("expected malformed-pattern violation, got %v", err)
	}
}

func TestMutableReceiverRejected(t *testing.T) {
	model, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "mut", "result": {"name": "String"}}
		]
	}`)
	if model != nil {
		t.Fatal("expected no model")
	}
	if err == nil || !strings.Contains(err.Error(), "shared reference `&self`") {
		t.Fatalf("expected invalid-receiver violation, got %v", err)
	}
}

func TestMissingReceiverRejected(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "", "result": {"name": "String"}}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "should have a shared reference receiver") {
		t.Fatalf("expected missing-receiver violation, got %v", err)
	}
}

func TestReservedPrefixRejected(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "annotation": "@name(value: \"__id\")"}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "reserved prefix") {
		t.Fatalf("expected reserved-prefix violation, got %v", err)
	}
}

func TestReservedPrefixArgumentRejected(t *testing.T) {
	_, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "params": [
				{"pattern": "where", "type": {"name": "String"},
				 "annotation": "@name(value: \"__where\")"}
			 ]}
		]
	}`)
	if err == nil || !strings.Contains(err.Error(), "reserved prefix") {
		t.Fatalf("expected reserved-prefix violation on the argument name, got %v", err)
	}
}

func TestDuplicateFieldRejected(t *testing.T) {
	model, _, err := compileJSON(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}},
			{"method": "ident", "receiver": "ref", "result": {"name": "String"},
			 "annotation": "@name(value: \"id\")"}
		]
	}`)
	if model != nil {
		t.Fatal("expected no model")
	}
	if err == nil || !strings.Contains(err.Error(), `Duplicate field "id"`) {
		t.Fatalf("expected duplicate-field violation, got %v", err)
	}
}

func TestReservedPrefixAllowedOnInternal(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "__Type",
		"annotation": "@internal",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "annotation": "@name(value: \"__id\")"}
		]
	}`)
	if model.Fields[0].Name != "__id" {
		t.Errorf("internal declarations may use reserved names, got %q", model.Fields[0].Name)
	}
}

func TestIgnoredMethodDropped(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}},
			{"method": "helper", "receiver": "mut", "annotation": "@ignore"}
		]
	}`)
	if len(model.Fields) != 1 {
		t.Fatalf("ignored method must be dropped from all stages, got %d fields", len(model.Fields))
	}
}

func TestScalarExplicitGeneric(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"generics": ["S"],
		"annotation": "@scalar(type: \"S\")",
		"methods": [{"method": "id", "receiver": "ref", "result": {"name": "String"}}]
	}`)
	if model.Scalar.ExplicitGeneric != "S" {
		t.Errorf("expected ExplicitGeneric bound to S, got %+v", model.Scalar)
	}
}

func TestScalarConcrete(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"annotation": "@scalar(type: \"MyScalarValue\")",
		"methods": [{"method": "id", "receiver": "ref", "result": {"name": "String"}}]
	}`)
	if model.Scalar.Concrete == nil || model.Scalar.Concrete.Name != "MyScalarValue" {
		t.Errorf("expected Concrete MyScalarValue, got %+v", model.Scalar)
	}
}

func TestOpenDispatch(t *testing.T) {
	model, artifact := mustCompile(t, `{
		"contract": "Character",
		"annotation": "@dispatch(mode: \"open\", name: \"DynCharacter\")",
		"methods": [{"method": "id", "receiver": "ref", "result": {"name": "String"}}]
	}`)
	if artifact.Open == nil {
		t.Fatal("expected an open dispatch artifact")
	}
	if artifact.Open.Ident != "DynCharacter" {
		t.Errorf("expected artifact ident DynCharacter, got %q", artifact.Open.Ident)
	}
	if model.Artifact != "DynCharacter" {
		t.Errorf("model must carry the artifact ident, got %q", model.Artifact)
	}
}

func TestAsyncContract(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"}},
			{"method": "friends", "receiver": "ref", "async": true, "result": {"name": "Vec", "args": [{"name": "String"}]}}
		]
	}`)
	if !model.IsAsync {
		t.Error("any async field method must mark the whole contract async")
	}
	if len(model.Capabilities) != 0 {
		t.Errorf("no default async methods, expected no capability bounds, got %v", model.Capabilities)
	}
}

func TestDefaultAsyncAddsShareableCapability(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "async": true, "hasDefault": true, "result": {"name": "String"}}
		]
	}`)
	if !model.IsAsync {
		t.Fatal("expected async contract")
	}
	if diff := cmp.Diff([]string{contract.CapabilityShareable}, model.Capabilities); diff != "" {
		t.Errorf("capabilities mismatch (-expected +got):\n%s", diff)
	}
}

func TestDeprecationDefaultReason(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref", "result": {"name": "String"},
			 "annotation": "@deprecated"}
		]
	}`)
	if model.Fields[0].Deprecation == nil || model.Fields[0].Deprecation.Reason != "No longer supported" {
		t.Errorf("expected default deprecation reason, got %+v", model.Fields[0].Deprecation)
	}
}

func TestLifetimeErasedFromFieldType(t *testing.T) {
	model, _ := mustCompile(t, `{
		"contract": "Character",
		"methods": [
			{"method": "id", "receiver": "ref",
			 "result": {"name": "str", "ref": true, "lifetime": "'a"}}
		]
	}`)
	expected := &language.TypeRef{Name: "str", Ref: true}
	if diff := cmp.Diff(expected, model.Fields[0].Type); diff != "" {
		t.Errorf("field type mismatch (-expected +got):\n%s", diff)
	}
}

func TestBuildProject(t *testing.T) {
	src := contract.NewInMemorySource([]contract.InMemoryDeclaration{
		{Name: "Character", Content: basicDecl},
	})
	project, err := contract.Build(context.Background(), src, directive.NewParser())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	compiled, ok := project.Contracts["Character"]
	if !ok {
		t.Fatal("expected compiled contract Character")
	}
	if len(compiled.Model.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(compiled.Model.Fields))
	}
}

func TestBuildProjectAggregatesViolations(t *testing.T) {
	src := contract.NewInMemorySource([]contract.InMemoryDeclaration{
		{Name: "Bad", Content: `{
			"contract": "Bad",
			"methods": [{"method": "id", "receiver": "mut", "result": {"name": "String"}}]
		}`},
		{Name: "Worse", Content: `{
			"contract": "Worse",
			"annotation": "@downcast(type: \"Ewok\", with: \"resolve_ewok\")",
			"methods": [{"method": "id", "receiver": "ref", "result": {"name": "String"}}]
		}`},
	})
	_, err := contract.Build(context.Background(), src, directive.NewParser())
	verr, ok := err.(contract.ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr) != 2 {
		t.Fatalf("expected violations from both declarations, got %d: %v", len(verr), err)
	}
}
