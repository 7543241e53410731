package contract

import (
	"context"
	"sort"
	"time"

	directive "github.com/hanpama/contractgraph/internal/directive"
	eventbus "github.com/hanpama/contractgraph/internal/eventbus"
	events "github.com/hanpama/contractgraph/internal/events"
	language "github.com/hanpama/contractgraph/internal/language"
)

// Extractor turns raw annotation text into structured option bags. It is an
// external collaborator: the compiler never parses annotation text itself.
type Extractor interface {
	Declaration(text string, pos *language.Position) (*directive.DeclarationOptions, error)
	Method(text string, pos *language.Position) (*directive.MethodOptions, error)
	Argument(text string, pos *language.Position) (*directive.ArgumentOptions, error)
}

type builder struct {
	decl      *language.Declaration
	extractor Extractor
	opts      *directive.DeclarationOptions

	name         string
	fields       []*FieldDefinition
	implementers []*ImplementerDefinition
	violations   []*Violation
}

// Compile runs the full pipeline over one declaration. It returns the
// contract model and dispatch artifact, or a ValidationError carrying every
// accumulated violation. No partial model is ever returned.
func Compile(ctx context.Context, decl *language.Declaration, ext Extractor) (*ContractModel, *DispatchArtifact, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.CompileStart{Contract: decl.Contract})

	b := &builder{decl: decl, extractor: ext}
	model, artifact, err := b.compile(ctx)

	eventbus.Publish(ctx, events.CompileFinish{
		Contract:   decl.Contract,
		Err:        err,
		Violations: len(b.violations),
		Duration:   time.Since(start),
	})
	return model, artifact, err
}

func (b *builder) compile(ctx context.Context) (*ContractModel, *DispatchArtifact, error) {
	var opts *directive.DeclarationOptions
	var err error
	b.phase(ctx, "directives", func() {
		opts, err = b.extractor.Declaration(b.decl.Annotation, b.decl.Position)
	})
	if err != nil {
		b.addViolation(violationAnnotation(err))
		return nil, nil, ValidationError(b.violations)
	}
	b.opts = opts

	b.phase(ctx, "implementers", func() {
		b.resolveName()
		b.seedImplementers()
	})
	if err := b.checkpoint(); err != nil {
		return nil, nil, err
	}

	b.phase(ctx, "methods", b.classifyMethods)
	if err := b.checkpoint(); err != nil {
		return nil, nil, err
	}

	var model *ContractModel
	var artifact *DispatchArtifact
	b.phase(ctx, "assemble", func() {
		model, artifact = b.assemble()
	})
	return model, artifact, nil
}

func (b *builder) phase(ctx context.Context, name string, fn func()) {
	start := time.Now()
	eventbus.Publish(ctx, events.PhaseStart{Contract: b.decl.Contract, Phase: name})
	fn()
	eventbus.Publish(ctx, events.PhaseFinish{
		Contract: b.decl.Contract,
		Phase:    name,
		Duration: time.Since(start),
	})
}

func (b *builder) resolveName() {
	name := b.opts.Name
	if name == "" {
		name = b.decl.Contract
	}
	if !b.opts.IsInternal && hasReservedPrefix(name) {
		b.addViolation(violationReservedNamePrefix("Contract", name, b.decl.Position))
	}
	b.name = name
}

func (b *builder) assemble() (*ContractModel, *DispatchArtifact) {
	contextTy := b.resolveContext()
	scalar := b.resolveScalar()
	isAsync, capabilities := b.resolveAsync()
	artifact := b.selectDispatch(isAsync)

	model := &ContractModel{
		Name:         b.name,
		Contract:     b.decl.Contract,
		Artifact:     artifact.Ident(),
		Visibility:   b.decl.Visibility,
		Description:  b.opts.Description,
		Context:      contextTy,
		Scalar:       scalar,
		Generics:     b.decl.Generics,
		Fields:       b.fields,
		Implementers: b.implementers,
		IsAsync:      isAsync,
		Capabilities: capabilities,
	}
	return model, artifact
}

func (b *builder) checkpoint() error {
	if len(b.violations) > 0 {
		return ValidationError(b.violations)
	}
	return nil
}

func (b *builder) addViolation(v ...*Violation) {
	b.violations = append(b.violations, v...)
}

func hasReservedPrefix(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

// Build compiles every declaration supplied by src into a Project.
// Violations from independent declarations are reported together.
func Build(ctx context.Context, src Source, ext Extractor) (*Project, error) {
	metas, err := src.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })

	project := &Project{Contracts: make(map[string]*Compiled)}
	var violations []*Violation
	for _, meta := range metas {
		raw, err := src.ReadDeclaration(ctx, meta.ID)
		if err != nil {
			return nil, err
		}
		decl, err := language.ParseDeclaration(meta.FilePath, raw)
		if err != nil {
			return nil, err
		}
		model, artifact, err := Compile(ctx, decl, ext)
		if err != nil {
			if verr, ok := err.(ValidationError); ok {
				violations = append(violations, verr...)
				continue
			}
			return nil, err
		}
		project.Contracts[decl.Contract] = &Compiled{Model: model, Artifact: artifact}
	}
	if len(violations) > 0 {
		return nil, ValidationError(violations)
	}
	return project, nil
}
