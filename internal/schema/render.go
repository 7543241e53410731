package schema

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/formatter"

	contract "github.com/hanpama/contractgraph/internal/contract"
)

// Render produces SDL for one compiled contract.
func Render(model *contract.ContractModel) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchemaDocument(BuildDocument(model))
	return b.String()
}

// RenderProject produces SDL for every contract in the project, ordered by
// contract name so output is deterministic.
func RenderProject(p *contract.Project) string {
	names := make([]string, 0, len(p.Contracts))
	for name := range p.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	f := formatter.NewFormatter(&b)
	for _, name := range names {
		f.FormatSchemaDocument(BuildDocument(p.Contracts[name].Model))
	}
	return b.String()
}
