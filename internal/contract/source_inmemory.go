package contract

import (
	"context"
	"fmt"
)

type InMemoryDeclaration struct {
	Name    string
	Content string
}

// InMemorySource is a test implementation of Source that stores declaration
// documents in memory.
type InMemorySource struct {
	metas    map[DeclarationID]*DeclarationMetadata
	contents map[DeclarationID]string
}

func NewInMemorySource(decls []InMemoryDeclaration) *InMemorySource {
	src := &InMemorySource{
		metas:    make(map[DeclarationID]*DeclarationMetadata),
		contents: make(map[DeclarationID]string),
	}
	for _, decl := range decls {
		id := DeclarationID(decl.Name)
		src.metas[id] = &DeclarationMetadata{
			ID:       id,
			Name:     decl.Name,
			FilePath: decl.Name + declarationExt,
		}
		src.contents[id] = decl.Content
	}
	return src
}

func (s *InMemorySource) ListMetadata(ctx context.Context) ([]*DeclarationMetadata, error) {
	metas := make([]*DeclarationMetadata, 0, len(s.metas))
	for _, meta := range s.metas {
		metas = append(metas, meta)
	}
	return metas, nil
}

func (s *InMemorySource) ReadDeclaration(ctx context.Context, id DeclarationID) ([]byte, error) {
	content, ok := s.contents[id]
	if !ok {
		return nil, fmt.Errorf("declaration %q not found", id)
	}
	return []byte(content), nil
}
