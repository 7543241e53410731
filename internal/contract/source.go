package contract

import (
	"context"
)

// DeclarationID is a unique identifier for a contract declaration document.
type DeclarationID string

type DeclarationMetadata struct {
	ID       DeclarationID
	Name     string
	FilePath string
}

// Source supplies contract declaration documents to the compiler.
type Source interface {
	ListMetadata(ctx context.Context) ([]*DeclarationMetadata, error)
	ReadDeclaration(ctx context.Context, id DeclarationID) ([]byte, error)
}
