package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const declarationExt = ".contract.json"

// FileSystemSource implements Source over a directory of declaration
// documents (*.contract.json).
type FileSystemSource struct {
	filePaths map[DeclarationID]string
	metas     map[DeclarationID]*DeclarationMetadata
}

// NewFileSystemSource walks rootDir collecting every declaration document.
func NewFileSystemSource(rootDir string) (*FileSystemSource, error) {
	src := &FileSystemSource{
		filePaths: make(map[DeclarationID]string),
		metas:     make(map[DeclarationID]*DeclarationMetadata),
	}

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), declarationExt) {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}

		name := strings.TrimSuffix(d.Name(), declarationExt)
		id := DeclarationID(name)
		src.filePaths[id] = path
		src.metas[id] = &DeclarationMetadata{
			ID:       id,
			Name:     name,
			FilePath: relPath,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk root directory %q: %w", rootDir, err)
	}
	return src, nil
}

func (s *FileSystemSource) ListMetadata(ctx context.Context) ([]*DeclarationMetadata, error) {
	metas := make([]*DeclarationMetadata, 0, len(s.metas))
	for _, meta := range s.metas {
		metas = append(metas, meta)
	}
	return metas, nil
}

func (s *FileSystemSource) ReadDeclaration(ctx context.Context, id DeclarationID) ([]byte, error) {
	fp, ok := s.filePaths[id]
	if !ok {
		return nil, fmt.Errorf("declaration %q not found", id)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration %q: %w", id, err)
	}
	return content, nil
}
