package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSystemVault stores backup artifacts as files under a root directory.
// The root is expected to live outside any web-served tree.
type FileSystemVault struct {
	root string
}

func NewFileSystemVault(root string) (*FileSystemVault, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create vault root: %w", err)
	}
	return &FileSystemVault{root: root}, nil
}

func (v *FileSystemVault) Put(_ context.Context, name string, data []byte) (string, error) {
	dest := filepath.Join(v.root, filepath.Base(name))

	// Artifact names are timestamped; an existing file means a replayed
	// operation, which must not clobber the original.
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("artifact already exists: %s", dest)
	}

	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return dest, nil
}

func (v *FileSystemVault) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(v.root, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

var _ Vault = (*FileSystemVault)(nil)
