package vault

import (
	"context"
	"fmt"

	"github.com/vortisllc/memre-backend/internal/config"
)

// Vault stores backup artifacts. Put is write-once by convention: artifact
// names embed a timestamp, so the same name is never written twice in normal
// operation. The returned ref is a human-readable location (path or URL).
type Vault interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, name string) ([]byte, error)
}

// NewFromConfig creates a Vault implementation based on the configured type.
func NewFromConfig(cfg *config.Config) (Vault, error) {
	switch cfg.VaultType {
	case "memory":
		return NewMemoryVault(), nil
	case "s3":
		if cfg.VaultBucket == "" {
			return nil, fmt.Errorf("s3 vault requires BACKUP_S3_BUCKET to be set")
		}
		return NewS3Vault(cfg)
	case "filesystem":
		if cfg.VaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires BACKUP_VAULT_ROOT to be set")
		}
		return NewFileSystemVault(cfg.VaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.VaultType)
	}
}
