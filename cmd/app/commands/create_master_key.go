package commands

import (
	"context"
	"fmt"

	"github.com/thorsten-l/l9g-accountinfo/internal/app"
	"github.com/thorsten-l/l9g-accountinfo/internal/config"
)

// RunCreateMasterKey creates the master key file ahead of the first server
// start. The server would create it on its own; running this separately lets
// an operator provision the file with the right ownership before deployment.
//
// When MASTER_KEY_KMS_URI is set the file content is wrapped by the
// configured gocloud.dev secrets keeper and the plaintext key never touches
// disk. For local development, use "base64key://<32-byte-base64-key>".
func RunCreateMasterKey(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	if _, err := container.MasterKey(); err != nil {
		return fmt.Errorf("failed to create master key: %w", err)
	}

	io := DefaultIO()
	_, _ = fmt.Fprintf(io.Writer, "Master key ready at %s\n", cfg.MasterKeyPath)
	if cfg.MasterKeyKMSURI != "" {
		_, _ = fmt.Fprintf(io.Writer, "Key file is wrapped by KMS keeper %s\n", cfg.MasterKeyKMSURI)
	} else {
		_, _ = fmt.Fprintln(io.Writer, "Key file is stored in plaintext with owner-only permissions.")
		_, _ = fmt.Fprintln(io.Writer, "Set MASTER_KEY_KMS_URI to wrap it with a KMS keeper.")
	}

	return nil
}
