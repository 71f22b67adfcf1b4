package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/thorsten-l/l9g-accountinfo/internal/app"
	"github.com/thorsten-l/l9g-accountinfo/internal/config"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
)

// RunDeletePad deletes a signature pad and every record stored under its
// UUID, including signature envelopes and uploaded document scans.
//
// Requirements: Database must be migrated and accessible.
func RunDeletePad(ctx context.Context, padUUID string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	pads, err := container.PadUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize pad use case: %w", err)
	}

	return deletePad(ctx, pads, logger, padUUID, DefaultIO())
}

// deletePad holds the testable core of RunDeletePad.
func deletePad(
	ctx context.Context,
	pads padUseCase.PadUseCase,
	logger *slog.Logger,
	padUUID string,
	io IOTuple,
) error {
	logger.Info("deleting pad", slog.String("pad_uuid", padUUID))

	if err := pads.Delete(ctx, padUUID); err != nil {
		return fmt.Errorf("failed to delete pad: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Pad %s deleted.\n", padUUID)

	logger.Info("pad deleted successfully", slog.String("pad_uuid", padUUID))
	return nil
}
