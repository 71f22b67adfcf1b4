package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/thorsten-l/l9g-accountinfo/internal/app"
	"github.com/thorsten-l/l9g-accountinfo/internal/config"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
)

// validatePadPath is the path segment of the connect URL a new pad opens
// to complete first-use validation.
const validatePadPath = "/admin/validate-new-pad"

// RunCreatePad registers a new signature pad and prints its UUID and
// connect URL. With issueKey set, an RSA key pair is generated and the
// private key is printed once; it is never persisted server-side.
//
// Requirements: Database must be migrated and accessible.
func RunCreatePad(ctx context.Context, name string, issueKey bool, format string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	pads, err := container.PadUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize pad use case: %w", err)
	}

	return createPad(ctx, pads, logger, cfg.BaseURL, name, issueKey, format, DefaultIO())
}

// createPad holds the testable core of RunCreatePad.
func createPad(
	ctx context.Context,
	pads padUseCase.PadUseCase,
	logger *slog.Logger,
	baseURL string,
	name string,
	issueKey bool,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new pad", slog.String("name", name))

	pad, err := pads.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create pad: %w", err)
	}

	result := createPadResult{
		UUID:       pad.UUID,
		Name:       pad.Name,
		ConnectURL: fmt.Sprintf("%s%s?uuid=%s", baseURL, validatePadPath, pad.UUID),
	}

	if issueKey {
		keyPair, updated, err := pads.IssueKey(ctx, pad.UUID)
		if err != nil {
			return fmt.Errorf("failed to issue key pair: %w", err)
		}
		result.KeyID = updated.KeyID()
		result.PrivateJWK = string(keyPair.PrivateJWK)
	}

	if format == "json" {
		outputPadJSON(result, io.Writer)
	} else {
		outputPadText(result, io.Writer)
	}

	logger.Info("pad created successfully",
		slog.String("pad_uuid", pad.UUID),
		slog.String("name", name),
		slog.Bool("key_issued", issueKey),
	)

	return nil
}

// createPadResult collects the command output fields.
type createPadResult struct {
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	ConnectURL string `json:"connect_url"`
	KeyID      string `json:"key_id,omitempty"`
	PrivateJWK string `json:"private_jwk,omitempty"`
}

// outputPadText outputs the result in human-readable text format.
func outputPadText(result createPadResult, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPad created successfully!")
	_, _ = fmt.Fprintf(writer, "UUID: %s\n", result.UUID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", result.Name)
	_, _ = fmt.Fprintf(writer, "Connect URL: %s\n", result.ConnectURL)

	if result.PrivateJWK != "" {
		_, _ = fmt.Fprintf(writer, "Key ID: %s\n", result.KeyID)
		_, _ = fmt.Fprintf(writer, "Private JWK:\n%s\n", result.PrivateJWK)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The private key is shown only once. Deliver it to the pad securely.")
	}
}

// outputPadJSON outputs the result in JSON format for machine consumption.
func outputPadJSON(result createPadResult, writer io.Writer) {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
