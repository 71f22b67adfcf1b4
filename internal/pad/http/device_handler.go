package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authService "github.com/thorsten-l/l9g-accountinfo/internal/auth/service"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	"github.com/thorsten-l/l9g-accountinfo/internal/httputil"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/push"
	"github.com/thorsten-l/l9g-accountinfo/internal/rendezvous"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
	storeUseCase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
	customValidation "github.com/thorsten-l/l9g-accountinfo/internal/validation"
)

// PadUUIDHeader carries the device identity on every device-side request.
// The same token doubles as the WebSocket subprotocol marker.
const PadUUIDHeader = "SIGNATURE_PAD_UUID"

// maxEnvelopeSize bounds capture and validation envelope bodies. Envelopes
// embed base64 PNG and SVG images, so they run to a few megabytes.
const maxEnvelopeSize = 8 << 20

// DeviceHandler handles the device-side HTTP surface and the WebSocket
// push endpoint.
type DeviceHandler struct {
	auth    *authService.AuthService
	pads    padUseCase.PadUseCase
	records storeUseCase.RecordUseCase
	broker  *rendezvous.Broker
	hub     *push.Hub
	logger  *slog.Logger
}

// NewDeviceHandler creates a new device-side handler with required
// dependencies.
func NewDeviceHandler(
	auth *authService.AuthService,
	pads padUseCase.PadUseCase,
	records storeUseCase.RecordUseCase,
	broker *rendezvous.Broker,
	hub *push.Hub,
	logger *slog.Logger,
) *DeviceHandler {
	return &DeviceHandler{
		auth:    auth,
		pads:    pads,
		records: records,
		broker:  broker,
		hub:     hub,
		logger:  logger,
	}
}

// RegisterRoutes mounts the device-side routes.
func (h *DeviceHandler) RegisterRoutes(router *gin.Engine) {
	device := router.Group("/v1/device")
	device.POST("/check", h.CheckHandler)
	device.POST("/validate", h.ValidateHandler)
	device.POST("/signature", h.SignatureHandler)
	device.POST("/cancel", h.CancelHandler)

	router.GET("/ws/signature-pad", h.WebSocketHandler)
}

// CheckHandler runs the privileged pad check. Unknown and unvalidated pads
// both answer 404.
// POST /v1/device/check
func (h *DeviceHandler) CheckHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDHeader(c)
	if !ok {
		return
	}

	if _, err := h.auth.Check(c.Request.Context(), padUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// ValidateHandler completes first-use validation with the self-signed
// envelope in the request body.
// POST /v1/device/validate
func (h *DeviceHandler) ValidateHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDHeader(c)
	if !ok {
		return
	}

	envelope, ok := h.envelopeBody(c)
	if !ok {
		return
	}

	pad, err := h.pads.Validate(c.Request.Context(), padUUID, envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("pad validated",
		slog.String("pad_uuid", pad.UUID),
		slog.String("key_id", pad.KeyID()),
	)

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// SignatureHandler accepts a signed capture envelope, persists it as an
// immutable record, and resolves the waiting desk request.
// POST /v1/device/signature
func (h *DeviceHandler) SignatureHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDHeader(c)
	if !ok {
		return
	}

	envelope, ok := h.envelopeBody(c)
	if !ok {
		return
	}

	claims, pad, err := h.auth.VerifyCaptureFromPad(c.Request.Context(), padUUID, envelope)
	if err != nil {
		// An unverified envelope must not touch the rendezvous slot; the
		// desk client keeps waiting and the pad may retry.
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	description, err := json.Marshal(map[string]string{
		"name": claims.Name,
		"mail": claims.Mail,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	record, err := h.records.CreateString(c.Request.Context(), storeUseCase.CreateRecordInput{
		Key:         pad.UUID,
		Name:        claims.Subject,
		Description: string(description),
		Type:        storeDomain.SignatureEnvelope,
		Immutable:   true,
		Secret:      true,
		CreatedBy:   claims.Publisher,
	}, envelope)
	if err != nil {
		h.broker.Resolve(padUUID, rendezvous.Outcome{Status: rendezvous.StatusError})
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("capture envelope stored",
		slog.String("pad_uuid", pad.UUID),
		slog.String("record_id", record.ID),
		slog.String("issue_type", claims.IssueType),
	)

	h.broker.Resolve(padUUID, rendezvous.Outcome{
		Status: rendezvous.StatusOK,
		Result: &rendezvous.CaptureResult{
			EnvelopeRecordID: record.ID,
			SigPNG:           claims.SignaturePNG,
			Customer:         claims.Customer,
			Name:             claims.Name,
			Mail:             claims.Mail,
			IssueType:        claims.IssueType,
		},
	})

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// CancelHandler resolves the waiting desk request with cancel. No push
// event is sent; the pad already dismissed its own dialog.
// POST /v1/device/cancel
func (h *DeviceHandler) CancelHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDHeader(c)
	if !ok {
		return
	}

	if _, err := h.auth.Check(c.Request.Context(), padUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.broker.Resolve(padUUID, rendezvous.Outcome{Status: rendezvous.StatusCancel})
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// WebSocketHandler upgrades the connection and serves push events until
// the pad disconnects. Admission failures answer before the upgrade.
// GET /ws/signature-pad
func (h *DeviceHandler) WebSocketHandler(c *gin.Context) {
	if err := h.hub.HandleConnection(c.Writer, c.Request); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
	}
}

// padUUIDHeader validates the SIGNATURE_PAD_UUID header. Missing or
// malformed identities answer 401; the device surface never reveals
// anything without one.
func (h *DeviceHandler) padUUIDHeader(c *gin.Context) (string, bool) {
	padUUID := c.GetHeader(PadUUIDHeader)
	if err := customValidation.UUID.Validate(padUUID); err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrUnauthorized, "missing or malformed pad identity"), h.logger)
		return "", false
	}
	return padUUID, true
}

// envelopeBody reads the compact JWT from the request body.
func (h *DeviceHandler) envelopeBody(c *gin.Context) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEnvelopeSize))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return "", false
	}
	if len(body) == 0 {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "empty envelope body"), h.logger)
		return "", false
	}
	return string(body), true
}
