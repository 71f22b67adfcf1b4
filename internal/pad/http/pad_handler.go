// Package http provides the HTTP handlers of the pad subsystem: the desk
// surface under /v1/pads, the device surface under /v1/device, and the
// WebSocket push endpoint.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thorsten-l/l9g-accountinfo/internal/httputil"
	"github.com/thorsten-l/l9g-accountinfo/internal/pad/http/dto"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/push"
	"github.com/thorsten-l/l9g-accountinfo/internal/rendezvous"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
	storeUseCase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/session"
	customValidation "github.com/thorsten-l/l9g-accountinfo/internal/validation"
)

// validatePadPath is the path on the admin UI that completes pad
// validation; the connect URL points a new pad at it.
const validatePadPath = "/admin/validate-new-pad"

// maxUploadSize bounds identity document uploads.
const maxUploadSize = 10 << 20

// SessionHeader carries the desk caller's provider session id. When
// present, the session is bound to the pad so a backchannel logout can
// tear the pad side down.
const SessionHeader = "X-Session-Id"

// PadHandler handles the desk-side HTTP surface: pad lifecycle, capture
// waits, push triggers, and identity document storage.
type PadHandler struct {
	pads     padUseCase.PadUseCase
	records  storeUseCase.RecordUseCase
	broker   *rendezvous.Broker
	hub      *push.Hub
	sessions *session.Store
	baseURL  string
	logger   *slog.Logger
}

// NewPadHandler creates a new desk-side handler with required dependencies.
func NewPadHandler(
	pads padUseCase.PadUseCase,
	records storeUseCase.RecordUseCase,
	broker *rendezvous.Broker,
	hub *push.Hub,
	sessions *session.Store,
	baseURL string,
	logger *slog.Logger,
) *PadHandler {
	return &PadHandler{
		pads:     pads,
		records:  records,
		broker:   broker,
		hub:      hub,
		sessions: sessions,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// RegisterRoutes mounts the desk-side routes.
func (h *PadHandler) RegisterRoutes(router *gin.Engine) {
	pads := router.Group("/v1/pads")
	pads.POST("", h.CreateHandler)
	pads.GET("/:uuid", h.GetHandler)
	pads.DELETE("/:uuid", h.DeleteHandler)
	pads.POST("/:uuid/keys", h.IssueKeyHandler)
	pads.GET("/:uuid/connect-url", h.ConnectURLHandler)
	pads.GET("/:uuid/wait", h.WaitHandler)
	pads.GET("/:uuid/show", h.ShowHandler)
	pads.GET("/:uuid/hide", h.HideHandler)
	pads.GET("/:uuid/clear", h.ClearHandler)
	pads.GET("/:uuid/records", h.ListRecordsHandler)
	pads.POST("/:uuid/files", h.UploadFileHandler)

	router.GET("/v1/files/:id", h.FileHandler)
}

// CreateHandler registers a new pad.
// POST /v1/pads
func (h *PadHandler) CreateHandler(c *gin.Context) {
	var req dto.CreatePadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pad, err := h.pads.Create(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPadToResponse(pad))
}

// GetHandler returns pad information.
// GET /v1/pads/:uuid
func (h *PadHandler) GetHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	pad, err := h.pads.Get(c.Request.Context(), padUUID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPadToResponse(pad))
}

// DeleteHandler removes a pad and every record stored under its UUID.
// DELETE /v1/pads/:uuid
func (h *PadHandler) DeleteHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	if err := h.pads.Delete(c.Request.Context(), padUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// IssueKeyHandler generates a key pair for a not-yet-validated pad. The
// private key appears in this response and nowhere else.
// POST /v1/pads/:uuid/keys
func (h *PadHandler) IssueKeyHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	keyPair, pad, err := h.pads.IssueKey(c.Request.Context(), padUUID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapKeyPairToResponse(pad, keyPair))
}

// ConnectURLHandler returns the one-time validation URL for a new pad. The
// caller renders it as a QR code or types it into the device.
// GET /v1/pads/:uuid/connect-url
func (h *PadHandler) ConnectURLHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	if _, err := h.pads.Get(c.Request.Context(), padUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ConnectURLResponse{
		URL: fmt.Sprintf("%s%s?uuid=%s", h.baseURL, validatePadPath, padUUID),
	})
}

// WaitHandler long-polls for the next capture outcome of a pad. The
// response is always 200; timeout, cancel, and supersede are statuses, not
// errors.
// GET /v1/pads/:uuid/wait
func (h *PadHandler) WaitHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	if _, err := h.pads.Get(c.Request.Context(), padUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.bindSession(c, padUUID)

	outcome := h.broker.Wait(c.Request.Context(), padUUID)
	c.JSON(http.StatusOK, dto.MapOutcomeToWaitResponse(outcome))
}

// ShowHandler pushes a show event to the pad.
// GET /v1/pads/:uuid/show?message=
func (h *PadHandler) ShowHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	h.bindSession(c, padUUID)

	if err := h.hub.FireEventToPad(padUUID, push.NewEvent(push.EventShow, c.Query("message"))); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// HideHandler pushes a hide event to the pad.
// GET /v1/pads/:uuid/hide
func (h *PadHandler) HideHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	if err := h.hub.FireEventToPad(padUUID, push.NewEvent(push.EventHide, "")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// ClearHandler pushes a clear event so the pad wipes its current input.
// GET /v1/pads/:uuid/clear
func (h *PadHandler) ClearHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	if err := h.hub.FireEventToPad(padUUID, push.NewEvent(push.EventClear, "")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// ListRecordsHandler lists record metadata stored under a pad UUID.
// GET /v1/pads/:uuid/records
func (h *PadHandler) ListRecordsHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	records, err := h.records.ListByKey(c.Request.Context(), padUUID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToResponse(records))
}

// UploadFileHandler stores a scanned identity document side as an
// immutable encrypted blob under the pad UUID.
// POST /v1/pads/:uuid/files
func (h *PadHandler) UploadFileHandler(c *gin.Context) {
	padUUID, ok := h.padUUIDParam(c)
	if !ok {
		return
	}

	var req dto.UploadFileRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if fileHeader.Size > maxUploadSize {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("file exceeds %d bytes", maxUploadSize), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	recordType := storeDomain.FrontImage
	if req.Side == "back" {
		recordType = storeDomain.BackImage
	}

	description, err := json.Marshal(map[string]string{"name": req.Name, "mail": req.Mail})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	record, err := h.records.CreateBinary(c.Request.Context(), storeUseCase.CreateRecordInput{
		Key:         padUUID,
		Name:        fileHeader.Filename,
		Description: string(description),
		Type:        recordType,
		Immutable:   true,
		Secret:      true,
		CreatedBy:   c.GetHeader(SessionHeader),
	}, payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// FileHandler serves the decrypted payload of a binary record.
// GET /v1/files/:id
func (h *PadHandler) FileHandler(c *gin.Context) {
	id := c.Param("id")

	record, err := h.records.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !record.Type.Binary() {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("record %s is not a binary record", id), h.logger)
		return
	}

	payload, err := h.records.LoadBinary(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(payload), payload)
}

// padUUIDParam validates the :uuid path parameter. Writes the error
// response and returns false when the parameter is not a UUID.
func (h *PadHandler) padUUIDParam(c *gin.Context) (string, bool) {
	padUUID := c.Param("uuid")
	if err := customValidation.UUID.Validate(padUUID); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return padUUID, true
}

// bindSession associates the caller's provider session with the pad when a
// session header is present.
func (h *PadHandler) bindSession(c *gin.Context, padUUID string) {
	if h.sessions == nil {
		return
	}
	if sid := c.GetHeader(SessionHeader); sid != "" {
		h.sessions.Associate(sid, padUUID)
	}
}
