package dto

import (
	"encoding/json"
	"time"

	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
	"github.com/thorsten-l/l9g-accountinfo/internal/rendezvous"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// PadResponse represents a pad in API responses. The pinned public key is
// included; there is nothing secret about it.
type PadResponse struct {
	UUID              string            `json:"uuid"`
	Name              string            `json:"name"`
	Validated         bool              `json:"validated"`
	KeyVersion        int               `json:"keyVersion"`
	PublicJWK         json.RawMessage   `json:"publicJwk,omitempty"`
	ClientEnvironment map[string]string `json:"clientEnvironment,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	ModifiedAt        time.Time         `json:"modifiedAt"`
}

// MapPadToResponse converts a domain pad to an API response.
func MapPadToResponse(pad *padDomain.Pad) PadResponse {
	return PadResponse{
		UUID:              pad.UUID,
		Name:              pad.Name,
		Validated:         pad.Validated,
		KeyVersion:        pad.KeyVersion,
		PublicJWK:         pad.PublicJWK,
		ClientEnvironment: pad.ClientEnvironment,
		CreatedAt:         pad.CreatedAt,
		ModifiedAt:        pad.ModifiedAt,
	}
}

// IssueKeyResponse carries a freshly issued key pair. The private key
// appears in exactly one response and is never persisted server-side.
type IssueKeyResponse struct {
	UUID       string          `json:"uuid"`
	KeyID      string          `json:"keyId"`
	PrivateJWK json.RawMessage `json:"privateJwk"`
	PublicJWK  json.RawMessage `json:"publicJwk"`
}

// MapKeyPairToResponse converts an issued key pair to an API response.
func MapKeyPairToResponse(pad *padDomain.Pad, keyPair *padService.KeyPair) IssueKeyResponse {
	return IssueKeyResponse{
		UUID:       pad.UUID,
		KeyID:      pad.KeyID(),
		PrivateJWK: keyPair.PrivateJWK,
		PublicJWK:  keyPair.PublicJWK,
	}
}

// ConnectURLResponse carries the one-time validation URL conveyed to a new
// pad out-of-band.
type ConnectURLResponse struct {
	URL string `json:"url"`
}

// WaitResponse is the long-poll result delivered to the desk caller.
type WaitResponse struct {
	Status           string `json:"status"`
	EnvelopeRecordID string `json:"envelopeRecordId,omitempty"`
	SigPNG           string `json:"sigpng,omitempty"`
	Customer         string `json:"customer,omitempty"`
	Name             string `json:"name,omitempty"`
	Mail             string `json:"mail,omitempty"`
	IssueType        string `json:"issuetype,omitempty"`
}

// MapOutcomeToWaitResponse converts a rendezvous outcome to an API response.
func MapOutcomeToWaitResponse(outcome rendezvous.Outcome) WaitResponse {
	response := WaitResponse{Status: string(outcome.Status)}
	if outcome.Result != nil {
		response.EnvelopeRecordID = outcome.Result.EnvelopeRecordID
		response.SigPNG = outcome.Result.SigPNG
		response.Customer = outcome.Result.Customer
		response.Name = outcome.Result.Name
		response.Mail = outcome.Result.Mail
		response.IssueType = outcome.Result.IssueType
	}
	return response
}

// RecordResponse represents stored record metadata in API responses.
// Values never appear here; binary payloads are served by the file endpoint.
type RecordResponse struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Immutable   bool      `json:"immutable"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// MapRecordToResponse converts record metadata to an API response.
func MapRecordToResponse(record *storeDomain.SecretRecord) RecordResponse {
	return RecordResponse{
		ID:          record.ID,
		Key:         record.Key,
		Name:        record.Name,
		Description: record.Description,
		Type:        string(record.Type),
		Immutable:   record.Immutable,
		Size:        record.Size,
		Checksum:    record.Checksum,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
		ModifiedAt:  record.ModifiedAt,
	}
}

// MapRecordsToResponse converts a record listing to an API response.
func MapRecordsToResponse(records []*storeDomain.SecretRecord) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, MapRecordToResponse(record))
	}
	return responses
}
