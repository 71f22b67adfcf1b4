// Package domain defines the JWT envelope claims exchanged with signature
// pads and the errors of the device trust layer.
package domain

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// BootstrapClaims is the payload of the self-signed validation envelope a
// pad presents on first use. The embedded public key is the one the
// envelope itself is verified against (trust on first use); after
// successful validation it becomes the pad's pinned key.
type BootstrapClaims struct {
	jwt.RegisteredClaims

	// PublicJWK is the pad's public key in JWK form.
	PublicJWK json.RawMessage `json:"publicJwk"`
	// ClientEnvironment is the device self-description (hostname, OS,
	// application version).
	ClientEnvironment map[string]string `json:"clientEnvironment,omitempty"`
}

// CaptureClaims is the payload of the signed envelope a pad delivers after
// a completed signature capture. It is verified against the pad's pinned
// public key, never against an embedded one.
type CaptureClaims struct {
	jwt.RegisteredClaims

	// SignaturePNG is the base64-encoded rendered signature image.
	SignaturePNG string `json:"sigpng"`
	// SignatureSVG is the base64-encoded vector signature image.
	SignatureSVG string `json:"sigsvg"`
	// Customer is the customer identifier the signature belongs to.
	Customer string `json:"customer,omitempty"`
	// Name is the signer's display name.
	Name string `json:"name,omitempty"`
	// Mail is the signer's mail address.
	Mail string `json:"mail,omitempty"`
	// IssueType describes the business context of the capture.
	IssueType string `json:"issuetype,omitempty"`
	// SigPad names the capturing device model.
	SigPad string `json:"sigpad,omitempty"`
	// Publisher identifies the pad application that produced the envelope.
	Publisher string `json:"publisher,omitempty"`
}
