// Package domain defines the signature pad model. A pad is a physical
// capture device identified by a UUID; its trust anchor is an RSA public
// key in JWK form, pinned on first use.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Pad represents a registered signature pad device.
type Pad struct {
	// UUID identifies the pad everywhere: REST paths, WebSocket admission,
	// record keys, and JWT issuer claims.
	UUID string `json:"uuid"`
	// Name is the operator-assigned label, e.g. "reception desk 1".
	Name string `json:"name"`
	// Validated is set exactly once, when the pad completes first-use
	// validation. Only validated pads pass privileged checks.
	Validated bool `json:"validated"`
	// KeyVersion counts issued key pairs. Incremented on every key
	// issuance so old key IDs can never be confused with current ones.
	KeyVersion int `json:"keyVersion"`
	// PublicJWK is the pad's pinned RSA public key in JWK form. Empty
	// until a key is issued or the pad validates itself.
	PublicJWK json.RawMessage `json:"publicJwk,omitempty"`
	// ClientEnvironment carries the device self-description reported
	// during validation (hostname, OS, app version).
	ClientEnvironment map[string]string `json:"clientEnvironment,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// KeyID returns the identifier for the pad's current key pair.
func (p *Pad) KeyID() string {
	return fmt.Sprintf("%s-%d", p.UUID, p.KeyVersion)
}

// HasKey reports whether the pad has a pinned public key.
func (p *Pad) HasKey() bool {
	return len(p.PublicJWK) > 0
}
