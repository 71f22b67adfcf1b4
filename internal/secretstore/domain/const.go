package domain

// RecordType classifies the payload of a SecretRecord.
type RecordType string

const (
	// PadConfig is the JSON document describing a registered signature pad.
	PadConfig RecordType = "pad-config"
	// SignatureEnvelope is the compact JWT envelope delivered by a pad
	// after a completed capture.
	SignatureEnvelope RecordType = "signature-envelope"
	// FrontImage is the scanned front side of an identity document,
	// stored as a blob.
	FrontImage RecordType = "front-image"
	// BackImage is the scanned back side of an identity document,
	// stored as a blob.
	BackImage RecordType = "back-image"
)

// Binary reports whether payloads of this type live in the blob store
// instead of the inline value column.
func (t RecordType) Binary() bool {
	switch t {
	case FrontImage, BackImage:
		return true
	default:
		return false
	}
}

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	switch t {
	case PadConfig, SignatureEnvelope, FrontImage, BackImage:
		return true
	default:
		return false
	}
}
