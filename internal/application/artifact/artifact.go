// Package artifact defines the verification block embedded in rendered certificates.
//
// A block is "CERTIFY1:" followed by base64url (unpadded) JSON of the certificate id
// and every displayed field, signature included. Renderers place it in the PDF
// metadata (Keywords or XMP) where it stays uncompressed, so Extract can find it by
// scanning the raw file.
package artifact

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"certify-backend/internal/domain"
)

const Marker = "CERTIFY1:"

// maxBlockLen caps how far Extract reads past the marker.
const maxBlockLen = 16 << 10

var (
	ErrNoArtifact        = errors.New("no certificate verification block found")
	ErrMalformedArtifact = errors.New("malformed certificate verification block")
)

// Claim is what a document says about itself.
type Claim struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Fields flattens cert into the claim keys the verification engine compares.
func Fields(cert *domain.Certificate) map[string]string {
	f := map[string]string{
		"participantName":  cert.ParticipantName,
		"participantEmail": cert.ParticipantEmail,
		"eventName":        cert.EventName,
		"organization":     cert.Organization,
		"date":             cert.Date,
		"signatory":        cert.Signatory,
		"templateId":       cert.TemplateID,
		"signature":        cert.Signature,
		"issuedAt":         cert.IssuedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range cert.AttributeMap() {
		f["attributes."+k] = v
	}
	return f
}

// Encode renders the block for cert.
func Encode(cert *domain.Certificate) string {
	b, _ := json.Marshal(Claim{ID: cert.ID, Fields: Fields(cert)})
	return Marker + base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a single block, marker included.
func Decode(block string) (*Claim, error) {
	if len(block) < len(Marker) || block[:len(Marker)] != Marker {
		return nil, ErrNoArtifact
	}
	raw, err := base64.RawURLEncoding.DecodeString(block[len(Marker):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	var c Claim
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedArtifact)
	}
	return &c, nil
}

// Extract finds the first block inside an uploaded file and decodes it.
func Extract(data []byte) (*Claim, error) {
	i := bytes.Index(data, []byte(Marker))
	if i < 0 {
		return nil, ErrNoArtifact
	}
	start := i + len(Marker)
	end := start
	for end < len(data) && end-start < maxBlockLen && isBase64URL(data[end]) {
		end++
	}
	return Decode(string(data[i:end]))
}

func isBase64URL(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}
