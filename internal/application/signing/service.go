// Package signing derives certificate identifiers and the keyed signature that makes
// a certificate record tamper-evident.
package signing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"time"

	"certify-backend/internal/domain"
)

// MinSecretLength is the shortest accepted HMAC key, in bytes.
const MinSecretLength = 32

const (
	idPrefix     = "CERT"
	idSuffixLen  = 8
	idAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	canonicalTag = "certify.certificate.v1\n"
)

// Service holds the server secret. The secret is read once at startup and never
// leaves this struct.
type Service struct {
	secret []byte
}

// NewService copies the secret so later mutation of the caller's slice has no effect.
func NewService(secret []byte) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Service{secret: key}, nil
}

// GenerateID returns CERT-<year>-<suffix>, the suffix drawn from crypto/rand.
// Uniqueness against the store is enforced by the caller.
func (s *Service) GenerateID(at time.Time) (string, error) {
	alphabetLen := big.NewInt(int64(len(idAlphabet)))
	suffix := make([]byte, idSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
		}
		suffix[i] = idAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%04d-%s", idPrefix, at.UTC().Year(), suffix), nil
}

// Sign computes the hex HMAC-SHA256 of every field of cert except Signature.
func (s *Service) Sign(cert *domain.Certificate) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(Canonical(cert))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature and compares it in constant time.
func (s *Service) Verify(cert *domain.Certificate) bool {
	if cert == nil || cert.Signature == "" {
		return false
	}
	expected := s.Sign(cert)
	return hmac.Equal([]byte(expected), []byte(cert.Signature))
}

type canonicalRecord struct {
	ID               string      `json:"id"`
	ParticipantName  string      `json:"participantName"`
	ParticipantEmail string      `json:"participantEmail"`
	EventName        string      `json:"eventName"`
	Organization     string      `json:"organization"`
	Date             string      `json:"date"`
	Signatory        string      `json:"signatory"`
	TemplateID       string      `json:"templateId"`
	Attributes       [][2]string `json:"attributes"`
	IssuedAt         string      `json:"issuedAt"`
}

// Canonical is the byte string the signature covers: a version tag followed by the
// JSON encoding of a fixed-order struct. Attributes are sorted by key and an empty
// map serializes the same as a nil one.
func Canonical(cert *domain.Certificate) []byte {
	attrs := cert.AttributeMap()
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, attrs[k]})
	}

	b, _ := json.Marshal(canonicalRecord{
		ID:               cert.ID,
		ParticipantName:  cert.ParticipantName,
		ParticipantEmail: cert.ParticipantEmail,
		EventName:        cert.EventName,
		Organization:     cert.Organization,
		Date:             cert.Date,
		Signatory:        cert.Signatory,
		TemplateID:       cert.TemplateID,
		Attributes:       pairs,
		IssuedAt:         cert.IssuedAt.UTC().Format(time.RFC3339Nano),
	})
	return append([]byte(canonicalTag), b...)
}
