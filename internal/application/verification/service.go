// Package verification answers "is this certificate genuine?" without trusting
// anything the client sends beyond the id and the claimed field values.
package verification

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"certify-backend/internal/application/certstore"
	"certify-backend/internal/domain"
	"certify-backend/internal/infrastructure/metrics"

	"github.com/rs/zerolog/log"
)

// Reason explains a negative result. The values double as user-facing messages.
type Reason string

const (
	ReasonNotFound        Reason = "Certificate not found"
	ReasonTampered        Reason = "Certificate signature mismatch"
	ReasonContentMismatch Reason = "Certificate content does not match the issued record"
	ReasonUnavailable     Reason = "Verification temporarily unavailable"
)

const attributePrefix = "attributes."

// Result is always returned, never an error: a negative outcome is business data.
type Result struct {
	Valid       bool                `json:"valid"`
	Reason      Reason              `json:"reason,omitempty"`
	Certificate *domain.Certificate `json:"certificate,omitempty"`
	Mismatched  []string            `json:"mismatchedFields,omitempty"`
}

// Getter is the read side of the certificate store.
type Getter interface {
	Get(ctx context.Context, id string) (*domain.Certificate, error)
}

// Verifier recomputes a certificate's signature.
type Verifier interface {
	Verify(cert *domain.Certificate) bool
}

type Service struct {
	Store   Getter
	Signer  Verifier
	Metrics metrics.Reporter
}

// VerifyByID looks the id up and checks the stored signature.
func (s *Service) VerifyByID(ctx context.Context, id string) Result {
	res := s.lookup(ctx, id)
	s.record("id", res)
	return res
}

// VerifyByArtifact is VerifyByID plus a field-by-field comparison of what the
// uploaded document claims. Any difference, or a claim about a field the record does
// not have, fails with ReasonContentMismatch even when the signature is intact.
// Claim keys are the record's JSON names; extra columns use "attributes.<key>".
func (s *Service) VerifyByArtifact(ctx context.Context, id string, claimed map[string]string) Result {
	res := s.lookup(ctx, id)
	if res.Valid {
		if diff := mismatches(res.Certificate, claimed); len(diff) > 0 {
			log.Warn().Str("certificate_id", res.Certificate.ID).Strs("fields", diff).Msg("artifact content differs from issued certificate")
			res = Result{Reason: ReasonContentMismatch, Mismatched: diff}
		}
	}
	s.record("artifact", res)
	return res
}

func (s *Service) lookup(ctx context.Context, id string) Result {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{Reason: ReasonNotFound}
	}
	cert, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, certstore.ErrNotFound) {
			return Result{Reason: ReasonNotFound}
		}
		log.Error().Err(err).Str("certificate_id", id).Msg("certificate lookup failed")
		return Result{Reason: ReasonUnavailable}
	}
	if !s.Signer.Verify(cert) {
		log.Error().Str("certificate_id", id).Str("alarm", "integrity").
			Msg("stored certificate fails signature check: secret changed or storage corrupted")
		return Result{Reason: ReasonTampered}
	}
	return Result{Valid: true, Certificate: cert}
}

func (s *Service) record(method string, res Result) {
	r := s.Metrics
	if r == nil {
		r = metrics.Nop{}
	}
	result := "valid"
	switch res.Reason {
	case ReasonNotFound:
		result = "not_found"
	case ReasonTampered:
		result = "tampered"
	case ReasonContentMismatch:
		result = "content_mismatch"
	case ReasonUnavailable:
		result = "unavailable"
	}
	r.RecordVerification(method, result)
}

// mismatches returns the sorted claim keys whose values differ from cert.
func mismatches(cert *domain.Certificate, claimed map[string]string) []string {
	fields := map[string]string{
		"id":               cert.ID,
		"participantName":  cert.ParticipantName,
		"participantEmail": cert.ParticipantEmail,
		"eventName":        cert.EventName,
		"organization":     cert.Organization,
		"date":             cert.Date,
		"signatory":        cert.Signatory,
		"templateId":       cert.TemplateID,
		"signature":        cert.Signature,
	}
	attrs := cert.AttributeMap()

	var diff []string
	for key, value := range claimed {
		value = strings.TrimSpace(value)
		switch {
		case key == "issuedAt":
			at, err := time.Parse(time.RFC3339Nano, value)
			if err != nil || !at.Equal(cert.IssuedAt) {
				diff = append(diff, key)
			}
		case strings.HasPrefix(key, attributePrefix):
			stored, ok := attrs[strings.TrimPrefix(key, attributePrefix)]
			if !ok || stored != value {
				diff = append(diff, key)
			}
		default:
			stored, ok := fields[key]
			if !ok || stored != value {
				diff = append(diff, key)
			}
		}
	}
	sort.Strings(diff)
	return diff
}
