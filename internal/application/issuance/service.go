// Package issuance turns a validated batch into signed, stored certificates.
package issuance

import (
	"context"
	"errors"
	"strings"
	"time"

	"certify-backend/internal/application/certstore"
	"certify-backend/internal/domain"
	"certify-backend/internal/infrastructure/metrics"
	"certify-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// DefaultMaxAttempts bounds batch commits when ids keep colliding.
const DefaultMaxAttempts = 5

// Signer is the part of the signing service issuance needs.
type Signer interface {
	GenerateID(at time.Time) (string, error)
	Sign(cert *domain.Certificate) string
}

type Service struct {
	Store       certstore.Store
	Signer      Signer
	Validator   *validation.Validator
	MaxAttempts int
	Metrics     metrics.Reporter
	Now         func() time.Time
}

// Issue validates batch, signs one certificate per participant and commits them
// atomically. The result keeps the participants' input order.
//
// Errors: *ValidationError (nothing written), certstore.ErrStorageUnavailable
// (retryable), *IssuanceFailedError (id collisions on every attempt).
func (s *Service) Issue(ctx context.Context, batch domain.IssuanceBatch) ([]domain.Certificate, error) {
	batch = normalize(batch)
	if verr := s.validate(batch); verr != nil {
		s.reporter().RecordBatch("invalid", 0)
		return nil, verr
	}

	issuedAt := s.now().UTC().Truncate(time.Microsecond)
	used := make(map[string]bool, len(batch.Participants))
	certs := make([]domain.Certificate, len(batch.Participants))
	for i, p := range batch.Participants {
		id, err := s.freshID(issuedAt, used)
		if err != nil {
			return nil, err
		}
		certs[i] = domain.Certificate{
			ID:               id,
			ParticipantName:  p.Name,
			ParticipantEmail: p.Email,
			EventName:        batch.Event.EventName,
			Organization:     batch.Event.Organization,
			Date:             batch.Event.Date,
			Signatory:        batch.Event.Signatory,
			TemplateID:       batch.TemplateID,
			Attributes:       datatypes.NewJSONType(p.Attributes),
			IssuedAt:         issuedAt,
		}
		certs[i].Signature = s.Signer.Sign(&certs[i])
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := s.Store.PutBatch(ctx, certs)
		if err == nil {
			s.reporter().RecordBatch("issued", len(certs))
			log.Info().Str("event", batch.Event.EventName).Str("organization", batch.Event.Organization).
				Int("count", len(certs)).Int("attempt", attempt).Msg("certificates issued")
			return certs, nil
		}

		var dup *certstore.DuplicateIDError
		if !errors.As(err, &dup) {
			s.reporter().RecordBatch("unavailable", 0)
			log.Error().Err(err).Str("event", batch.Event.EventName).Msg("certificate batch commit failed")
			return nil, err
		}
		lastErr = err
		s.reporter().RecordIDCollision()
		log.Warn().Strs("ids", dup.IDs).Int("attempt", attempt).Msg("certificate id collision, regenerating")
		if attempt == attempts {
			break
		}
		if err := s.regenerate(certs, dup.IDs, issuedAt, used); err != nil {
			return nil, err
		}
	}

	s.reporter().RecordBatch("failed", 0)
	log.Error().Err(lastErr).Int("attempts", attempts).Str("event", batch.Event.EventName).Msg("certificate issuance failed")
	return nil, &IssuanceFailedError{Attempts: attempts, Err: lastErr}
}

func (s *Service) validate(batch domain.IssuanceBatch) *ValidationError {
	v := s.Validator
	if v == nil {
		v = validation.New()
	}
	verr := &ValidationError{}

	fieldErrs, err := v.Struct(batch.Event)
	if err != nil {
		verr.Batch = append(verr.Batch, validation.FieldError{Field: "eventData", Message: err.Error()})
	}
	verr.Batch = append(verr.Batch, fieldErrs...)
	if batch.TemplateID == "" {
		verr.Batch = append(verr.Batch, validation.FieldError{Field: "templateId", Message: "templateId is required"})
	}
	if len(batch.Participants) == 0 {
		verr.Batch = append(verr.Batch, validation.FieldError{Field: "participants", Message: "at least one participant is required"})
	}

	for i, p := range batch.Participants {
		rowErrs, err := v.Struct(p)
		if err != nil {
			rowErrs = append(rowErrs, validation.FieldError{Field: "row", Message: err.Error()})
		}
		if len(rowErrs) > 0 {
			verr.Rows = append(verr.Rows, RowError{Row: i + 1, Errors: rowErrs})
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// freshID draws ids until one is not already used by this batch.
func (s *Service) freshID(at time.Time, used map[string]bool) (string, error) {
	for {
		id, err := s.Signer.GenerateID(at)
		if err != nil {
			return "", err
		}
		if !used[id] {
			used[id] = true
			return id, nil
		}
	}
}

// regenerate replaces the ids the store rejected and re-signs those records only.
// An empty list means the store could not say which id clashed, so every record
// gets a new id.
func (s *Service) regenerate(certs []domain.Certificate, clashed []string, at time.Time, used map[string]bool) error {
	bad := make(map[string]bool, len(clashed))
	for _, id := range clashed {
		bad[id] = true
	}
	for i := range certs {
		if len(clashed) > 0 && !bad[certs[i].ID] {
			continue
		}
		id, err := s.freshID(at, used)
		if err != nil {
			return err
		}
		certs[i].ID = id
		certs[i].Signature = s.Signer.Sign(&certs[i])
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) reporter() metrics.Reporter {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

func normalize(b domain.IssuanceBatch) domain.IssuanceBatch {
	out := domain.IssuanceBatch{
		Event: domain.EventDetails{
			EventName:    strings.TrimSpace(b.Event.EventName),
			Organization: strings.TrimSpace(b.Event.Organization),
			Date:         strings.TrimSpace(b.Event.Date),
			Signatory:    strings.TrimSpace(b.Event.Signatory),
		},
		TemplateID:   strings.TrimSpace(b.TemplateID),
		Participants: make([]domain.ParticipantRow, len(b.Participants)),
	}
	for i, p := range b.Participants {
		attrs := make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			if k = strings.TrimSpace(k); k != "" {
				attrs[k] = strings.TrimSpace(v)
			}
		}
		out.Participants[i] = domain.ParticipantRow{
			Name:       strings.TrimSpace(p.Name),
			Email:      strings.TrimSpace(p.Email),
			Attributes: attrs,
		}
	}
	return out
}
