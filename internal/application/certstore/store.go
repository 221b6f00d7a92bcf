// Package certstore persists issued certificates. Records are insert-only.
package certstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"certify-backend/internal/domain"

	"gorm.io/gorm"
)

// DefaultTimeout bounds a single store call when the caller sets none.
const DefaultTimeout = 5 * time.Second

// Store is the durable owner of every issued certificate.
type Store interface {
	Put(ctx context.Context, cert *domain.Certificate) error
	PutBatch(ctx context.Context, certs []domain.Certificate) error
	Get(ctx context.Context, id string) (*domain.Certificate, error)
}

// GormStore keeps certificates in the Certificates table.
type GormStore struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func (s *GormStore) Put(ctx context.Context, cert *domain.Certificate) error {
	return s.PutBatch(ctx, []domain.Certificate{*cert})
}

// PutBatch inserts all certs in one transaction. Readers see either every record
// or none of them.
func (s *GormStore) PutBatch(ctx context.Context, certs []domain.Certificate) error {
	if len(certs) == 0 {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, len(certs))
		for i := range certs {
			ids[i] = certs[i].ID
		}
		var existing []string
		if err := tx.Model(&domain.Certificate{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if dups := collisions(ids, existing); len(dups) > 0 {
			return &DuplicateIDError{IDs: dups}
		}
		for i := range certs {
			if err := tx.Create(&certs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify(err)
}

func (s *GormStore) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var cert domain.Certificate
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return &cert, nil
}

// CountCertificates returns the number of stored certificates.
func (s *GormStore) CountCertificates(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Certificate{}).Count(&n).Error; err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// ListQuery filters List. A zero Limit means DefaultListLimit; Email matches
// case-insensitively.
type ListQuery struct {
	EventName string
	Email     string
	Limit     int
	Offset    int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// List returns certificates newest first, plus the total matching q before paging.
func (s *GormStore) List(ctx context.Context, q ListQuery) ([]domain.Certificate, int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	filter := func(db *gorm.DB) *gorm.DB {
		if q.EventName != "" {
			db = db.Where("event_name = ?", q.EventName)
		}
		if q.Email != "" {
			db = db.Where("LOWER(participant_email) = ?", strings.ToLower(q.Email))
		}
		return db
	}
	var total int64
	if err := s.DB.WithContext(ctx).Model(&domain.Certificate{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}
	var certs []domain.Certificate
	err := s.DB.WithContext(ctx).Scopes(filter).
		Order("issued_at DESC").Order("id ASC").Limit(limit).Offset(q.Offset).
		Find(&certs).Error
	if err != nil {
		return nil, 0, classify(err)
	}
	return certs, total, nil
}

func (s *GormStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// collisions returns ids that are already stored or repeated within the batch.
func collisions(ids, existing []string) []string {
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}
	var dups []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if taken[id] || seen[id] {
			dups = append(dups, id)
		}
		seen[id] = true
	}
	return dups
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var dup *DuplicateIDError
	if errors.As(err, &dup) {
		return dup
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateIDError{}
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
