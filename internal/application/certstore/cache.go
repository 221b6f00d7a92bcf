package certstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"certify-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKeyPrefix = "certificate:"

// CachedStore adds a Redis read-through cache in front of another Store.
// Certificates never change after commit, so entries are only ever added.
// Redis failures fall back to the wrapped store.
type CachedStore struct {
	Store Store
	Rdb   *redis.Client
	TTL   time.Duration
}

func (s *CachedStore) Put(ctx context.Context, cert *domain.Certificate) error {
	if err := s.Store.Put(ctx, cert); err != nil {
		return err
	}
	s.remember(ctx, cert)
	return nil
}

// PutBatch warms the cache only after the batch has committed.
func (s *CachedStore) PutBatch(ctx context.Context, certs []domain.Certificate) error {
	if err := s.Store.PutBatch(ctx, certs); err != nil {
		return err
	}
	for i := range certs {
		s.remember(ctx, &certs[i])
	}
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	b, err := s.Rdb.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err == nil {
		var cert domain.Certificate
		if jsonErr := json.Unmarshal(b, &cert); jsonErr == nil {
			return &cert, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("certificate_id", id).Msg("certificate cache read failed")
	}

	cert, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, cert)
	return cert, nil
}

func (s *CachedStore) remember(ctx context.Context, cert *domain.Certificate) {
	b, err := json.Marshal(cert)
	if err != nil {
		return
	}
	if err := s.Rdb.Set(ctx, cacheKeyPrefix+cert.ID, b, s.TTL).Err(); err != nil {
		log.Warn().Err(err).Str("certificate_id", cert.ID).Msg("certificate cache write failed")
	}
}
