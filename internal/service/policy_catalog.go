package service

import (
	"context"
	"errors"
	"time"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/internal/repository"
	"github.com/damoang/angple-moderation/pkg/cache"
	"github.com/damoang/angple-moderation/pkg/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// PolicyCatalog answers whether moderation is enforced for a content type
type PolicyCatalog interface {
	IsActive(ctx context.Context, contentType domain.ContentType) (bool, error)
}

// CachedPolicyCatalog reads policy flags through an in-process LRU and redis
// before falling back to the database. A content type without a policy row is inactive.
type CachedPolicyCatalog struct {
	repo   *repository.PolicyRepository
	cache  cache.Service
	local  *expirable.LRU[domain.ContentType, bool]
	ttl    time.Duration
	lookup singleflight.Group
}

// NewCachedPolicyCatalog creates a catalog. cacheSvc may be nil.
func NewCachedPolicyCatalog(repo *repository.PolicyRepository, cacheSvc cache.Service, size int, ttl time.Duration) *CachedPolicyCatalog {
	if ttl <= 0 {
		ttl = cache.TTLPolicy
	}
	return &CachedPolicyCatalog{
		repo:  repo,
		cache: cacheSvc,
		local: expirable.NewLRU[domain.ContentType, bool](size, nil, ttl),
		ttl:   ttl,
	}
}

// IsActive reports whether an active policy exists for contentType
func (p *CachedPolicyCatalog) IsActive(ctx context.Context, contentType domain.ContentType) (bool, error) {
	if active, ok := p.local.Get(contentType); ok {
		return active, nil
	}

	// 공유 조회는 먼저 들어온 호출자의 취소와 분리한다
	ch := p.lookup.DoChan(string(contentType), func() (interface{}, error) {
		return p.load(context.WithoutCancel(ctx), contentType)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		active := res.Val.(bool)
		p.local.Add(contentType, active)
		return active, nil
	}
}

func (p *CachedPolicyCatalog) load(ctx context.Context, contentType domain.ContentType) (bool, error) {
	key := cache.PrefixPolicy + string(contentType)

	if p.cache != nil && p.cache.IsAvailable() {
		var active bool
		err := p.cache.Get(ctx, key, &active)
		if err == nil {
			return active, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("정책 캐시 조회 실패, DB에서 조회")
		}
	}

	active := false
	policy, err := p.repo.FindByContentType(ctx, contentType)
	switch {
	case err == nil:
		active = policy.IsActive
	case errors.Is(err, common.ErrNotFound):
	default:
		return false, err
	}

	if p.cache != nil && p.cache.IsAvailable() {
		if err := p.cache.Set(ctx, key, active, p.ttl); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("정책 캐시 저장 실패")
		}
	}
	return active, nil
}

// Invalidate drops the cached flag for contentType in both tiers
func (p *CachedPolicyCatalog) Invalidate(ctx context.Context, contentType domain.ContentType) error {
	p.local.Remove(contentType)
	if p.cache == nil {
		return nil
	}
	return p.cache.Delete(ctx, cache.PrefixPolicy+string(contentType))
}
