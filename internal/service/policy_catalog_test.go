package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/internal/repository"
	"github.com/damoang/angple-moderation/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCache(t *testing.T) (cache.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewService(client), mr
}

func TestCachedPolicyCatalog_ReadsThroughTiers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := repository.NewPolicyRepository(db)
	cacheSvc, mr := newTestCache(t)

	catalog := NewCachedPolicyCatalog(repo, cacheSvc, 8, time.Minute)
	active, err := catalog.IsActive(ctx, domain.ContentTypePhoto)
	require.NoError(t, err)
	assert.True(t, active)
	assert.True(t, mr.Exists(cache.PrefixPolicy+"photo"))

	// DB change is hidden by the cache until invalidated
	require.NoError(t, repo.Save(ctx, &domain.Policy{ContentType: domain.ContentTypePhoto, IsActive: false}))
	active, err = catalog.IsActive(ctx, domain.ContentTypePhoto)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, catalog.Invalidate(ctx, domain.ContentTypePhoto))
	active, err = catalog.IsActive(ctx, domain.ContentTypePhoto)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCachedPolicyCatalog_SharedRedisTier(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cacheSvc, _ := newTestCache(t)
	require.NoError(t, cacheSvc.Set(ctx, cache.PrefixPolicy+"message", false, time.Minute))

	catalog := NewCachedPolicyCatalog(repository.NewPolicyRepository(db), cacheSvc, 8, time.Minute)
	active, err := catalog.IsActive(ctx, domain.ContentTypeMessage)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCachedPolicyCatalog_MissingPolicyIsInactive(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Where("content_type = ?", "livestream").Delete(&domain.Policy{}).Error)

	catalog := NewCachedPolicyCatalog(repository.NewPolicyRepository(db), nil, 8, time.Minute)
	active, err := catalog.IsActive(context.Background(), domain.ContentTypeLiveStream)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCachedPolicyCatalog_RedisDownFallsBackToDB(t *testing.T) {
	db := setupTestDB(t)
	cacheSvc, mr := newTestCache(t)
	mr.Close()

	catalog := NewCachedPolicyCatalog(repository.NewPolicyRepository(db), cacheSvc, 8, time.Minute)
	active, err := catalog.IsActive(context.Background(), domain.ContentTypeProfile)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCachedPolicyCatalog_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	db := setupTestDB(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:block_policies", func(tx *gorm.DB) {
		if tx.Statement.Table != "moderation_policies" {
			return
		}
		once.Do(func() { close(entered) })
		<-release
	}))

	catalog := NewCachedPolicyCatalog(repository.NewPolicyRepository(db), nil, 8, time.Minute)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := catalog.IsActive(firstCtx, domain.ContentTypeMessage)
		firstErr <- err
	}()
	<-entered

	type result struct {
		active bool
		err    error
	}
	second := make(chan result, 1)
	go func() {
		active, err := catalog.IsActive(context.Background(), domain.ContentTypeMessage)
		second <- result{active, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	r := <-second
	require.NoError(t, r.err)
	assert.True(t, r.active)
}
