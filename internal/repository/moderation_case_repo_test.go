package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ModerationCase{},
		&domain.ModerationCaseHistory{},
		&domain.Report{},
		&domain.Message{},
		&domain.Photo{},
		&domain.LiveStream{},
	))
	return db
}

func newCase(contentID string) *domain.ModerationCase {
	return &domain.ModerationCase{
		ContentID:     contentID,
		ContentType:   domain.ContentTypeMessage,
		SubjectUserID: "u2",
		ModeratorID:   "m1",
		Status:        domain.CaseStatusRejected,
		ActionTaken:   domain.ActionWarn,
	}
}

func TestModerationCaseRepository_CreateAndFind(t *testing.T) {
	repo := NewModerationCaseRepository(setupTestDB(t))
	ctx := context.Background()

	c := newCase("msg-1")
	require.NoError(t, repo.Create(ctx, c))
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 1, c.Version)

	byID, err := repo.FindByID(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", byID.ContentID)

	byKey, err := repo.FindByNaturalKey(ctx, c.NaturalKey(), false)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byKey.ID)

	_, err = repo.FindByID(ctx, "missing", false)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestModerationCaseRepository_DuplicateNaturalKey(t *testing.T) {
	repo := NewModerationCaseRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newCase("msg-1")))
	err := repo.Create(ctx, newCase("msg-1"))
	assert.ErrorIs(t, err, common.ErrConflictRetryable)

	// same content id under another content type is a different case
	other := newCase("msg-1")
	other.ContentType = domain.ContentTypePhoto
	assert.NoError(t, repo.Create(ctx, other))
}

func TestModerationCaseRepository_UpdateWithVersion(t *testing.T) {
	repo := NewModerationCaseRepository(setupTestDB(t))
	ctx := context.Background()

	c := newCase("msg-1")
	require.NoError(t, repo.Create(ctx, c))

	c.Status = domain.CaseStatusApproved
	c.ActionTaken = domain.ActionNone
	require.NoError(t, repo.UpdateWithVersion(ctx, c, 1))
	assert.Equal(t, 2, c.Version)

	stale := *c
	stale.Reason = "late writer"
	err := repo.UpdateWithVersion(ctx, &stale, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.ErrorIs(t, err, common.ErrConflictRetryable)

	stored, err := repo.FindByID(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusApproved, stored.Status)
	assert.Empty(t, stored.Reason)
	assert.Equal(t, 2, stored.Version)
}

func TestReportRepository_UpdateModeration(t *testing.T) {
	repo := NewReportRepository(setupTestDB(t))
	ctx := context.Background()

	r := &domain.Report{ReporterID: "u1", ReportedUserID: "u2"}
	require.NoError(t, repo.Create(ctx, r))
	assert.Equal(t, domain.ReportStatusPending, r.Status)

	err := repo.UpdateModeration(ctx, 999, domain.ReportStatusResolved, "", "m1", fixedTime)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.UpdateModeration(ctx, r.ID, domain.ReportStatusResolved, "ok", "m1", fixedTime))
	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, got.Status)
	assert.Equal(t, "ok", got.ModerationComment)
	assert.Equal(t, "m1", got.ModeratorID)
}

func TestHistoryRepository_ListByCaseInOrder(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))
	ctx := context.Background()

	for _, s := range []domain.CaseStatus{domain.CaseStatusRejected, domain.CaseStatusApproved, domain.CaseStatusRejected} {
		require.NoError(t, repo.Record(ctx, &domain.ModerationCaseHistory{CaseID: "c1", NewStatus: s, ModeratorID: "m1", CreatedAt: fixedTime}))
	}
	require.NoError(t, repo.Record(ctx, &domain.ModerationCaseHistory{CaseID: "c2", NewStatus: domain.CaseStatusApproved, CreatedAt: fixedTime}))

	items, err := repo.ListByCase(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, domain.CaseStatusApproved, items[1].NewStatus)
}

func TestHistoryRepository_HasStatus(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, &domain.ModerationCaseHistory{CaseID: "c1", NewStatus: domain.CaseStatusRejected, CreatedAt: fixedTime}))
	require.NoError(t, repo.Record(ctx, &domain.ModerationCaseHistory{CaseID: "c1", NewStatus: domain.CaseStatusApproved, CreatedAt: fixedTime}))

	ok, err := repo.HasStatus(ctx, "c1", domain.CaseStatusRejected)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasStatus(ctx, "c2", domain.CaseStatusRejected)
	require.NoError(t, err)
	assert.False(t, ok)
}
