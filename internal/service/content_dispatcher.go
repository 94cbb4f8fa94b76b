package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/internal/repository"
	"github.com/damoang/angple-moderation/pkg/logger"
	"gorm.io/gorm"
)

// ErrNoContentHandler is returned when no handler is registered for a content type.
// It fails closed so a verdict never commits without a real-world effect.
var ErrNoContentHandler = fmt.Errorf("%w: 콘텐츠 유형 처리기가 없습니다", common.ErrNotFound)

// TxScope is the open transaction handed to content handlers
type TxScope struct {
	DB          *gorm.DB
	afterCommit []func(ctx context.Context)
}

// NewTxScope wraps tx
func NewTxScope(tx *gorm.DB) *TxScope {
	return &TxScope{DB: tx}
}

// AfterCommit registers fn to run once the transaction has committed.
// Hooks are discarded on rollback.
func (s *TxScope) AfterCommit(fn func(ctx context.Context)) {
	s.afterCommit = append(s.afterCommit, fn)
}

func (s *TxScope) runAfterCommit(ctx context.Context) {
	for _, fn := range s.afterCommit {
		fn(ctx)
	}
}

// ContentHandler applies a verdict to one content type's repository
type ContentHandler interface {
	ContentType() domain.ContentType
	Apply(ctx context.Context, scope *TxScope, contentID string, d domain.ContentDecision) error
}

// ContentDispatcher routes a verdict to the handler registered for its content type
type ContentDispatcher struct {
	mu       sync.RWMutex
	handlers map[domain.ContentType]ContentHandler
}

// NewContentDispatcher creates a dispatcher with the given handlers registered
func NewContentDispatcher(handlers ...ContentHandler) *ContentDispatcher {
	d := &ContentDispatcher{handlers: make(map[domain.ContentType]ContentHandler)}
	for _, h := range handlers {
		d.Register(h)
	}
	return d
}

// Register adds or replaces the handler for h.ContentType()
func (d *ContentDispatcher) Register(h ContentHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.ContentType()] = h
}

// Has reports whether a handler exists for t
func (d *ContentDispatcher) Has(t domain.ContentType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[t]
	return ok
}

// Apply dispatches to the handler for contentType
func (d *ContentDispatcher) Apply(ctx context.Context, scope *TxScope, contentType domain.ContentType, contentID string, decision domain.ContentDecision) error {
	d.mu.RLock()
	h, ok := d.handlers[contentType]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoContentHandler, contentType)
	}
	return h.Apply(ctx, scope, contentID, decision)
}

// DefaultContentHandlers returns a handler for every known content type
func DefaultContentHandlers(db *gorm.DB, objects ObjectDeleter) []ContentHandler {
	return []ContentHandler{
		&MessageHandler{repo: repository.NewMessageRepository(db)},
		&PhotoHandler{repo: repository.NewPhotoRepository(db), objects: objects},
		&ProfileHandler{repo: repository.NewProfileRepository(db)},
		&LiveStreamHandler{repo: repository.NewLiveStreamRepository(db), now: time.Now},
	}
}

func reasonPtr(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}

// MessageHandler flags and blocks rejected messages; approval clears the flags
type MessageHandler struct {
	repo *repository.MessageRepository
}

func (h *MessageHandler) ContentType() domain.ContentType { return domain.ContentTypeMessage }

func (h *MessageHandler) Apply(ctx context.Context, scope *TxScope, contentID string, d domain.ContentDecision) error {
	repo := h.repo.WithTx(scope.DB)
	switch d.Status {
	case domain.CaseStatusRejected:
		return repo.SetModeration(ctx, contentID, true, true, reasonPtr(d.Reason))
	case domain.CaseStatusApproved:
		return repo.SetModeration(ctx, contentID, false, false, nil)
	}
	return nil
}

// ObjectDeleter removes stored objects (photo files)
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// PhotoHandler permanently deletes rejected photos.
// Approval afterwards is a no-op; a deleted photo is not restored. A later
// rejection of a case that already removed its photo changes only the case.
type PhotoHandler struct {
	repo    *repository.PhotoRepository
	objects ObjectDeleter
}

func (h *PhotoHandler) ContentType() domain.ContentType { return domain.ContentTypePhoto }

func (h *PhotoHandler) Apply(ctx context.Context, scope *TxScope, contentID string, d domain.ContentDecision) error {
	if d.Status != domain.CaseStatusRejected {
		return nil
	}
	photo, err := h.repo.WithTx(scope.DB).Delete(ctx, contentID)
	if errors.Is(err, common.ErrNotFound) && d.PreviouslyRejected {
		return nil
	}
	if err != nil {
		return err
	}
	if h.objects != nil && photo.ObjectKey != "" {
		key := photo.ObjectKey
		scope.AfterCommit(func(ctx context.Context) {
			if err := h.objects.Delete(ctx, key); err != nil {
				logger.FromContext(ctx).Error().Err(err).
					Str("content_id", contentID).
					Str("object_key", key).
					Msg("사진 원본 삭제 실패 (DB 삭제는 완료됨)")
			}
		})
	}
	return nil
}

// ProfileHandler hides rejected profiles
type ProfileHandler struct {
	repo *repository.ProfileRepository
}

func (h *ProfileHandler) ContentType() domain.ContentType { return domain.ContentTypeProfile }

func (h *ProfileHandler) Apply(ctx context.Context, scope *TxScope, contentID string, d domain.ContentDecision) error {
	repo := h.repo.WithTx(scope.DB)
	switch d.Status {
	case domain.CaseStatusRejected:
		return repo.SetHidden(ctx, contentID, true, reasonPtr(d.Reason))
	case domain.CaseStatusApproved:
		return repo.SetHidden(ctx, contentID, false, nil)
	}
	return nil
}

// LiveStreamHandler ends and blocks rejected streams
type LiveStreamHandler struct {
	repo *repository.LiveStreamRepository
	now  func() time.Time
}

func (h *LiveStreamHandler) ContentType() domain.ContentType { return domain.ContentTypeLiveStream }

func (h *LiveStreamHandler) Apply(ctx context.Context, scope *TxScope, contentID string, d domain.ContentDecision) error {
	repo := h.repo.WithTx(scope.DB)
	switch d.Status {
	case domain.CaseStatusRejected:
		return repo.Block(ctx, contentID, reasonPtr(d.Reason), h.now())
	case domain.CaseStatusApproved:
		return repo.Unblock(ctx, contentID)
	}
	return nil
}
