package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/internal/repository"
	"github.com/damoang/angple-moderation/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const moderationAlertTitle = "콘텐츠 제재 안내"

// ModerationService records moderation verdicts and applies their side effects atomically
type ModerationService struct {
	db              *gorm.DB
	cases           *repository.ModerationCaseRepository
	reports         *repository.ReportRepository
	notifications   *repository.NotificationRepository
	histories       *repository.HistoryRepository
	policies        PolicyCatalog
	dispatcher      *ContentDispatcher
	decisionTimeout time.Duration
	now             func() time.Time
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	db *gorm.DB,
	cases *repository.ModerationCaseRepository,
	reports *repository.ReportRepository,
	notifications *repository.NotificationRepository,
	histories *repository.HistoryRepository,
	policies PolicyCatalog,
	dispatcher *ContentDispatcher,
) *ModerationService {
	return &ModerationService{
		db:            db,
		cases:         cases,
		reports:       reports,
		notifications: notifications,
		histories:     histories,
		policies:      policies,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// SetDecisionTimeout bounds each Decide call. Zero disables the bound.
func (s *ModerationService) SetDecisionTimeout(d time.Duration) {
	s.decisionTimeout = d
}

// SetClock replaces the time source (tests)
func (s *ModerationService) SetClock(now func() time.Time) {
	s.now = now
}

// Decide validates a verdict and commits it together with its content, report
// and notification side effects. Either everything is written or nothing is.
func (s *ModerationService) Decide(ctx context.Context, moderator domain.Moderator, in *domain.DecisionInput) (*domain.ModerationCase, error) {
	start := time.Now()
	c, replayed, err := s.decide(ctx, moderator, in)

	contentType, status := "unknown", "unknown"
	if in != nil {
		if in.ContentType.IsValid() {
			contentType = string(in.ContentType)
		}
		if in.Status.IsValid() {
			status = string(in.Status)
		}
	}
	outcome := outcomeCommitted
	switch {
	case err != nil:
		outcome = common.ErrorKind(err)
	case replayed:
		outcome = outcomeReplayed
	}
	moderationDecisionsTotal.WithLabelValues(contentType, status, outcome).Inc()
	moderationDecisionDuration.WithLabelValues(contentType).Observe(time.Since(start).Seconds())

	s.logDecision(ctx, moderator, in, c, outcome, err)
	return c, err
}

func (s *ModerationService) decide(ctx context.Context, moderator domain.Moderator, raw *domain.DecisionInput) (*domain.ModerationCase, bool, error) {
	in, err := normalizeDecision(moderator, raw)
	if err != nil {
		return nil, false, err
	}

	// 정책이 꺼진 콘텐츠 유형에는 새 제재를 만들 수 없다. 승인(해제)은 허용
	if in.Status == domain.CaseStatusRejected {
		active, err := s.policies.IsActive(ctx, in.ContentType)
		if err != nil {
			return nil, false, repository.TranslateError(err)
		}
		if !active {
			return nil, false, fmt.Errorf("%w: %s 유형의 운영 정책이 비활성화되어 있습니다", common.ErrPolicyInactive, in.ContentType)
		}
	}

	if s.decisionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.decisionTimeout)
		defer cancel()
	}

	var (
		result   *domain.ModerationCase
		replayed bool
		scope    *TxScope
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope = NewTxScope(tx)
		var applyErr error
		result, replayed, applyErr = s.apply(ctx, scope, in)
		if applyErr != nil {
			return applyErr
		}
		// 커밋 직전 취소 여부 확인
		return ctx.Err()
	})
	if err != nil {
		return nil, false, repository.TranslateError(err)
	}

	scope.runAfterCommit(context.WithoutCancel(ctx))
	return result, replayed, nil
}

// apply runs the transition steps inside the open transaction
func (s *ModerationService) apply(ctx context.Context, scope *TxScope, in *domain.DecisionInput) (*domain.ModerationCase, bool, error) {
	tx := scope.DB
	cases := s.cases.WithTx(tx)
	now := s.now()

	// Step 1: resolve and persist the case
	existing, err := s.resolveCase(ctx, cases, in)
	if err != nil {
		return nil, false, err
	}

	// 이미 결정된 케이스를 보류 상태로 되돌릴 수 없다
	if in.Status == domain.CaseStatusPending && existing != nil && existing.Status != domain.CaseStatusPending {
		return nil, false, fmt.Errorf("%w: case %s is already %s and cannot return to pending",
			common.ErrInvalidInput, existing.ID, existing.Status)
	}

	var next *domain.ModerationCase
	if existing == nil {
		next = mergeDecision(&domain.ModerationCase{
			ContentID:   in.ContentID,
			ContentType: in.ContentType,
		}, in)
	} else {
		next = mergeDecision(existing, in)
		if sameVerdict(existing, next) {
			return existing, true, nil
		}
	}
	if next.Status == domain.CaseStatusPending {
		next.DecidedAt = nil
	} else {
		next.DecidedAt = &now
	}
	if err := next.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	if existing == nil {
		if err := cases.Create(ctx, next); err != nil {
			return nil, false, err
		}
	} else if err := cases.UpdateWithVersion(ctx, next, existing.Version); err != nil {
		return nil, false, err
	}

	// Step 2: content side effect
	decision := domain.ContentDecision{Status: next.Status, ActionTaken: next.ActionTaken, Reason: next.Reason}
	if next.Status == domain.CaseStatusRejected && existing != nil {
		if decision.PreviouslyRejected, err = s.wasRejected(ctx, tx, existing); err != nil {
			return nil, false, err
		}
	}
	if err := s.dispatcher.Apply(ctx, scope, next.ContentType, next.ContentID, decision); err != nil {
		return nil, false, err
	}

	// Step 3: report linkage
	if in.ReportID != nil {
		if err := s.reports.WithTx(tx).UpdateModeration(ctx, *in.ReportID,
			domain.ReportStatusFor(next.Status), in.Notes, next.ModeratorID, now); err != nil {
			return nil, false, err
		}
	}

	// Step 4: notify the subject of an enforcement
	if next.Status == domain.CaseStatusRejected {
		if err := s.notifications.WithTx(tx).Enqueue(ctx, buildModerationAlert(next, now)); err != nil {
			return nil, false, err
		}
	}

	prevStatus := domain.CaseStatus("")
	if existing != nil {
		prevStatus = existing.Status
	}
	if err := s.histories.WithTx(tx).Record(ctx, &domain.ModerationCaseHistory{
		CaseID:         next.ID,
		PrevStatus:     prevStatus,
		NewStatus:      next.Status,
		ActionTaken:    next.ActionTaken,
		ViolationLevel: next.ViolationLevel,
		Reason:         next.Reason,
		ModeratorID:    next.ModeratorID,
		ReportID:       in.ReportID,
		CreatedAt:      now,
	}); err != nil {
		return nil, false, err
	}

	return next, false, nil
}

// resolveCase finds the case by id when a hint is given, otherwise by natural key.
// A nil case with nil error means the natural key has no case yet.
func (s *ModerationService) resolveCase(ctx context.Context, cases *repository.ModerationCaseRepository, in *domain.DecisionInput) (*domain.ModerationCase, error) {
	if in.ExistingCaseID != "" {
		c, err := cases.FindByID(ctx, in.ExistingCaseID, true)
		if err != nil {
			return nil, err
		}
		if c.NaturalKey() != in.NaturalKey() {
			return nil, fmt.Errorf("%w: case %s belongs to %s, not %s",
				common.ErrInvalidInput, c.ID, c.NaturalKey(), in.NaturalKey())
		}
		return c, nil
	}

	c, err := cases.FindByNaturalKey(ctx, in.NaturalKey(), true)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// wasRejected reports whether the case has committed a rejection at any point
func (s *ModerationService) wasRejected(ctx context.Context, tx *gorm.DB, c *domain.ModerationCase) (bool, error) {
	if c.Status == domain.CaseStatusRejected {
		return true, nil
	}
	return s.histories.WithTx(tx).HasStatus(ctx, c.ID, domain.CaseStatusRejected)
}

func buildModerationAlert(c *domain.ModerationCase, now time.Time) *domain.Notification {
	reason := c.Reason
	if reason == "" {
		reason = "-"
	}
	content := fmt.Sprintf("회원님의 콘텐츠(%s)가 운영 정책 위반으로 제재되었습니다.\n사유: %s\n조치: %s",
		c.ContentType, reason, c.ActionTaken)
	return &domain.Notification{
		Type:      domain.NotificationTypeModerationAlert,
		UserID:    c.SubjectUserID,
		Title:     moderationAlertTitle,
		Content:   content,
		CaseID:    c.ID,
		CreatedAt: now,
	}
}

func (s *ModerationService) logDecision(ctx context.Context, moderator domain.Moderator, in *domain.DecisionInput, c *domain.ModerationCase, outcome string, err error) {
	l := logger.FromContext(ctx)
	var ev *zerolog.Event
	switch {
	case err == nil:
		ev = l.Info()
	case errors.Is(err, common.ErrConflictRetryable):
		ev = l.Warn()
	case common.ErrorKind(err) == common.KindStorageFailure:
		ev = l.Error()
	default:
		ev = l.Info()
	}

	ev = ev.Str("moderator_id", moderator.ID).Str("outcome", outcome)
	if in != nil {
		ev = ev.Str("content_type", string(in.ContentType)).Str("content_id", in.ContentID)
	}
	if c != nil {
		ev = ev.Str("case_id", c.ID).Str("status", string(c.Status)).Int("version", c.Version)
	}
	if err != nil {
		ev.Err(err).Msg("모더레이션 처리 실패")
		return
	}
	ev.Msg("모더레이션 처리 완료")
}

// GetCase returns a case by id
func (s *ModerationService) GetCase(ctx context.Context, id string) (*domain.ModerationCase, error) {
	return s.cases.FindByID(ctx, id, false)
}

// GetCaseByNaturalKey returns the case for (content type, content id)
func (s *ModerationService) GetCaseByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.ModerationCase, error) {
	if !key.ContentType.IsValid() || key.ContentID == "" {
		return nil, fmt.Errorf("%w: content_type과 content_id가 필요합니다", common.ErrInvalidInput)
	}
	return s.cases.FindByNaturalKey(ctx, key, false)
}

// History lists every committed verdict of a case, oldest first
func (s *ModerationService) History(ctx context.Context, caseID string) ([]domain.ModerationCaseHistory, error) {
	if _, err := s.cases.FindByID(ctx, caseID, false); err != nil {
		return nil, err
	}
	return s.histories.ListByCase(ctx, caseID)
}
