package service

import (
	"fmt"
	"strings"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
)

// normalizeDecision checks the caller and the input before any store is touched
// and returns a canonical copy. Approval is canonicalized to action "none".
func normalizeDecision(moderator domain.Moderator, in *domain.DecisionInput) (*domain.DecisionInput, error) {
	if !moderator.CanModerate() || moderator.ID == "" {
		return nil, fmt.Errorf("%w: 관리자 또는 운영자만 처리할 수 있습니다 (role=%q)", common.ErrUnauthorized, moderator.Role)
	}
	if in == nil {
		return nil, fmt.Errorf("%w: 요청이 비어 있습니다", common.ErrInvalidInput)
	}

	out := *in
	out.ContentID = strings.TrimSpace(out.ContentID)
	out.SubjectUserID = strings.TrimSpace(out.SubjectUserID)
	out.ExistingCaseID = strings.TrimSpace(out.ExistingCaseID)

	var missing []string
	if out.ContentID == "" {
		missing = append(missing, "content_id")
	}
	if out.ContentType == "" {
		missing = append(missing, "content_type")
	}
	if out.SubjectUserID == "" {
		missing = append(missing, "subject_user_id")
	}
	if out.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: 필수 항목 누락 (%s)", common.ErrInvalidInput, strings.Join(missing, ", "))
	}

	if !out.ContentType.IsValid() {
		return nil, fmt.Errorf("%w: 알 수 없는 콘텐츠 유형 %q", common.ErrInvalidInput, out.ContentType)
	}
	if !out.Status.IsValid() {
		return nil, fmt.Errorf("%w: 알 수 없는 상태 %q", common.ErrInvalidInput, out.Status)
	}

	if out.ModeratorID != "" && out.ModeratorID != moderator.ID {
		return nil, fmt.Errorf("%w: 요청자와 처리자가 일치하지 않습니다", common.ErrUnauthorized)
	}
	out.ModeratorID = moderator.ID

	switch out.Status {
	case domain.CaseStatusRejected:
		if !out.ActionTaken.IsEnforcement() {
			return nil, fmt.Errorf("%w: 반려 시 조치(warn, remove, ban)가 필요합니다 (action=%q)", common.ErrInvalidInput, out.ActionTaken)
		}
	case domain.CaseStatusApproved:
		out.ActionTaken = domain.ActionNone
		out.ViolationLevel = ""
	case domain.CaseStatusPending:
		if out.ActionTaken == domain.ActionNone {
			out.ActionTaken = ""
		}
		if out.ActionTaken != "" {
			return nil, fmt.Errorf("%w: 대기 상태에는 조치를 지정할 수 없습니다", common.ErrInvalidInput)
		}
	}

	if out.ViolationLevel != "" && !out.ViolationLevel.IsValid() {
		return nil, fmt.Errorf("%w: 알 수 없는 위반 등급 %q", common.ErrInvalidInput, out.ViolationLevel)
	}

	return &out, nil
}

// mergeDecision applies in onto a copy of prev. Supplied fields overwrite,
// absent optional fields keep their prior value.
func mergeDecision(prev *domain.ModerationCase, in *domain.DecisionInput) *domain.ModerationCase {
	c := *prev
	c.SubjectUserID = in.SubjectUserID
	c.ModeratorID = in.ModeratorID
	c.Status = in.Status
	c.ActionTaken = in.ActionTaken
	if in.Reason != "" {
		c.Reason = in.Reason
	}
	if in.Notes != "" {
		c.Notes = in.Notes
	}
	if in.ViolationLevel != "" {
		c.ViolationLevel = in.ViolationLevel
	}
	if in.Status == domain.CaseStatusApproved {
		c.ViolationLevel = ""
	}
	if in.ReportID != nil {
		id := *in.ReportID
		c.ReportID = &id
	}
	return &c
}

// sameVerdict reports whether next records exactly the verdict already stored in prev
func sameVerdict(prev, next *domain.ModerationCase) bool {
	return prev.Status == next.Status &&
		prev.ActionTaken == next.ActionTaken &&
		prev.Reason == next.Reason &&
		prev.Notes == next.Notes &&
		prev.ViolationLevel == next.ViolationLevel &&
		prev.SubjectUserID == next.SubjectUserID &&
		prev.ModeratorID == next.ModeratorID &&
		sameReportID(prev.ReportID, next.ReportID)
}

func sameReportID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
