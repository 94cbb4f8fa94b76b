package handler

import (
	"fmt"
	"sync"

	"github.com/damoang/angple-moderation/internal/common"
	"github.com/damoang/angple-moderation/internal/domain"
	"github.com/damoang/angple-moderation/internal/middleware"
	"github.com/damoang/angple-moderation/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the moderation binding tags to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
				return domain.ContentType(fl.Field().String()).IsValid()
			})
		}
	})
}

// ModerationHandler handles moderation API endpoints
type ModerationHandler struct {
	service *service.ModerationService
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	RegisterValidators()
	return &ModerationHandler{service: svc}
}

// Decide handles POST /api/v2/moderation/decisions
func (h *ModerationHandler) Decide(c *gin.Context) {
	var req domain.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2KindErrorResponse(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err), "요청 형식이 올바르지 않습니다")
		return
	}

	moderator := middleware.GetModerator(c)
	result, err := h.service.Decide(c.Request.Context(), moderator, req.ToInput(moderator.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 최초 버전이면 새로 생성된 케이스
	if result.Version == 1 {
		common.V2Created(c, result)
		return
	}
	common.V2Success(c, result)
}

// GetCase handles GET /api/v2/moderation/cases/:id
func (h *ModerationHandler) GetCase(c *gin.Context) {
	result, err := h.service.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.V2Success(c, result)
}

// FindCase handles GET /api/v2/moderation/cases?content_type=&content_id=
func (h *ModerationHandler) FindCase(c *gin.Context) {
	key := domain.NaturalKey{
		ContentID:   c.Query("content_id"),
		ContentType: domain.ContentType(c.Query("content_type")),
	}
	result, err := h.service.GetCaseByNaturalKey(c.Request.Context(), key)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.V2Success(c, result)
}

// History handles GET /api/v2/moderation/cases/:id/history
func (h *ModerationHandler) History(c *gin.Context) {
	items, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.V2Success(c, items)
}

func (h *ModerationHandler) respondError(c *gin.Context, err error) {
	if common.IsRetryable(err) {
		c.Header("Retry-After", "1")
	}
	common.V2KindErrorResponse(c, err, errorMessage(err))
}

func errorMessage(err error) string {
	switch common.ErrorKind(err) {
	case common.KindInvalidInput:
		return "요청 값이 올바르지 않습니다"
	case common.KindUnauthorized:
		return "처리 권한이 없습니다"
	case common.KindPolicyInactive:
		return "해당 콘텐츠 유형의 운영 정책이 비활성화되어 있습니다"
	case common.KindNotFound:
		return "대상을 찾을 수 없습니다"
	case common.KindConflictRetryable:
		return "다른 관리자가 동시에 처리 중입니다. 잠시 후 다시 시도해주세요"
	default:
		return "일시적인 오류가 발생했습니다"
	}
}
