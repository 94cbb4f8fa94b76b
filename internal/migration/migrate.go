package migration

import (
	"github.com/damoang/angple-moderation/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by the moderation service
func Models() []interface{} {
	return []interface{}{
		&domain.ModerationCase{},
		&domain.ModerationCaseHistory{},
		&domain.Report{},
		&domain.Notification{},
		&domain.Policy{},
		&domain.Message{},
		&domain.Photo{},
		&domain.Profile{},
		&domain.LiveStream{},
	}
}

// Run executes AutoMigrate for the moderation tables and seeds default policies if empty.
func Run(db *gorm.DB) error {
	// 1. AutoMigrate - 테이블 없으면 생성, 있으면 skip
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	// 2. Seed - 정책 테이블이 비어있을 때만 기본 정책 삽입
	var count int64
	if err := db.Model(&domain.Policy{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return seedPolicies(db)
	}

	return nil
}

func seedPolicies(db *gorm.DB) error {
	policies := []domain.Policy{
		{ContentType: domain.ContentTypeMessage, IsActive: true, RuleText: "욕설, 괴롭힘, 스팸 메시지 금지"},
		{ContentType: domain.ContentTypePhoto, IsActive: true, RuleText: "음란물, 폭력적 이미지, 무단 도용 이미지 금지"},
		{ContentType: domain.ContentTypeProfile, IsActive: true, RuleText: "타인 사칭, 혐오 표현이 포함된 프로필 금지"},
		{ContentType: domain.ContentTypeLiveStream, IsActive: true, RuleText: "불법 촬영, 도박, 혐오 방송 금지"},
	}
	return db.Create(&policies).Error
}
