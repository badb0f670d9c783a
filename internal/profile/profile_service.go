package profile

import (
	"context"
	"errors"
	"strings"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrProfileNotFound 档案尚未创建
var ErrProfileNotFound = errors.New("档案尚未创建")

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile 获取用户档案及标签
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	var p model.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	skills, err := s.tagNames(ctx, "user_skills", "skills", "skill_id", userID)
	if err != nil {
		return nil, err
	}
	interests, err := s.tagNames(ctx, "user_interests", "interests", "interest_id", userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		UserID:    p.UserID,
		Role:      p.Role,
		Bio:       p.Bio,
		Skills:    skills,
		Interests: interests,
	}, nil
}

// tagNames 查询用户关联的标签名称列表
func (s *ProfileService) tagNames(ctx context.Context, joinTable, tagTable, fkColumn, userID string) ([]string, error) {
	rows, err := s.db.WithContext(ctx).Raw(
		"SELECT t.name FROM "+tagTable+" t JOIN "+joinTable+" j ON t.id = j."+fkColumn+" WHERE j.user_id = ?",
		userID,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Setup 保存档案
// 档案按user_id插入或更新，标签按名称查找或创建，
// 用户已有的标签关联整体替换，全部写入在同一事务中完成
func (s *ProfileService) Setup(ctx context.Context, userID string, req *SetupRequest) error {
	skillNames := splitTags(req.Skills)
	interestNames := splitTags(req.Interests)

	// 开始事务
	tx := s.db.WithContext(ctx).Begin()

	// 插入或更新档案
	var existing model.Profile
	err := tx.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Model(&model.Profile{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{"role": req.Role, "bio": req.Bio}).Error; err != nil {
			tx.Rollback()
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := model.Profile{
			ID:     uuid.New().String(),
			UserID: userID,
			Role:   req.Role,
			Bio:    req.Bio,
		}
		if err := tx.Create(&p).Error; err != nil {
			tx.Rollback()
			return err
		}
	default:
		tx.Rollback()
		return err
	}

	// 清除旧的标签关联
	if err := tx.Where("user_id = ?", userID).Delete(&model.UserSkill{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&model.UserInterest{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	// 写入新技能关联
	for _, name := range skillNames {
		var skill model.Skill
		err := tx.Where("name = ?", name).First(&skill).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			skill = model.Skill{ID: uuid.New().String(), Name: name}
			err = tx.Create(&skill).Error
		}
		if err != nil {
			tx.Rollback()
			return err
		}

		binding := model.UserSkill{ID: uuid.New().String(), UserID: userID, SkillID: skill.ID}
		if err := tx.Create(&binding).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// 写入新兴趣关联
	for _, name := range interestNames {
		var interest model.Interest
		err := tx.Where("name = ?", name).First(&interest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			interest = model.Interest{ID: uuid.New().String(), Name: name}
			err = tx.Create(&interest).Error
		}
		if err != nil {
			tx.Rollback()
			return err
		}

		binding := model.UserInterest{ID: uuid.New().String(), UserID: userID, InterestID: interest.ID}
		if err := tx.Create(&binding).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// splitTags 解析逗号分隔的标签串：去空白、小写、跳过空项并去重
func splitTags(raw string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
