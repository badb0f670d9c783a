package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(100)" json:"-"`
	FirstName string    `gorm:"type:varchar(50)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(50)" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile 用户档案，与用户一对一
type Profile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex" json:"user_id"`
	Role      string    `gorm:"type:varchar(50)" json:"role"` // mentor、mentee 或自定义角色
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill 技能标签，按名称去重
type Skill struct {
	ID   string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex" json:"name"`
}

// Interest 兴趣标签，按名称去重
type Interest struct {
	ID   string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex" json:"name"`
}

// UserSkill 用户-技能关联
type UserSkill struct {
	ID      string `gorm:"primaryKey;type:varchar(36)"`
	UserID  string `gorm:"type:varchar(36);index:idx_user_skill,unique"`
	SkillID string `gorm:"type:varchar(36);index:idx_user_skill,unique"`
}

// TableName 指定表名
func (UserSkill) TableName() string {
	return "user_skills"
}

// UserInterest 用户-兴趣关联
type UserInterest struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	UserID     string `gorm:"type:varchar(36);index:idx_user_interest,unique"`
	InterestID string `gorm:"type:varchar(36);index:idx_user_interest,unique"`
}

// TableName 指定表名
func (UserInterest) TableName() string {
	return "user_interests"
}

// SetupDatabase 初始化数据库表结构
func SetupDatabase(db *gorm.DB) error {
	// 自动迁移表结构
	return db.AutoMigrate(
		&User{},
		&Profile{},
		&Skill{},
		&Interest{},
		&UserSkill{},
		&UserInterest{},
		&MentorshipRequest{},
		&Connection{},
	)
}
