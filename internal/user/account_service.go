package user

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"mentormatch/internal/middleware"
	"mentormatch/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("邮箱已被注册")
	// ErrInvalidCredentials 邮箱或密码错误（两种情况不区分，避免泄露账号是否存在）
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register 注册新用户
// 用户、档案和标签关联在同一事务中创建
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (string, error) {
	// 检查邮箱是否已注册
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrEmailExists
	}

	// 哈希密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	// 用户名取邮箱@前的部分
	username := strings.SplitN(req.Email, "@", 2)[0]

	newUser := model.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// 开始事务
	tx := s.db.WithContext(ctx).Begin()

	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		return "", err
	}

	// 创建档案
	profile := model.Profile{
		ID:     uuid.New().String(),
		UserID: newUser.ID,
		Role:   req.Role,
		Bio:    req.Bio,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		return "", err
	}

	// 关联已有技能
	for _, skillID := range req.Skills {
		binding := model.UserSkill{
			ID:      uuid.New().String(),
			UserID:  newUser.ID,
			SkillID: skillID,
		}
		if err := tx.Create(&binding).Error; err != nil {
			tx.Rollback()
			return "", err
		}
	}

	// 关联已有兴趣
	for _, interestID := range req.Interests {
		binding := model.UserInterest{
			ID:         uuid.New().String(),
			UserID:     newUser.ID,
			InterestID: interestID,
		}
		if err := tx.Create(&binding).Error; err != nil {
			tx.Rollback()
			return "", err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return "", err
	}

	return newUser.ID, nil
}

// Login 用户登录
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	// 查找用户
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("查询用户时数据库错误: %v", err)
		return nil, err
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 生成JWT令牌
	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		log.Printf("生成令牌失败: %v", err)
		return nil, err
	}

	return &LoginResponse{
		UserID: u.ID,
		Token:  token,
	}, nil
}

// GetUserByID 通过ID获取用户
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (*UserResponse, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}, nil
}
