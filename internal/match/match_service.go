package match

import (
	"context"
	"errors"
	"time"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSelfRequest 不能向自己发送导师请求
	ErrSelfRequest = errors.New("不能向自己发送导师请求")
	// ErrDuplicateRequest 已向该用户发送过请求
	ErrDuplicateRequest = errors.New("已向该用户发送过请求")
	// ErrInvalidAction 无效的响应动作
	ErrInvalidAction = errors.New("无效的响应动作")
	// ErrNotReceiver 请求不存在或当前用户不是接收方（两种情况不区分，避免泄露请求是否存在）
	ErrNotReceiver = errors.New("无权响应该请求")
	// ErrAlreadyResolved 请求已被处理过
	ErrAlreadyResolved = errors.New("请求已被处理")
)

type MatchService struct {
	db *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{db: db}
}

// Discover 按条件搜索其他用户
// role 精确匹配档案角色，skill 要求存在同名技能关联，两个条件相互独立、同时给出时取交集，
// 结果永远不包含当前用户自己
func (s *MatchService) Discover(ctx context.Context, userID, role, skill string) ([]Candidate, error) {
	query := `
		SELECT u.id, u.username, p.role, p.bio FROM users u
		JOIN profiles p ON u.id = p.user_id
		WHERE u.id != ?
	`
	args := []interface{}{userID}

	if role != "" {
		query += " AND p.role = ?"
		args = append(args, role)
	}

	if skill != "" {
		query += `
			AND EXISTS (
				SELECT 1 FROM user_skills us
				JOIN skills s ON us.skill_id = s.id
				WHERE us.user_id = u.id AND s.name = ?
			)
		`
		args = append(args, skill)
	}

	rows, err := s.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Username, &c.Role, &c.Bio); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// SendRequest 发送导师请求
// 同一对 (sender, receiver) 的重复请求由唯一索引拦截，转换为 ErrDuplicateRequest；
// 接收方是否真实存在不做预检查
func (s *MatchService) SendRequest(ctx context.Context, senderID, receiverID string) (string, error) {
	if senderID == receiverID {
		return "", ErrSelfRequest
	}

	request := model.MentorshipRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.RequestStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateRequest
		}
		return "", err
	}

	return request.ID, nil
}

// Respond 响应导师请求
// 只有接收方可以响应；状态更新带 status = 'pending' 条件，
// 已处理过的请求（包括并发响应时输掉竞争的一方）返回 ErrAlreadyResolved。
// 接受时在同一事务中创建导师关系：发起方为 mentor，接收方为 mentee
func (s *MatchService) Respond(ctx context.Context, userID, requestID, action string) error {
	if action != model.RequestStatusAccepted && action != model.RequestStatusDeclined {
		return ErrInvalidAction
	}

	// 校验接收方身份
	var request model.MentorshipRequest
	if err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotReceiver
		}
		return err
	}
	if request.ReceiverID != userID {
		return ErrNotReceiver
	}

	// 开始事务
	tx := s.db.WithContext(ctx).Begin()

	result := tx.Model(&model.MentorshipRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
		Update("status", action)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrAlreadyResolved
	}

	// 接受时创建导师关系
	if action == model.RequestStatusAccepted {
		conn := model.Connection{
			ID:        uuid.New().String(),
			MentorID:  request.SenderID,
			MenteeID:  request.ReceiverID,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&conn).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// ListRequests 获取与当前用户相关的待处理请求
func (s *MatchService) ListRequests(ctx context.Context, userID string) (*RequestListResponse, error) {
	incoming, err := s.requestViews(ctx, `
		SELECT r.id, r.sender_id, r.receiver_id, u.username, r.status, r.created_at
		FROM mentorship_requests r
		JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = ? AND r.status = ?
	`, userID)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.requestViews(ctx, `
		SELECT r.id, r.sender_id, r.receiver_id, u.username, r.status, r.created_at
		FROM mentorship_requests r
		JOIN users u ON u.id = r.receiver_id
		WHERE r.sender_id = ? AND r.status = ?
	`, userID)
	if err != nil {
		return nil, err
	}

	return &RequestListResponse{Incoming: incoming, Outgoing: outgoing}, nil
}

// requestViews 执行请求列表查询
func (s *MatchService) requestViews(ctx context.Context, query, userID string) ([]RequestView, error) {
	rows, err := s.db.WithContext(ctx).Raw(query, userID, model.RequestStatusPending).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []RequestView{}
	for rows.Next() {
		var v RequestView
		if err := rows.Scan(&v.ID, &v.SenderID, &v.ReceiverID, &v.Username, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListConnections 获取当前用户的导师关系
func (s *MatchService) ListConnections(ctx context.Context, userID string) (*ConnectionListResponse, error) {
	mentors, err := s.connectionViews(ctx, `
		SELECT u.id, u.username, c.created_at
		FROM connections c
		JOIN users u ON u.id = c.mentor_id
		WHERE c.mentee_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}

	mentees, err := s.connectionViews(ctx, `
		SELECT u.id, u.username, c.created_at
		FROM connections c
		JOIN users u ON u.id = c.mentee_id
		WHERE c.mentor_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}

	return &ConnectionListResponse{Mentors: mentors, Mentees: mentees}, nil
}

// connectionViews 执行导师关系列表查询
func (s *MatchService) connectionViews(ctx context.Context, query, userID string) ([]ConnectionView, error) {
	rows, err := s.db.WithContext(ctx).Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []ConnectionView{}
	for rows.Next() {
		var v ConnectionView
		if err := rows.Scan(&v.UserID, &v.Username, &v.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
