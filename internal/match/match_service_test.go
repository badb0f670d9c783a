package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentormatch/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := model.SetupDatabase(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	return db
}

// createUser 创建测试用户及档案
func createUser(t *testing.T, db *gorm.DB, username, role, bio string) string {
	u := model.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hash",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	p := model.Profile{
		ID:     uuid.New().String(),
		UserID: u.ID,
		Role:   role,
		Bio:    bio,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("创建测试档案失败: %v", err)
	}

	return u.ID
}

// addSkill 为用户关联技能（不存在时创建）
func addSkill(t *testing.T, db *gorm.DB, userID, name string) {
	var skill model.Skill
	err := db.Where("name = ?", name).First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		skill = model.Skill{ID: uuid.New().String(), Name: name}
		err = db.Create(&skill).Error
	}
	if err != nil {
		t.Fatalf("创建测试技能失败: %v", err)
	}

	binding := model.UserSkill{ID: uuid.New().String(), UserID: userID, SkillID: skill.ID}
	if err := db.Create(&binding).Error; err != nil {
		t.Fatalf("关联测试技能失败: %v", err)
	}
}

func TestDiscoverExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	me := createUser(t, db, "alice", "mentor", "alice bio")
	other := createUser(t, db, "bob", "mentor", "bob bio")

	candidates, err := svc.Discover(context.Background(), me, "", "")
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, other, candidates[0].ID)
	for _, c := range candidates {
		assert.NotEqual(t, me, c.ID)
	}
}

func TestDiscoverFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	me := createUser(t, db, "me", "mentee", "")
	goMentor := createUser(t, db, "go_mentor", "mentor", "写Go的")
	jsMentor := createUser(t, db, "js_mentor", "mentor", "写JS的")
	goMentee := createUser(t, db, "go_mentee", "mentee", "学Go的")

	addSkill(t, db, goMentor, "golang")
	addSkill(t, db, goMentee, "golang")
	addSkill(t, db, jsMentor, "javascript")

	tests := []struct {
		name     string
		role     string
		skill    string
		expected []string
	}{
		{
			name:     "无过滤条件返回除自己外的所有用户",
			expected: []string{goMentor, jsMentor, goMentee},
		},
		{
			name:     "只按角色过滤",
			role:     "mentor",
			expected: []string{goMentor, jsMentor},
		},
		{
			name:     "只按技能过滤",
			skill:    "golang",
			expected: []string{goMentor, goMentee},
		},
		{
			name:     "角色和技能同时过滤取交集",
			role:     "mentor",
			skill:    "golang",
			expected: []string{goMentor},
		},
		{
			name:     "技能名大小写敏感",
			skill:    "Golang",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := svc.Discover(context.Background(), me, tt.role, tt.skill)
			assert.NoError(t, err)

			ids := []string{}
			for _, c := range candidates {
				ids = append(ids, c.ID)
			}
			assert.ElementsMatch(t, tt.expected, ids)
		})
	}
}

func TestSendRequestToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	me := createUser(t, db, "alice", "mentee", "")

	_, err := svc.SendRequest(context.Background(), me, me)
	assert.ErrorIs(t, err, ErrSelfRequest)

	// 没有产生任何请求行
	var count int64
	db.Model(&model.MentorshipRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSendRequestDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")

	_, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	_, err = svc.SendRequest(context.Background(), sender, receiver)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// 反方向的请求不算重复
	_, err = svc.SendRequest(context.Background(), receiver, sender)
	assert.NoError(t, err)
}

func TestRespondAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")
	outsider := createUser(t, db, "carol", "mentor", "")

	requestID, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	// 非接收方响应
	err = svc.Respond(context.Background(), outsider, requestID, model.RequestStatusAccepted)
	assert.ErrorIs(t, err, ErrNotReceiver)

	// 不存在的请求，与非接收方不可区分
	err = svc.Respond(context.Background(), receiver, uuid.New().String(), model.RequestStatusAccepted)
	assert.ErrorIs(t, err, ErrNotReceiver)

	// 请求状态未被改动
	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusPending, request.Status)
}

func TestRespondAcceptCreatesConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")

	requestID, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	err = svc.Respond(context.Background(), receiver, requestID, model.RequestStatusAccepted)
	assert.NoError(t, err)

	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusAccepted, request.Status)

	// 恰好创建一条导师关系，方向固定：发起方为mentor，接收方为mentee
	var connections []model.Connection
	assert.NoError(t, db.Find(&connections).Error)
	assert.Len(t, connections, 1)
	assert.Equal(t, sender, connections[0].MentorID)
	assert.Equal(t, receiver, connections[0].MenteeID)
}

func TestRespondDeclineNoSideEffect(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")

	requestID, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	err = svc.Respond(context.Background(), receiver, requestID, model.RequestStatusDeclined)
	assert.NoError(t, err)

	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusDeclined, request.Status)

	var count int64
	db.Model(&model.Connection{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRespondInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")

	requestID, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	err = svc.Respond(context.Background(), receiver, requestID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidAction)

	// 状态保持不变
	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusPending, request.Status)
}

func TestRespondAlreadyResolved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)

	sender := createUser(t, db, "alice", "mentee", "")
	receiver := createUser(t, db, "bob", "mentor", "")

	requestID, err := svc.SendRequest(context.Background(), sender, receiver)
	assert.NoError(t, err)

	err = svc.Respond(context.Background(), receiver, requestID, model.RequestStatusAccepted)
	assert.NoError(t, err)

	// 已处理的请求不能再次响应
	err = svc.Respond(context.Background(), receiver, requestID, model.RequestStatusDeclined)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// 状态保持第一次的结果，导师关系也只有一条
	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusAccepted, request.Status)

	var count int64
	db.Model(&model.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestMentorshipScenario 完整流程：发送 → 重复被拒 → 接受 → 发起方无权响应
func TestMentorshipScenario(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)
	ctx := context.Background()

	userA := createUser(t, db, "a_user", "mentee", "")
	userB := createUser(t, db, "b_user", "mentor", "")

	// A 向 B 发送请求
	requestID, err := svc.SendRequest(ctx, userA, userB)
	assert.NoError(t, err)

	// A 再次发送同一请求
	_, err = svc.SendRequest(ctx, userA, userB)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// B 接受
	err = svc.Respond(ctx, userB, requestID, model.RequestStatusAccepted)
	assert.NoError(t, err)

	var request model.MentorshipRequest
	assert.NoError(t, db.Where("id = ?", requestID).First(&request).Error)
	assert.Equal(t, model.RequestStatusAccepted, request.Status)

	var connections []model.Connection
	assert.NoError(t, db.Find(&connections).Error)
	assert.Len(t, connections, 1)
	assert.Equal(t, userA, connections[0].MentorID)
	assert.Equal(t, userB, connections[0].MenteeID)

	// A（发起方）尝试响应自己的请求
	err = svc.Respond(ctx, userA, requestID, model.RequestStatusDeclined)
	assert.ErrorIs(t, err, ErrNotReceiver)
}

func TestListRequests(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)
	ctx := context.Background()

	me := createUser(t, db, "me", "mentee", "")
	sender := createUser(t, db, "someone", "mentee", "")
	receiver := createUser(t, db, "mentor_guy", "mentor", "")

	// 一条发给我的，一条我发出的
	incomingID, err := svc.SendRequest(ctx, sender, me)
	assert.NoError(t, err)
	_, err = svc.SendRequest(ctx, me, receiver)
	assert.NoError(t, err)

	requests, err := svc.ListRequests(ctx, me)
	assert.NoError(t, err)

	assert.Len(t, requests.Incoming, 1)
	assert.Equal(t, incomingID, requests.Incoming[0].ID)
	assert.Equal(t, "someone", requests.Incoming[0].Username)

	assert.Len(t, requests.Outgoing, 1)
	assert.Equal(t, "mentor_guy", requests.Outgoing[0].Username)

	// 已处理的请求不再出现在列表中
	err = svc.Respond(ctx, me, incomingID, model.RequestStatusDeclined)
	assert.NoError(t, err)

	requests, err = svc.ListRequests(ctx, me)
	assert.NoError(t, err)
	assert.Len(t, requests.Incoming, 0)
}

func TestListConnections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMatchService(db)
	ctx := context.Background()

	me := createUser(t, db, "me", "mentee", "")
	myMentor := createUser(t, db, "my_mentor", "mentor", "")
	myMentee := createUser(t, db, "my_mentee", "mentee", "")

	// 我发出的请求被接受 → 我是mentor（方向由请求决定）
	requestID, err := svc.SendRequest(ctx, me, myMentee)
	assert.NoError(t, err)
	assert.NoError(t, svc.Respond(ctx, myMentee, requestID, model.RequestStatusAccepted))

	// 导师向我发请求并被我接受 → 对方是mentor
	requestID, err = svc.SendRequest(ctx, myMentor, me)
	assert.NoError(t, err)
	assert.NoError(t, svc.Respond(ctx, me, requestID, model.RequestStatusAccepted))

	connections, err := svc.ListConnections(ctx, me)
	assert.NoError(t, err)

	assert.Len(t, connections.Mentors, 1)
	assert.Equal(t, "my_mentor", connections.Mentors[0].Username)

	assert.Len(t, connections.Mentees, 1)
	assert.Equal(t, "my_mentee", connections.Mentees[0].Username)
}
