package match

import "time"

// SendRequestRequest 发送导师请求
type SendRequestRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
}

// RespondRequest 响应导师请求
type RespondRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Action    string `json:"action" binding:"required"` // accepted 或 declined
}

// Candidate 发现结果中的候选用户
type Candidate struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// RequestView 请求列表中的单条请求，附带对方用户名
type RequestView struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Username   string    `json:"username"` // 对方的用户名
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestListResponse 与当前用户相关的待处理请求
type RequestListResponse struct {
	Incoming []RequestView `json:"incoming"` // 当前用户是接收方
	Outgoing []RequestView `json:"outgoing"` // 当前用户是发起方
}

// ConnectionView 导师关系中的对方用户
type ConnectionView struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionListResponse 当前用户的导师关系
type ConnectionListResponse struct {
	Mentors []ConnectionView `json:"mentors"` // 当前用户是mentee
	Mentees []ConnectionView `json:"mentees"` // 当前用户是mentor
}
