package model

import "time"

// 导师请求状态
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

// MentorshipRequest 导师请求
// 同一对 (sender, receiver) 只允许存在一条请求，由唯一索引保证
type MentorshipRequest struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SenderID   string    `gorm:"type:varchar(36);index:idx_sender_receiver,unique" json:"sender_id"`
	ReceiverID string    `gorm:"type:varchar(36);index:idx_sender_receiver,unique" json:"receiver_id"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending, accepted, declined
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (MentorshipRequest) TableName() string {
	return "mentorship_requests"
}

// Connection 导师关系
// 请求被接受时创建，发起方成为 mentor，接受方成为 mentee
type Connection struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MentorID  string    `gorm:"type:varchar(36);index" json:"mentor_id"`
	MenteeID  string    `gorm:"type:varchar(36);index" json:"mentee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Connection) TableName() string {
	return "connections"
}
