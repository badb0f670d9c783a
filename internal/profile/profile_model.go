package profile

// SetupRequest 档案保存请求
// skills/interests 为逗号分隔的标签名称，保存时统一小写并去除空白
type SetupRequest struct {
	Role      string `json:"role" binding:"required"`
	Bio       string `json:"bio"`
	Skills    string `json:"skills"`
	Interests string `json:"interests"`
}

// ProfileResponse 档案响应
type ProfileResponse struct {
	UserID    string   `json:"user_id"`
	Role      string   `json:"role"`
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}
