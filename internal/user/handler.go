package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"mentormatch/internal/config"
	"mentormatch/internal/middleware"
	"mentormatch/internal/redisclient"
	"mentormatch/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register 处理用户注册
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := NewAccountService(db)
		userID, err := svc.Register(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, ErrEmailExists) {
				c.JSON(http.StatusConflict, gin.H{"error": ErrEmailExists.Error()})
				return
			}
			log.Printf("注册错误: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "用户注册成功",
			"user_id": userID,
		})
	}
}

// Login 处理用户登录
// 成功后同时下发JWT（API客户端用）和会话cookie（浏览器用）
func Login(db *gorm.DB, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := NewAccountService(db)
		response, err := svc.Login(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
				return
			}
			log.Printf("登录失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
			return
		}

		// 创建服务端会话并写入cookie
		sid, err := sessions.Create(c.Request.Context(), response.UserID)
		if err != nil {
			log.Printf("创建会话失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
			return
		}

		maxAge := config.GlobalConfig.Session.Expire * 3600
		c.SetCookie(middleware.SessionCookieName, sid, maxAge, "/", "", false, true)

		log.Printf("用户 %s 登录成功", response.UserID)
		c.JSON(http.StatusOK, gin.H{
			"user_id": response.UserID,
			"token":   response.Token,
		})
	}
}

// Logout 处理用户登出，销毁服务端会话
func Logout(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(middleware.SessionCookieName)
		if err == nil && sid != "" {
			if err := sessions.Destroy(c.Request.Context(), sid); err != nil {
				log.Printf("销毁会话失败: %v", err)
			}
		}

		// 清除cookie
		c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "已登出"})
	}
}

// GetUserInfo 获取当前用户信息
func GetUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		svc := NewAccountService(db)
		u, err := svc.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
			return
		}

		c.JSON(http.StatusOK, u)
	}
}

// Heartbeat 处理心跳请求，维护用户最近活跃状态
func Heartbeat(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
		return
	}

	now := time.Now().Unix()

	// Redis不可用时心跳降级为纯应答
	if !redisclient.IsRedisEnabled() {
		c.JSON(http.StatusOK, gin.H{
			"status":    "degraded",
			"timestamp": now,
			"user_id":   userID,
		})
		return
	}

	rdb := redisclient.GetRedisClient()
	ctx := context.Background()

	lastActiveKey := fmt.Sprintf("user:%s:last_active", userID)

	// 使用管道批量操作
	pipe := rdb.Pipeline()
	pipe.Set(ctx, lastActiveKey, now, 10*time.Minute)
	pipe.SAdd(ctx, "online_users", userID)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("更新用户活跃状态失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新状态失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": now,
		"user_id":   userID,
	})
}
