package match

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Discover 搜索可匹配的用户，支持 role 和 skill 过滤
func Discover(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		role := c.Query("role")
		skill := c.Query("skill")

		svc := NewMatchService(db)
		candidates, err := svc.Discover(c.Request.Context(), userID, role, skill)
		if err != nil {
			log.Printf("搜索用户失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
			return
		}

		c.JSON(http.StatusOK, candidates)
	}
}

// SendRequest 发送导师请求
func SendRequest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		var req SendRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := NewMatchService(db)
		requestID, err := svc.SendRequest(c.Request.Context(), userID, req.ReceiverID)
		if err != nil {
			switch {
			case errors.Is(err, ErrSelfRequest):
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrSelfRequest.Error()})
			case errors.Is(err, ErrDuplicateRequest):
				c.JSON(http.StatusConflict, gin.H{"error": ErrDuplicateRequest.Error()})
			default:
				log.Printf("发送导师请求失败: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "导师请求已发送",
			"request_id": requestID,
		})
	}
}

// Respond 接受或拒绝导师请求
func Respond(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		var req RespondRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := NewMatchService(db)
		if err := svc.Respond(c.Request.Context(), userID, req.RequestID, req.Action); err != nil {
			switch {
			case errors.Is(err, ErrInvalidAction):
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidAction.Error()})
			case errors.Is(err, ErrNotReceiver):
				c.JSON(http.StatusForbidden, gin.H{"error": ErrNotReceiver.Error()})
			case errors.Is(err, ErrAlreadyResolved):
				c.JSON(http.StatusConflict, gin.H{"error": ErrAlreadyResolved.Error()})
			default:
				log.Printf("响应导师请求失败: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "响应已记录"})
	}
}

// GetRequests 获取与当前用户相关的待处理请求
func GetRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		svc := NewMatchService(db)
		requests, err := svc.ListRequests(c.Request.Context(), userID)
		if err != nil {
			log.Printf("获取请求列表失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
			return
		}

		c.JSON(http.StatusOK, requests)
	}
}

// GetConnections 获取当前用户的导师关系
func GetConnections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		svc := NewMatchService(db)
		connections, err := svc.ListConnections(c.Request.Context(), userID)
		if err != nil {
			log.Printf("获取导师关系失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器错误"})
			return
		}

		c.JSON(http.StatusOK, connections)
	}
}
