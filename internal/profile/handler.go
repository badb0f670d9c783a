package profile

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProfile 获取当前用户的档案
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		svc := NewProfileService(db)
		p, err := svc.GetProfile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": ErrProfileNotFound.Error()})
				return
			}
			log.Printf("获取档案失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取档案失败"})
			return
		}

		c.JSON(http.StatusOK, p)
	}
}

// SetupProfile 保存当前用户的档案
func SetupProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}

		var req SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := NewProfileService(db)
		if err := svc.Setup(c.Request.Context(), userID, &req); err != nil {
			log.Printf("保存档案失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存档案失败"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "档案保存成功"})
	}
}
