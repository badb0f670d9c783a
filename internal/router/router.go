package router

import (
	"log"
	"time"

	"mentormatch/internal/config"
	"mentormatch/internal/match"
	"mentormatch/internal/middleware"
	"mentormatch/internal/profile"
	"mentormatch/internal/session"
	"mentormatch/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupRouter 配置所有路由
func SetupRouter(db *gorm.DB, sessions *session.Manager) *gin.Engine {
	r := gin.Default()

	// CORS 配置
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.GlobalConfig.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API请求日志中间件
	r.Use(func(c *gin.Context) {
		// 获取请求ID，方便跟踪
		requestID := uuid.New().String()
		c.Set("requestID", requestID)

		// 请求开始时间
		startTime := time.Now()

		// 处理请求
		c.Next()

		// 请求结束后记录
		latency := time.Since(startTime)
		log.Printf("[%s] 请求: %s %s, 状态: %d, 延迟: %s",
			requestID, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency)
	})

	// API 路由
	api := r.Group("/api")
	{
		// ----- 无需认证的路由 -----
		api.POST("/register", user.Register(db))
		api.POST("/login", user.Login(db, sessions))

		// ----- 需要认证的路由 -----
		auth := api.Group("/")
		auth.Use(middleware.Auth(sessions))
		{
			// ----- 用户相关 -----
			auth.POST("/logout", user.Logout(sessions))
			auth.GET("/user/info", user.GetUserInfo(db))

			// ----- 档案相关 -----
			auth.GET("/profile", profile.GetProfile(db))

			// 保存档案 - 支持多种路径
			profileSetupRoutes := []string{"/profile", "/profile/setup"}
			for _, route := range profileSetupRoutes {
				auth.POST(route, profile.SetupProfile(db))
			}

			// ----- 匹配相关 -----

			// 搜索用户 - 支持多种路径
			discoverRoutes := []string{"/match/discover", "/discover"}
			for _, route := range discoverRoutes {
				auth.GET(route, match.Discover(db))
			}

			// 发送导师请求 - 支持多种路径
			requestRoutes := []string{"/match/request", "/request"}
			for _, route := range requestRoutes {
				auth.POST(route, match.SendRequest(db))
			}

			// 响应导师请求 - 支持多种路径
			respondRoutes := []string{"/match/respond", "/respond"}
			for _, route := range respondRoutes {
				auth.POST(route, match.Respond(db))
			}

			// 请求和关系列表
			auth.GET("/match/requests", match.GetRequests(db))
			auth.GET("/match/connections", match.GetConnections(db))

			// 心跳检测
			auth.GET("/heartbeat", user.Heartbeat)
		}
	}

	return r
}
