package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mentormatch/internal/config"
	"mentormatch/internal/database"
	"mentormatch/internal/redisclient"
	"mentormatch/internal/router"
	"mentormatch/internal/session"
)

func main() {
	// 读取配置
	if err := config.Init(); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取数据库连接失败: %v", err)
	}
	defer sqlDB.Close()

	log.Println("数据库初始化成功")

	// 从配置中获取 Redis 地址
	redisConfig := config.GlobalConfig.Redis
	redisAddr := fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port)

	// 初始化Redis；失败时会话退回到进程内缓存
	if err := redisclient.InitRedis(redisAddr, redisConfig.Password, redisConfig.DB); err != nil {
		log.Printf("警告: Redis 初始化失败: %v", err)
		log.Printf("系统将在无Redis的情况下继续运行，会话不能跨实例共享")
	} else {
		log.Println("Redis 初始化成功")
	}

	// 创建会话管理器
	sessionTTL := time.Duration(config.GlobalConfig.Session.Expire) * time.Hour
	sessions := session.NewManager(sessionTTL)

	// 设置 Gin 路由
	r := router.SetupRouter(db, sessions)

	// 启动 HTTP 服务器
	port := config.GlobalConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP服务器已启动，监听端口 %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// 关闭Redis连接
	if err := redisclient.CloseRedis(); err != nil {
		log.Printf("关闭Redis连接失败: %v", err)
	}

	log.Println("服务器已安全关闭")
}
