package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/roads-dashboard-go/internal/config"
	"github.com/jengzang/roads-dashboard-go/internal/handler"
	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/metrics"
	"github.com/jengzang/roads-dashboard-go/internal/middleware"
	"github.com/jengzang/roads-dashboard-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *service.DashboardService, limiter *middleware.RateLimiter) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "message": "Roads Dashboard API is running"}
		if t, err := svc.Table(); err == nil {
			status["rows"] = t.Len()
			status["source"] = t.Source
		} else {
			status["status"] = "loading"
		}
		c.JSON(http.StatusOK, status)
	})

	metrics.Register()
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := handler.NewDashboardHandler(svc)

	// API 路由组
	api := r.Group("/api/v1")
	{
		roads := api.Group("/roads", middleware.RateLimit(limiter))
		{
			roads.GET("/options", h.Options)
			roads.GET("/summary", h.Summary)
			roads.GET("/aggregates", h.Aggregates)
			roads.GET("/map", h.Map)
			roads.GET("/records", h.Records)
			roads.GET("/schema", h.Schema)
			roads.GET("/charts/:kind", h.Chart)
			roads.GET("/export.xlsx", h.Export)
		}

		if cfg.JWTSecret != "" {
			admin := api.Group("/admin", middleware.RateLimit(limiter), middleware.JWTAuth(cfg.JWTSecret))
			{
				admin.POST("/reload", h.Reload)
			}
		} else {
			log.Warnw("JWT_SECRET is not set, admin routes are disabled")
		}
	}

	return r
}
