package server

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"donation-core/internal/feed"
	"donation-core/internal/handler"
	"donation-core/internal/handler/response"
	"donation-core/internal/server/routes"
	"donation-core/pkg/monitor"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine; hub 为 nil 时不注册实时推送
func NewHTTPRouter(h *handler.Handler, hub *feed.Hub) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())
	// websocket 升级和二维码 PNG 不压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/v1/feed$`, `/qrcode$`})))

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		routes.RegisterCustodyRoutes(api, h)
		routes.RegisterDonationRoutes(api, h)
		routes.RegisterTargetRoutes(api, h)
		routes.RegisterCatalogRoutes(api, h)

		if hub != nil {
			api.GET("/feed", hub.ServeWS)
		}
	}

	return r
}
