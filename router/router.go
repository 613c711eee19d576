package router

import (
	"net/http"
	"time"

	"ecgenius/api"
	"ecgenius/config"
	"ecgenius/diagnostics"
	_ "ecgenius/docs"
	"ecgenius/logger"
	"ecgenius/middleware"
	"ecgenius/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖，启动时注入
type Deps struct {
	Store       store.RecordStore
	Diagnostics diagnostics.Diagnostics
	IDs         api.IDGenerator
	// Notifier 可为 nil
	Notifier api.RegistrationNotifier
	// Audit 可为 nil，此时不记录审计日志
	Audit *middleware.AuditLogger
	Log   *logger.Logger
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(CORSMiddleware())
	if deps.Audit != nil {
		r.Use(deps.Audit.Middleware())
	}

	infoHandler := api.NewInfoHandler()
	predictionHandler := api.NewPredictionHandler(deps.Store, deps.Diagnostics, deps.IDs, deps.Log)
	patientHandler := api.NewPatientHandler(deps.Store, deps.Notifier, deps.Log)
	reportHandler := api.NewReportHandler(deps.Store, deps.Log)

	r.GET("/", infoHandler.Home)
	r.GET("/api", infoHandler.API)
	r.GET("/predict", infoHandler.PredictGuidance)

	// 写接口可选限流
	post := r.Group("")
	if cfg.RateLimit.Enabled {
		post.Use(middleware.RateLimit(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window))
	}
	{
		post.POST("/predict", predictionHandler.Predict)
		post.POST("/register", patientHandler.Register)
		post.POST("/update_patient_info", patientHandler.UpdatePatientInfo)
		post.POST("/get_report", reportHandler.GetReport)
		post.POST("/export_report", reportHandler.ExportReport)
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", infoHandler.Health)

	r.NoRoute(func(c *gin.Context) {
		api.NotFound(c, "Route not found.")
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
