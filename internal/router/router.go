package router

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/handler"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/middleware"
	"github.com/weiwangfds/homepage/internal/response"
	"github.com/weiwangfds/homepage/internal/service/course"
	"github.com/weiwangfds/homepage/internal/service/entity"
	ossservice "github.com/weiwangfds/homepage/internal/service/oss"
	"github.com/weiwangfds/homepage/internal/service/publication"
	"github.com/weiwangfds/homepage/internal/service/upload"
	"github.com/weiwangfds/homepage/internal/storage"
	"github.com/weiwangfds/homepage/internal/web"
	"gorm.io/gorm"

	_ "github.com/weiwangfds/homepage/docs" // swagger docs
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
	store  *storage.FileStore
}

// NewRouter 创建路由实例并装配全部服务
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	gin.SetMode(cfg.Server.Mode)

	engine := gin.New()
	engine.SetHTMLTemplate(template.Must(web.Templates()))

	// 初始化存储
	validator := storage.NewValidator(cfg.Upload)
	store := storage.NewFileStore(cfg.Upload.Root, validator)

	// 初始化OSS服务，开启镜像时本地上传与删除同步到激活的配置
	ossConfigService := ossservice.NewConfigService(db, nil)
	ossSyncService := ossservice.NewSyncService(db, ossConfigService, nil, time.Duration(cfg.OSS.Timeout)*time.Second)
	if cfg.OSS.Mirror {
		store.SetMirror(ossSyncService)
		logger.Component("router").Info("OSS mirror enabled")
	}

	// 初始化业务服务
	uploadService := upload.NewUploadService(db, validator, store)
	publicationService := publication.NewPublicationService(db)
	courseService := course.NewCourseService(db)

	// 初始化处理器
	uploadHandler := handler.NewUploadHandler(uploadService)
	publicationHandler := handler.NewPublicationHandler(publicationService)
	courseHandler := handler.NewCourseHandler(courseService)
	ossHandler := handler.NewOSSHandler(ossConfigService, ossSyncService)

	// 使用中间件
	engine.Use(loggerMiddleware.RequestID())
	engine.Use(loggerMiddleware.Language())
	engine.Use(loggerMiddleware.Logger())
	engine.Use(middleware.BodyLogger(middleware.DefaultBodyLoggerConfig(cfg.Server.Mode == gin.DebugMode)))
	engine.Use(gin.Recovery())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// 上传文件的静态访问，URL /uploads/<类别>/<文件名>
	engine.Use(static.Serve("/uploads", static.LocalFile(filepath.Join(cfg.Upload.Root, "uploads"), false)))

	// Swagger文档路由
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// 论文检索页面
	engine.GET("/publications/search", publicationHandler.SearchPage)

	api := engine.Group("/api")
	api.Use(middleware.AdminAuth(cfg.Admin))
	{
		// 基础信息接口
		api.GET("/info", func(c *gin.Context) {
			response.Success(c, gin.H{
				"service": cfg.App.Name,
				"version": cfg.App.Version,
				"status":  "running",
			})
		})

		// 数据库状态检查
		api.GET("/db/status", func(c *gin.Context) {
			sqlDB, err := db.DB()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, int(errors.ErrDatabaseQuery), "Database connection error")
				return
			}
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				response.Error(c, http.StatusInternalServerError, int(errors.ErrDatabaseQuery), "Database ping failed")
				return
			}
			response.Success(c, gin.H{"status": "Database connection OK"})
		})

		// 文件上传接口
		uploads := api.Group("/upload")
		{
			uploads.POST("/avatar/:id", uploadHandler.UploadAvatar)
			uploads.DELETE("/avatar/:id", uploadHandler.DeleteAvatar)
			uploads.POST("/pdf/:id", uploadHandler.UploadPDF)
			uploads.DELETE("/pdf/:id", uploadHandler.DeletePDF)
			uploads.POST("/qrcode/:id", uploadHandler.UploadQRCode)
			uploads.DELETE("/qrcode/:id", uploadHandler.DeleteQRCode)
			uploads.POST("/material/:id", uploadHandler.UploadMaterial)
			uploads.DELETE("/material/:id", uploadHandler.DeleteMaterial)
		}

		// 论文检索与论文CRUD
		publications := api.Group("/publications")
		{
			publications.GET("/search", publicationHandler.Search)
			publications.GET("/years", publicationHandler.Years)
			publications.GET("/professor/:professorId", publicationHandler.ListByProfessor)
			publications.GET("/professor/:professorId/count", publicationHandler.CountByProfessor)
		}
		handler.NewCRUDHandler(entity.NewRepository[database.Publication](db, "publication",
			entity.WithOwnedColumns("pdf_url"),
			entity.WithOrder("year DESC, id DESC"),
		)).Register(publications, false)

		// 主页实体CRUD
		handler.NewCRUDHandler(entity.NewRepository[database.Professor](db, "professor",
			entity.WithOwnedColumns("avatar_url"),
		)).Register(api.Group("/professors"), false)

		handler.NewCRUDHandler(entity.NewRepository[database.Education](db, "education",
			entity.WithOrder("start_year DESC, id DESC"),
		)).Register(api.Group("/educations"), true)

		handler.NewCRUDHandler(entity.NewRepository[database.ResearchProject](db, "research",
			entity.WithOrder("start_date DESC, id DESC"),
		)).Register(api.Group("/research-projects"), true)

		courses := api.Group("/teaching-courses")
		handler.NewCRUDHandler(entity.NewRepository[database.TeachingCourse](db, "course",
			entity.WithOwnedColumns("materials"),
		)).Register(courses, true)
		courses.GET("/:id/materials", courseHandler.GetMaterials)
		courses.PUT("/:id/materials", courseHandler.UpdateMaterials)

		handler.NewCRUDHandler(entity.NewRepository[database.Award](db, "award",
			entity.WithOrder("year DESC, id DESC"),
		)).Register(api.Group("/awards"), true)

		handler.NewCRUDHandler(entity.NewRepository[database.ContactInfo](db, "contact_info",
			entity.WithOwnedColumns("wechat_qrcode"),
		)).Register(api.Group("/contact-infos"), true)

		// OSS配置管理接口
		oss := api.Group("/oss")
		{
			oss.POST("/configs", ossHandler.CreateConfig)
			oss.GET("/configs", ossHandler.ListConfigs)
			oss.GET("/configs/active", ossHandler.GetActiveConfig)
			oss.GET("/configs/:id", ossHandler.GetConfig)
			oss.PUT("/configs/:id", ossHandler.UpdateConfig)
			oss.DELETE("/configs/:id", ossHandler.DeleteConfig)
			oss.POST("/configs/:id/activate", ossHandler.ActivateConfig)
			oss.PUT("/configs/:id/toggle", ossHandler.ToggleConfig)
			oss.POST("/configs/:id/test", ossHandler.TestConfig)
			oss.GET("/sync/logs", ossHandler.ListSyncLogs)
		}
	}

	return &Router{
		engine: engine,
		db:     db,
		store:  store,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}

// GetStore 获取文件存储
func (r *Router) GetStore() *storage.FileStore {
	return r.store
}
