package app

import (
	"gscormer_backend/docs"
	"gscormer_backend/internal/config"
	"gscormer_backend/internal/middleware"
	"gscormer_backend/internal/model"
	"gscormer_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.POST("/logout", c.auth.Logout)
		api.PUT("/password", c.auth.ChangePassword)

		scorms := api.Group("/scorms")
		{
			scorms.GET("", c.scorm.List)
			scorms.POST("", c.scorm.Create)
			scorms.GET("/fields", c.scorm.Fields)
			scorms.GET("/:id", c.scorm.Detail)
			scorms.PUT("/:id", c.scorm.Update)
			scorms.POST("/:id/translate", c.scorm.Translate)
			scorms.GET("/:id/updates", c.scorm.Updates)
			scorms.GET("/:id/courses", c.scorm.RelatedCourses)
			scorms.POST("/:id/package", c.scorm.UploadPackage)

			status := scorms.Group("/status")
			{
				status.POST("", c.status.Transition)
				status.POST("/undo", c.status.Undo)
				status.POST("/redo", c.status.Redo)
				status.POST("/update", c.status.RegisterUpdate)
			}
		}

		courses := api.Group("/courses")
		{
			courses.GET("", c.course.List)
			courses.PUT("/:id/content", c.course.SaveContent)

			grouped := courses.Group("/grouped")
			{
				grouped.GET("/individual", c.course.GroupedByIndividual)
				grouped.GET("/plans", c.course.GroupedByPlan)
				grouped.GET("/scorms", c.course.GroupedByScorm)
			}
		}

		filters := api.Group("/filters")
		{
			filters.GET("/:view", c.filter.Active)
			filters.POST("/:view", c.filter.Add)
			filters.POST("/:view/toggle", c.filter.Toggle)
			filters.DELETE("/:view", c.filter.Clear)
		}
	}

	// publishing is gated inside the workflow itself, so the catalog
	// routes carry no role middleware
	admin := api.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/sessions", c.status.ActiveSessions)
	}
}
