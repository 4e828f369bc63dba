package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pipedesk/pipedesk/db"
	"github.com/pipedesk/pipedesk/internal/cache"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/handlers"
	"github.com/pipedesk/pipedesk/internal/middleware"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/services"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.App.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Organization-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	perms := permissions.NewEvaluator()
	analyticsCache := cache.NewAnalyticsCache(config.App.AnalyticsCacheTTL)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(db.DB))
	orgHandler := handlers.NewOrganizationHandler(services.NewOrganizationService(db.DB, perms))
	contactHandler := handlers.NewContactHandler(services.NewContactService(db.DB, perms))
	dealHandler := handlers.NewDealHandler(services.NewDealService(db.DB, perms))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(db.DB, perms))
	activityHandler := handlers.NewActivityHandler(services.NewActivityService(db.DB))
	analyticsHandler := handlers.NewAnalyticsHandler(services.NewAnalyticsService(db.DB, perms, analyticsCache))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		v1 := api.Group("/v1")

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthMiddleware(), authHandler.Me)
		}

		// Organization routes carry the organization in the path and need no
		// X-Organization-Id header.
		organizations := v1.Group("/organizations", middleware.AuthMiddleware())
		{
			organizations.GET("", orgHandler.ListMine)
			organizations.GET("/:org_id", orgHandler.Get)
			organizations.PATCH("/:org_id", orgHandler.Update)
			organizations.DELETE("/:org_id", orgHandler.Delete)

			organizations.GET("/:org_id/members", orgHandler.ListMembers)
			organizations.POST("/:org_id/members", orgHandler.AddMember)
			organizations.PATCH("/:org_id/members/:user_id", orgHandler.UpdateMemberRole)
			organizations.DELETE("/:org_id/members/:user_id", orgHandler.RemoveMember)
		}

		// CRM routes are scoped to the organization named in the
		// X-Organization-Id header.
		scoped := v1.Group("", middleware.AuthMiddleware(), middleware.OrgContextMiddleware())
		{
			contacts := scoped.Group("/contacts")
			{
				contacts.GET("", contactHandler.List)
				contacts.POST("", contactHandler.Create)
				contacts.GET("/:contact_id", contactHandler.Get)
				contacts.PATCH("/:contact_id", contactHandler.Update)
				contacts.DELETE("/:contact_id", contactHandler.Delete)
			}

			deals := scoped.Group("/deals")
			{
				deals.GET("", dealHandler.List)
				deals.POST("", dealHandler.Create)
				deals.GET("/:deal_id", dealHandler.Get)
				deals.PATCH("/:deal_id", dealHandler.Update)
				deals.DELETE("/:deal_id", dealHandler.Delete)

				deals.GET("/:deal_id/activities", activityHandler.ListForDeal)
				deals.POST("/:deal_id/activities", activityHandler.CreateComment)
			}

			tasks := scoped.Group("/tasks")
			{
				tasks.GET("", taskHandler.List)
				tasks.POST("", taskHandler.Create)
				tasks.GET("/overdue-count", taskHandler.OverdueCount)
				tasks.GET("/:task_id", taskHandler.Get)
				tasks.PATCH("/:task_id", taskHandler.Update)
				tasks.POST("/:task_id/done", taskHandler.MarkDone)
				tasks.POST("/:task_id/undone", taskHandler.MarkUndone)
				tasks.DELETE("/:task_id", taskHandler.Delete)
			}

			analytics := scoped.Group("/analytics")
			{
				analytics.GET("/summary", analyticsHandler.Summary)
				analytics.GET("/funnel", analyticsHandler.Funnel)
			}
		}
	}

	return r
}
