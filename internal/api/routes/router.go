package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/api/handlers"
	"github.com/linskybing/rfp-portal/internal/api/middleware"
	"github.com/linskybing/rfp-portal/internal/session"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/linskybing/rfp-portal/docs"
)

type Options struct {
	Sessions         session.Store
	MaintenanceToken string
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, opts Options) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// public
	r.POST("/vendors/register", h.Auth.Register)
	r.GET("/vendors/check-email", h.Auth.CheckEmail)
	r.POST("/vendors/login", h.Auth.Login)
	r.POST("/admin/login", h.Auth.AdminLogin)
	r.POST("/maintenance/drafts/sweep", middleware.MaintenanceToken(opts.MaintenanceToken), h.Draft.Sweep)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(opts.Sessions))
	{
		auth.POST("/logout", h.Auth.Logout)

		v := auth.Group("/vendor", middleware.RequireVendor())
		{
			v.GET("/me", h.Auth.Me)

			v.GET("/draft", h.Draft.Get)
			v.PUT("/draft", h.Draft.Save)
			v.DELETE("/draft", h.Draft.Delete)

			v.GET("/submissions", h.Submission.List)
			v.POST("/submissions", h.Submission.Create)
			v.GET("/submissions/:id", h.Submission.Get)
			v.PUT("/submissions/:id", h.Submission.Update)
			v.POST("/submissions/:id/questions", h.QA.Ask)

			v.GET("/questions", h.QA.VendorThreads)
			v.POST("/questions/read", h.QA.MarkRead)
		}

		admin := auth.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/vendors", h.Admin.ListVendors)
			admin.GET("/vendors/:id", h.Admin.GetVendor)
			admin.POST("/vendors/:id/approve", h.Admin.Approve)
			admin.POST("/vendors/:id/decline", h.Admin.Decline)

			admin.GET("/submissions", h.Submission.AdminList)
			admin.GET("/submissions/:id", h.Submission.AdminGet)
			admin.PUT("/submissions/:id/review", h.Submission.Review)
			admin.POST("/submissions/:id/answers", h.QA.Answer)

			admin.GET("/questions", h.QA.AdminThreads)
			admin.GET("/audit", h.Admin.Audit)
		}
	}
}
