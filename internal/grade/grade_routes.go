package grade

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	grades := r.Group("/grades")
	grades.Use(middleware.AuthMiddleware())
	grades.Use(middleware.ContextLogger(logger))
	{
		grades.GET("", middleware.RBACAuthorize(rbacService, "grade", "read"), handler.GetAll)
		grades.GET("/:id", middleware.RBACAuthorize(rbacService, "grade", "read"), handler.GetByID)
		grades.POST("", middleware.RBACAuthorize(rbacService, "grade", "create"), handler.Create)
		grades.PUT("/:id", middleware.RBACAuthorize(rbacService, "grade", "update"), handler.Update)
		grades.DELETE("/:id", middleware.RBACAuthorize(rbacService, "grade", "delete"), handler.Delete)

		grades.GET("/:id/components", middleware.RBACAuthorize(rbacService, "grade", "read"), handler.GetComponents)
		grades.POST("/:id/components", middleware.RBACAuthorize(rbacService, "grade", "update"), handler.CreateComponent)
		grades.PUT("/:id/components/:componentId", middleware.RBACAuthorize(rbacService, "grade", "update"), handler.UpdateComponent)
		grades.DELETE("/:id/components/:componentId", middleware.RBACAuthorize(rbacService, "grade", "update"), handler.DeleteComponent)
	}
}
