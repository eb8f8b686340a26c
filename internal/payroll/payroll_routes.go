package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	logger *zap.Logger,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	runs.Use(middleware.ContextLogger(logger))
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		runs.GET("/:id/records", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetRecords)
		runs.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Create)
		if redisClient != nil {
			runs.POST(
				"/:id/process",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "process"),
				handler.Process,
			)
		} else {
			runs.POST("/:id/process", middleware.RBACAuthorize(rbacService, "payroll", "process"), handler.Process)
		}
		runs.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		runs.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.MarkAsPaid)
		runs.POST("/:id/payslips", middleware.RBACAuthorize(rbacService, "payroll", "process"), handler.GeneratePayslips)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}

	records := r.Group("/employees/:id/payroll-records")
	records.Use(middleware.AuthMiddleware())
	records.Use(middleware.ContextLogger(logger))
	{
		records.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetRecordsForEmployee)
	}
}
