package app

import (
	"database/sql"
	"path/filepath"

	"go-payroll/internal/employee"
	"go-payroll/internal/grade"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	gradeRepo := grade.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	// The grade repository doubles as the component resolver and the
	// employee repository as the payroll population source.
	gradeService := grade.NewService(db, gradeRepo)
	employeeService := employee.NewService(db, employeeRepo, gradeRepo)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, employeeRepo, gradeRepo, outboxRepo, rdb)

	// --- Handlers ---
	gradeHandler := grade.NewHandler(gradeService)
	employeeHandler := employee.NewHandler(employeeService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		grade.RegisterRoutes(api, gradeHandler, rbacService, zap.L().Named("grade"))
		employee.RegisterRoutes(api, employeeHandler, rbacService, zap.L().Named("employee"))
		payroll.RegisterRoutes(api, payrollHandler, rbacService, zap.L().Named("payroll"), rdb)
	}

	return nil
}
