package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"orgaudit/internal/api"
	"orgaudit/internal/audit"
	"orgaudit/internal/config"
	"orgaudit/internal/db"
	"orgaudit/internal/export"
	"orgaudit/internal/middleware"
	"orgaudit/internal/repository"
	"orgaudit/internal/service"
	"orgaudit/internal/uow"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional, real deployments use environment variables
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Register one audit binding per audited entity, then freeze. Every
	// auditable entity must have its mirror wired here before serving.
	registry := audit.NewRegistry()
	registry.Register(repository.NewCompanyBinding())
	registry.Register(repository.NewDepartmentBinding())
	registry.Register(repository.NewEmployeeBinding())
	registry.Freeze()

	interceptor := audit.NewInterceptor(registry, audit.SystemClock{}, audit.ContextPrincipal{})
	units := uow.Factory(func() *uow.UnitOfWork {
		return uow.New(conn, interceptor)
	})

	// Create repositories
	companyRepo := repository.NewCompanyRepository(conn.Pool)
	departmentRepo := repository.NewDepartmentRepository(conn.Pool)
	employeeRepo := repository.NewEmployeeRepository(conn.Pool)
	companyAuditRepo := repository.NewCompanyAuditRepository(conn.Pool)
	departmentAuditRepo := repository.NewDepartmentAuditRepository(conn.Pool)
	employeeAuditRepo := repository.NewEmployeeAuditRepository(conn.Pool)

	// Create services
	companyService := service.NewCompanyService(companyRepo, companyAuditRepo, employeeRepo, units)
	departmentService := service.NewDepartmentService(departmentRepo, departmentAuditRepo, employeeRepo, units)
	employeeService := service.NewEmployeeService(employeeRepo, employeeAuditRepo, units)

	exportService := export.NewService(companyService, departmentService, employeeService)

	router := api.NewRouter(
		api.NewCompanyHandler(companyService),
		api.NewDepartmentHandler(departmentService),
		api.NewEmployeeHandler(employeeService),
		export.NewHandler(exportService),
	)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := middleware.RecoveryMiddleware(
		middleware.LoggingMiddleware(
			middleware.UserMiddleware(
				corsHandler.Handler(router),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on :%d", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
