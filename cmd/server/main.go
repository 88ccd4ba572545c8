package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"tech_office_cms_go/config"
	"tech_office_cms_go/db"
	"tech_office_cms_go/handlers"
	"tech_office_cms_go/models"
	"tech_office_cms_go/services"
	"tech_office_cms_go/services/diavgeia"
	"tech_office_cms_go/services/jobs"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	database, err := db.Open(cfg.DBPath, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(database)

	// Run migrations
	if err := db.AutoMigrate(database,
		&models.Customer{},
		&models.Case{},
		&models.CaseCustomer{},
		&models.Task{},
		&models.Decision{},
		&models.CaseDecisionLink{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Share storage and services
	dialer := services.NewShareDialer(cfg)
	customerService := services.NewCustomerService(database)
	caseService := services.NewCaseService(database, cfg.NasBaseDir)
	taskService := services.NewTaskService(database)
	reportService := services.NewReportService(database)
	registry := diavgeia.NewClient(cfg.DiavgeiaBaseURL)
	cache := diavgeia.NewCache(database, registry)
	linkService := diavgeia.NewLinkService(database)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Cases:     handlers.NewCaseHandler(caseService, taskService),
		Customers: handlers.NewCustomerHandler(customerService),
		Tasks:     handlers.NewTaskHandler(taskService),
		Files:     handlers.NewFileHandler(caseService, dialer),
		Dashboard: handlers.NewDashboardHandler(database, dialer, cfg.NasCompletedDir),
		Diavgeia:  handlers.NewDiavgeiaHandler(cache, linkService),
		Reports:   handlers.NewReportHandler(reportService, caseService, linkService),
	})

	// Background task reminders (no-op unless REMINDER_SCHEDULE is set)
	if scheduler := jobs.StartScheduler(database, cfg); scheduler != nil {
		defer scheduler.Stop()
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
