package app

import (
	"fmt"

	"devcraft_backend/database"
	"devcraft_backend/internal/config"
	"devcraft_backend/internal/email"
	"devcraft_backend/internal/handlers"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/payment"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/routes"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/storage"
	"devcraft_backend/internal/validator"
	"devcraft_backend/internal/workers"
	"devcraft_backend/ws"

	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без админа половина API недоступна - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	reconcileWorker, err := workers.NewReconcileWorker(gormDB, serviceContainer.ReconcileService, cfg.Reconcile.IntervalMinutes)
	if err != nil {
		logger.Fatal("Failed to create reconcile worker", "error", err)
	}
	if err := reconcileWorker.Start(); err != nil {
		logger.Fatal("Failed to start reconcile worker", "error", err)
	}
	defer reconcileWorker.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает сервисы и gin-приложение поверх готового
// подключения к БД. Вынесено отдельно, чтобы интеграционные тесты
// могли поднять тот же роутер без запуска воркеров.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg)
	appHandlers := initializeHandlers(serviceContainer)

	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// Сервис сообщений оповещает подписчиков о изменениях треда
	serviceContainer.MessageService.SetNotifier(wsManager)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPUsername == "" {
		logger.Warn("SMTP credentials are not set. Using mock email provider.")
		emailService = &MockEmailProvider{}
	} else {
		renderer := email.NewTemplateManager()
		if cfg.Email.TemplatesDir != "" {
			if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
				logger.Warn("Failed to load email templates, using built-in", "error", err)
			}
		}
		emailService = email.NewSMTPProvider(email.ConfigFromApp(cfg), renderer)
		if err := emailService.Validate(); err != nil {
			logger.Fatal("Invalid email configuration", "error", err)
		}
	}

	storageInstance, err := storage.NewStorage(storage.FromAppConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	paymentProvider := payment.NewSimulatedProvider(cfg.Payment.DelayMS)

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	clientRepo := repositories.NewClientRepository()
	serviceRepo := repositories.NewServiceRepository()
	requestRepo := repositories.NewRequestRepository()
	projectRepo := repositories.NewProjectRepository()
	messageRepo := repositories.NewMessageRepository()
	paymentRepo := repositories.NewPaymentRepository()

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(userRepo, emailService)
	catalogService := services.NewCatalogService(serviceRepo)
	requestService := services.NewRequestService(requestRepo, emailService, storageInstance)
	checkoutService := services.NewCheckoutService(serviceRepo, requestRepo, clientRepo, projectRepo, paymentRepo, paymentProvider)
	projectService := services.NewProjectService(projectRepo, clientRepo, paymentRepo)
	messageService := services.NewMessageService(messageRepo, requestRepo, projectRepo, clientRepo, nil)
	reconcileService := services.NewReconcileService(requestRepo, projectRepo)

	return &services.ServiceContainer{
		AuthService:      authService,
		CatalogService:   catalogService,
		RequestService:   requestService,
		CheckoutService:  checkoutService,
		ProjectService:   projectService,
		MessageService:   messageService,
		ReconcileService: reconcileService,
		EmailService:     emailService,
		Storage:          storageInstance,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService),
		CatalogHandler:  handlers.NewCatalogHandler(baseHandler, services.CatalogService),
		RequestHandler:  handlers.NewRequestHandler(baseHandler, services.RequestService),
		CheckoutHandler: handlers.NewCheckoutHandler(baseHandler, services.CheckoutService),
		ProjectHandler:  handlers.NewProjectHandler(baseHandler, services.ProjectService),
		MessageHandler:  handlers.NewMessageHandler(baseHandler, services.MessageService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
