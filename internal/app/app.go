package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/config"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/db"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	ClientService   *service.ClientService
	DocumentService *service.DocumentService
	TodoService     *service.TodoService
	EmailService    *service.EmailService
	AuditService    *service.AuditService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	inviteRepository := repository.NewInviteRepository(database)
	clientRepository := repository.NewClientRepository(database)
	documentRepository := repository.NewDocumentRepository(database)
	todoRepository := repository.NewTodoRepository(database)
	auditRepository := repository.NewAuditRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	auditService := service.NewAuditService(auditRepository)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		inviteRepository,
		auditService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.InviteLinkExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, inviteRepository, authService, emailService, auditService)
	clientService := service.NewClientService(clientRepository, auditService)
	documentService := service.NewDocumentService(documentRepository, fileStorage, auditService)
	todoService := service.NewTodoService(todoRepository, auditService)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		ClientService:   clientService,
		DocumentService: documentService,
		TodoService:     todoService,
		EmailService:    emailService,
		AuditService:    auditService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
