package main

import (
	"log"

	"centavo/internal/domain/access"
	"centavo/internal/domain/account"
	"centavo/internal/domain/budget"
	"centavo/internal/domain/entry"
	"centavo/internal/domain/session"
	"centavo/internal/infrastructure/crypto"
	"centavo/internal/infrastructure/postgres"
	httphandlers "centavo/internal/interfaces/http"
	"centavo/internal/shared/auth"
	"centavo/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	UserHandler    *httphandlers.UserHandler
	AccountHandler *httphandlers.AccountHandler
	EntryHandler   *httphandlers.EntryHandler
	BudgetHandler  *httphandlers.BudgetHandler

	// Auth
	TokenIssuer *auth.TokenIssuer

	// Services (for scheduler job provider)
	SessionService *session.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor for at-rest field encryption
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewRefreshTokenRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db, encryptor)

	// Initialize auth components
	hasher := auth.NewHasher(auth.HasherParams{
		Time:    uint32(cfg.Password.Time),
		Memory:  uint32(cfg.Password.Memory),
		Threads: uint8(cfg.Password.Threads),
		KeyLen:  uint32(cfg.Password.KeyLen),
		SaltLen: uint32(cfg.Password.SaltLen),
	})
	issuer := auth.NewTokenIssuer(auth.IssuerConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	})

	// Access control evaluator over the two level stores
	evaluator := access.NewEvaluator(accountRepo, budgetRepo)

	// Initialize domain services
	sessionService := session.NewService(userRepo, tokenRepo, hasher, issuer)
	accountService := account.NewService(accountRepo, evaluator)
	entryService := entry.NewService(entryRepo, evaluator)
	budgetService := budget.NewService(budgetRepo, evaluator)

	return &Dependencies{
		DB:             db,
		AuthHandler:    httphandlers.NewAuthHandler(sessionService),
		UserHandler:    httphandlers.NewUserHandler(userRepo),
		AccountHandler: httphandlers.NewAccountHandler(accountService),
		EntryHandler:   httphandlers.NewEntryHandler(entryService),
		BudgetHandler:  httphandlers.NewBudgetHandler(budgetService),
		TokenIssuer:    issuer,
		SessionService: sessionService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
