package app

import (
	"context"
	"fmt"

	"github.com/upb/jwt-auth-api/config"
	"github.com/upb/jwt-auth-api/middleware"
	"github.com/upb/jwt-auth-api/repositories"
	"github.com/upb/jwt-auth-api/repositories/memory"
	"github.com/upb/jwt-auth-api/repositories/postgres"
	"github.com/upb/jwt-auth-api/services"
	"github.com/upb/jwt-auth-api/tokens"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB // nil when no database is configured
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Profiles repositories.ProfileRepository

	// Services
	ProfileService *services.ProfileService

	// Auth
	Verifier       *tokens.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
// A missing signing secret fails here, before any request is served.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initAuth builds the token verifier and the auth gates from the loaded secret
func (d *Dependencies) initAuth(cfg *config.Config) error {
	verifier, err := tokens.NewVerifier(cfg.Auth.TokenConfig())
	if err != nil {
		return err
	}

	d.Verifier = verifier
	d.AuthMiddleware = middleware.NewAuthMiddleware(verifier, d.Logger)
	d.Logger.Info("token verifier initialized", zap.Stringer("auth", cfg.Auth))
	return nil
}

// initDatabase opens PostgreSQL when configured and ensures the schema exists
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	if !cfg.Database.Enabled() {
		d.Logger.Warn("no database configured, profiles are kept in memory")
		return nil
	}

	factory, err := postgres.NewRepositoryFactory(ctx, cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return err
	}

	d.RepoFactory = factory
	d.DB = factory.DB()
	return nil
}

// initRepositories picks the postgres repositories or the in-memory fallback
func (d *Dependencies) initRepositories() {
	if d.RepoFactory != nil {
		repos := d.RepoFactory.NewRepositories()
		d.Profiles = repos.Profiles
	} else {
		d.Profiles = memory.NewProfileRepository()
	}
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.ProfileService = services.NewProfileService(d.Profiles, d.Logger)
}

// HealthChecker returns the database health checker, or nil without a database
func (d *Dependencies) HealthChecker() repositories.HealthChecker {
	if d.DB == nil {
		return nil
	}
	return d.DB
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
