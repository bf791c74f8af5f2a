package postgres

import (
	"context"

	"github.com/upb/jwt-auth-api/config"
	"github.com/upb/jwt-auth-api/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages the postgres-backed repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the database and returns a factory bound to it
func NewRepositoryFactory(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositoryFactoryFromDB builds a factory around an existing pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// DB returns the underlying pool
func (f *RepositoryFactory) DB() *DB {
	return f.db
}

// InitSchema creates the tables the repositories need
func (f *RepositoryFactory) InitSchema(ctx context.Context) error {
	return f.db.InitSchema(ctx)
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Profiles: NewProfileRepository(f.db, f.logger),
	}
}

// Close closes the underlying pool
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
