// Package migrations owns the relational schema. Migrations are forward-only SQL
// files applied in version order; goose records each applied version in its
// goose_db_version table, so running Up again is a no-op.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed *.sql
var files embed.FS

// dialectFor maps a gorm dialector name to the goose dialect
func dialectFor(db *gorm.DB) (goose.Dialect, error) {
	switch name := db.Dialector.Name(); name {
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", name)
	}
}

func newProvider(db *gorm.DB) (*goose.Provider, error) {
	dialect, err := dialectFor(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, files)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration and returns the resulting schema version
func Up(ctx context.Context, db *gorm.DB, logger *zap.Logger) (int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("Applied migration",
			zap.Int64("version", r.Source.Version),
			zap.String("file", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}

	return provider.GetDBVersion(ctx)
}

// Version returns the latest applied schema version
func Version(ctx context.Context, db *gorm.DB) (int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
