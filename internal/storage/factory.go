package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config controls how the storage backend is opened.
type Config struct {
	Driver string
	DSN    string
}

// Open constructs a Storage based on the given configuration. Database
// backends are migrated before they are returned.
func Open(ctx context.Context, cfg Config) (Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "memory":
		log.Printf("storage: using in-memory backend")
		return NewMemory(), nil
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	log.Printf("storage: using gorm driver=%s", cfg.Driver)
	st, err := NewGormStorage(dialector)
	if err != nil {
		return nil, fmt.Errorf("storage open %s: %w", cfg.Driver, err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("storage migrate: %w", err)
	}
	return st, nil
}
