package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-workflowui/internal/content"
	"github.com/goliatone/go-workflowui/internal/history"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
	"github.com/goliatone/go-workflowui/internal/settings"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var (
	// ErrStorageDisabled is returned by Open when no driver is configured.
	ErrStorageDisabled = errors.New("storage: no driver configured")
	ErrUnknownDriver   = errors.New("storage: unknown driver")
)

// Capabilities documents behaviour that differs between drivers.
type Capabilities struct {
	Driver       string
	SharedMemory bool
}

// Open connects to the configured database and wraps it with the matching
// bun dialect.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		return nil, ErrStorageDisabled
	}

	switch driver {
	case DriverSQLite, "sqlite":
		sqldb, err := sql.Open(DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		if strings.Contains(cfg.DSN, "mode=memory") || strings.Contains(cfg.DSN, ":memory:") {
			sqldb.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres, "postgresql", "pg":
		sqldb, err := sql.Open(DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// CapabilitiesOf reports what the database behind db supports.
func CapabilitiesOf(db *bun.DB) Capabilities {
	if db == nil {
		return Capabilities{}
	}
	if db.Dialect().Name() == dialect.PG {
		return Capabilities{Driver: DriverPostgres}
	}
	return Capabilities{Driver: DriverSQLite, SharedMemory: true}
}

// Models lists every table owned by the module.
func Models() []any {
	return []any{
		settings.Model(),
		history.Model(),
		content.Model(),
	}
}

// CreateTables creates the module tables when missing.
func CreateTables(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return ErrStorageDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table: %w", err)
		}
	}
	return nil
}
