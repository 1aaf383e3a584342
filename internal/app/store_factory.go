package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shrimpsizemoose/bolao/internal/store"
	"github.com/shrimpsizemoose/bolao/internal/store/postgres"
	"github.com/shrimpsizemoose/bolao/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.TicketStore, error) {
	switch dbType := store.DetectDBType(dsn); dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	case store.DBTypeSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
