package store

import "strings"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// DetectDBType picks the backend from the DSN scheme; anything that is not
// a postgres URL is handed to sqlite as a file path.
func DetectDBType(dsn string) DatabaseType {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DBTypePostgres
	}
	return DBTypeSQLite
}
