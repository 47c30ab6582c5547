package sqldb

import (
	"fmt"
	"strings"
)

// Driver is a database/sql driver name supported by the store.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "pgx"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(OFF)"

// ParseDSN maps DATABASE_URL onto a driver and a DSN it understands.
// Accepted forms: postgres://..., postgresql://..., sqlite://path.db,
// sqlite:///abs/path.db, or a bare file path (sqlite).
func ParseDSN(databaseURL string) (Driver, string) {
	switch {
	case databaseURL == "":
		return DriverSQLite, sqliteDSN("brainrot_shop.db")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, databaseURL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		// sqlite:///abs/path keeps its leading slash
		return DriverSQLite, sqliteDSN(path)
	case strings.HasPrefix(databaseURL, "file:"):
		return DriverSQLite, databaseURL
	}
	return DriverSQLite, sqliteDSN(databaseURL)
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?%s", path, sqlitePragmas)
}
