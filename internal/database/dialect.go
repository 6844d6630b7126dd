package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported SQL backends so the
// repositories can be written once against ? placeholders.
type Dialect interface {
	// DriverName is the name registered with database/sql.
	DriverName() string

	// DSN builds the connection string from the dialect config.
	DSN(cfg DialectConfig) string

	// RewriteQuery converts ? placeholders to the backend's syntax.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements
	// LastInsertId; PostgreSQL needs a RETURNING clause instead.
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool settings and backend pragmas.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory holding this backend's
	// migration files (e.g. "sqlite", "postgres"); DDL is not portable
	// across the supported backends.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the DDL for the migrations
	// tracking table in this backend's types.
	CreateMigrationsTableQuery() string
}

// DialectConfig carries the connection parameters; Path is used by SQLite,
// URL by PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ... for PostgreSQL.
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
