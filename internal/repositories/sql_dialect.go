package repositories

import (
	"fmt"
	"strings"
)

// Dialect captures the SQL differences between the supported backends.
type Dialect struct {
	Name        string
	DriverName  string
	createTable string
	numbered    bool
}

var (
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "pgx",
		numbered:   true,
		createTable: `CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
	}
	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		createTable: `CREATE TABLE IF NOT EXISTS documents (
			collection VARCHAR(64) NOT NULL,
			id VARCHAR(64) NOT NULL,
			data JSON NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
	}
)

// DialectFor resolves a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// rebind rewrites ? placeholders into $n for numbered dialects.
func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
