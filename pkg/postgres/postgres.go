package postgres

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

type Postgres struct {
	Database   *sql.DB
	SqlBuilder squirrel.StatementBuilderType
}

func NewDB(url string) (*Postgres, error) {
	driver := "postgres"
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("error while opening database with driver `%s`. %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database with driver `%s`. %w", driver, err)
	}

	return Wrap(db, squirrel.Dollar), nil
}

// Wrap builds a Postgres around an already opened handle. Other engines
// (sqlite in tests) pass their own placeholder format.
func Wrap(db *sql.DB, format squirrel.PlaceholderFormat) *Postgres {
	return &Postgres{
		Database:   db,
		SqlBuilder: squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

func (p *Postgres) Close() error {
	if p.Database != nil {
		return p.Database.Close()
	}

	return nil
}
