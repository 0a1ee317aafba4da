package pg

import (
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found at the root of
// migrations against the write database.
func Migrate(cfg Config, migrations fs.FS) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	db, err := newSqlConnection(cfg)
	if err != nil {
		return errors.Wrap(err, "open migration connection")
	}
	defer db.Close()

	if err = goose.Up(db, "."); err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	return nil
}
