package persistence

import (
	"embed"

	"github.com/jmoiron/sqlx"

	"marketplace/pkg/common/infrastructure/mysql"
)

//go:embed migrations/*.sql
var migrations embed.FS

func Migrate(db *sqlx.DB) error {
	return mysql.Migrate(db, migrations, "migrations")
}
