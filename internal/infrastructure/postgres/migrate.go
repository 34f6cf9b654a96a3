package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

// VersionTable tabla donde tern guarda la versión aplicada del esquema.
const VersionTable = "schema_version"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationFiles expone las migraciones embebidas en la raíz del FS (001_init.sql, ...).
func migrationFiles() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// Migrate aplica con tern las migraciones embebidas pendientes. Cada una corre en su propia
// transacción bajo el advisory lock de tern. Devuelve los nombres aplicados.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), VersionTable)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	files, err := migrationFiles()
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	if err := m.LoadMigrations(files); err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var applied []string
	m.OnStart = func(_ int32, name, direction, _ string) {
		if direction == "up" {
			applied = append(applied, name)
		}
	}
	if err := m.Migrate(ctx); err != nil {
		return applied, fmt.Errorf("apply migrations: %w", err)
	}
	return applied, nil
}
