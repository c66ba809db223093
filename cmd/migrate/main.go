package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"corebank/internal/config"
	"corebank/internal/db"
)

// Runs pending migrations in filename order ("up", the default), or rolls
// back the most recently applied one ("down") using the statements after the
// "-- +migrate Down" marker. Each migration runs inside its own transaction.
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "migrations"
	}

	switch command {
	case "up":
		err = migrateUp(database, dir)
	case "down":
		err = migrateDown(database, dir)
	default:
		log.Fatalf("unknown command %q (want up or down)", command)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func migrateUp(database *sqlx.DB, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)
		var applied bool
		if err := database.Get(&applied, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			return fmt.Errorf("read state for %s: %w", filename, err)
		}
		if applied {
			continue
		}
		migration, err := loadMigration(file)
		if err != nil {
			return fmt.Errorf("load %s: %w", filename, err)
		}
		err = runStatements(database, migration.up, func(tx *sqlx.Tx) error {
			_, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", filename, err)
		}
		fmt.Printf("applied %s\n", filename)
	}
	return nil
}

func migrateDown(database *sqlx.DB, dir string) error {
	var filename string
	if err := database.Get(&filename, `SELECT filename FROM schema_migrations ORDER BY applied_at DESC, filename DESC LIMIT 1`); err != nil {
		return fmt.Errorf("nothing to roll back: %w", err)
	}
	migration, err := loadMigration(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}
	if len(migration.down) == 0 {
		return fmt.Errorf("%s has no down section", filename)
	}
	err = runStatements(database, migration.down, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`DELETE FROM schema_migrations WHERE filename = $1`, filename)
		return err
	})
	if err != nil {
		return fmt.Errorf("roll back %s: %w", filename, err)
	}
	fmt.Printf("rolled back %s\n", filename)
	return nil
}

type migration struct {
	up   []string
	down []string
}

func loadMigration(path string) (migration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return migration{}, err
	}
	up, down, _ := strings.Cut(string(content), "-- +migrate Down")
	return migration{up: splitSQL(up), down: splitSQL(down)}, nil
}

// runStatements executes the statements and the bookkeeping write in one
// transaction so a half-applied migration never lands.
func runStatements(database *sqlx.DB, statements []string, record func(*sqlx.Tx) error) error {
	tx, err := database.Beginx()
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func splitSQL(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	trimmed := statements[:0]
	for _, stmt := range statements {
		if strings.TrimSpace(stmt) != "" {
			trimmed = append(trimmed, stmt)
		}
	}
	return trimmed
}
