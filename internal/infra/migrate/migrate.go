// Package migrate применяет встроенные SQL-миграции при старте сервиса
package migrate

import (
	"database/sql"
	"errors"
	"fmt"

	gomigrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m04kA/SBP-AppointmentService/migrations"
)

// Logger - интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
}

// Up поднимает схему БД до последней версии
// Отсутствие новых миграций не считается ошибкой
func Up(db *sql.DB, log Logger) error {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrate.Up - create database driver: %w", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migrate.Up - load embedded migrations: %w", err)
	}

	m, err := gomigrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("migrate.Up - init migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, gomigrate.ErrNoChange) {
			log.Info("migrate.Up - схема БД актуальна, новых миграций нет")
			return nil
		}
		return fmt.Errorf("migrate.Up - apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrate.Up - read schema version: %w", err)
	}
	log.Info("migrate.Up - схема БД обновлена до версии %d (dirty=%v)", version, dirty)

	return nil
}
