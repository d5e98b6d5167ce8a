// Package migrations содержит версионированные SQL-миграции схемы БД
// Файлы встраиваются в бинарник и применяются при старте сервиса
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
