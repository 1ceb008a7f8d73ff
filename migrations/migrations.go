// Package migrations содержит SQL схему сервиса, встроенную в бинарник
package migrations

import "embed"

// FS пронумерованные SQL миграции
//
//go:embed *.sql
var FS embed.FS
