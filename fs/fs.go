// Package appfs embeds the files the binaries need at runtime: database migrations, HTML templates and static assets.
package appfs

import "embed"

//go:embed migrations/*.sql templates/*.html static
var FS embed.FS

const (
	MigrationsDir = "migrations"
	TemplatesDir  = "templates"
	StaticDir     = "static"
)
