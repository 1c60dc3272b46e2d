// Package migrations embeds the SQL schema and applies it in file-name order.
package migrations

import "embed"

//go:embed *.sql
var files embed.FS

const dropAllFile = "000_drop_all.sql"
