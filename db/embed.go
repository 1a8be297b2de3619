// Package db embeds the SQL schema applied at startup.
package db

import _ "embed"

// Schema holds the DDL for the storefront tables. It is applied by the
// migrations runner on both the API server and the seed tool.
//
//go:embed migrations/001_schema.sql
var Schema string
