// Package locales embeds the JSON message catalogs.
package locales

import "embed"

//go:embed *.json
var FS embed.FS
