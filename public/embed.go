// Package public embeds the static storefront assets.
package public

import "embed"

//go:embed assets
var FS embed.FS
